package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileID uniquely identifies a document within a FileSet. ID 0 is reserved
// for program-level spans.
type FileID uint32

// File is a registered document. Content is optional: units decoded from an
// AST dump carry only their path unless the original text is available.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
}

// FileSet owns the documents referenced by spans.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates a FileSet with the reserved program slot.
func NewFileSet() *FileSet {
	return &FileSet{
		files: []File{{ID: 0, Path: "<program>"}},
		index: make(map[string]FileID),
	}
}

// Add registers a document and returns its id. Re-adding a path returns the
// existing id and replaces its content when content is non-nil.
func (fileSet *FileSet) Add(path string, content []byte) FileID {
	path = filepath.ToSlash(filepath.Clean(path))
	if id, ok := fileSet.index[path]; ok {
		if content != nil {
			f := &fileSet.files[id]
			f.Content = content
			f.LineIdx = buildLineIndex(content)
		}
		return id
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
	})
	fileSet.index[path] = id
	return id
}

// Load registers path and reads its text for diagnostic context.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return fileSet.Add(path, content), nil
}

// Get returns the document for id, or nil when id is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if fileSet == nil || int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Lookup returns the id registered for path.
func (fileSet *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fileSet.index[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

// Len returns the number of registered documents, the program slot included.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Path returns the display path for span's document.
func (fileSet *FileSet) Path(span Span) string {
	f := fileSet.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	return f.Path
}

// Line returns the text of a 1-based line, or "" when unavailable.
func (f *File) Line(lineNum uint32) string {
	if f == nil || lineNum == 0 || len(f.Content) == 0 {
		return ""
	}
	lenIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if lineNum-1 < lenIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start >= lenContent || end < start {
		return ""
	}
	return string(f.Content[start:end])
}

// buildLineIndex records the byte offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	if len(content) == 0 {
		return nil
	}
	idx := make([]uint32, 0, 64)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		idx = append(idx, off)
	}
	return idx
}
