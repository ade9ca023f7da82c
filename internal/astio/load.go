package astio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/source"
)

// Loaded is one decoded unit file.
type Loaded struct {
	Path   string
	FileID source.FileID
	Unit   *ast.ProgramUnit
}

// Expand resolves glob patterns relative to base into a sorted, duplicate
// free list of unit files. Directories contribute every unit file below them.
func Expand(base string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, pat := range patterns {
		if !filepath.IsAbs(pat) && base != "" {
			pat = filepath.Join(base, pat)
		}
		matches, err := filepath.Glob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad unit pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no unit files match %q", pat)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(m)
				continue
			}
			err = filepath.WalkDir(m, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && FormatOf(path) != FormatUnknown {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadFiles decodes unit files concurrently. Failures are reported to bag as
// IO diagnostics and the file is skipped; the result keeps input order.
// Every span of a decoded unit is stamped with the FileID of its source
// document (ProgramUnit.Source when set, the unit file otherwise).
func LoadFiles(ctx context.Context, fs *source.FileSet, paths []string, bag *diag.Bag, jobs int) ([]Loaded, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	units := make([]*ast.ProgramUnit, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// slots are per-index, no lock needed
			units[i], errs[i] = DecodeFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the FileSet is not safe for concurrent use: register sequentially
	out := make([]Loaded, 0, len(paths))
	for i, path := range paths {
		if errs[i] != nil {
			bag.Add(diag.NewError(diag.IODecodeError, source.NoSpan,
				fmt.Sprintf("failed to load unit %s: %v", path, errs[i])))
			continue
		}
		unit := units[i]
		doc := path
		var fileID source.FileID
		if unit.Source != "" {
			doc = unit.Source
			if !filepath.IsAbs(doc) {
				doc = filepath.Join(filepath.Dir(path), doc)
			}
			id, err := fs.Load(doc)
			if err != nil {
				// text is optional, positions still name the document
				id = fs.Add(doc, nil)
			}
			fileID = id
		} else {
			fileID = fs.Add(doc, nil)
		}
		unit.SetFile(fileID)
		out = append(out, Loaded{Path: path, FileID: fileID, Unit: unit})
	}
	return out, nil
}

// Units extracts the decoded units.
func Units(loaded []Loaded) []*ast.ProgramUnit {
	out := make([]*ast.ProgramUnit, len(loaded))
	for i := range loaded {
		out[i] = loaded[i].Unit
	}
	return out
}
