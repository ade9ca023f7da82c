package diagfmt

import (
	"path/filepath"
	"strings"

	"chad/internal/source"
)

// autoPathLimit is the length past which PathModeAuto shows only the basename.
const autoPathLimit = 40

func formatPath(fs *source.FileSet, span source.Span, mode PathMode, base string) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	if span.IsProgram() {
		return f.Path
	}
	p := filepath.FromSlash(f.Path)
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	case PathModeRelative:
		if base == "" {
			break
		}
		if rel, err := filepath.Rel(base, p); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	case PathModeBasename:
		p = filepath.Base(p)
	case PathModeAuto:
		if filepath.IsAbs(p) && len(p) > autoPathLimit {
			p = filepath.Base(p)
		}
	}
	return filepath.ToSlash(p)
}
