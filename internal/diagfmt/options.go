package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones to the basename.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int8 // lines of source shown around the primary line
	PathMode PathMode
	BaseDir  string // for PathModeRelative
	// Width truncates source lines to this many columns, 0 means unlimited.
	Width     uint8
	ShowNotes bool
	// ShowContext prints the candidate listings attached by resolution.
	ShowContext bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	BaseDir          string
	Max              int // truncates output, the bag is left untouched
	IncludeNotes     bool
	IncludeContext   bool
}
