package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ManifestName          = "chad.toml"
	DefaultEntry          = "main"
	DefaultMaxDiagnostics = 100
	DefaultEmit           = "text"
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing in chad.toml.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrNoUnits indicates that [package].units names no unit files.
	ErrNoUnits = errors.New("missing [package].units")
)

type PackageConfig struct {
	Name  string   `toml:"name"`
	Entry string   `toml:"entry"`
	Root  string   `toml:"root"` // unit holding the entry, "" means the first unit
	Units []string `toml:"units"`
}

type BuildConfig struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Emit           string `toml:"emit"`
	Output         string `toml:"output"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// Manifest is a parsed chad.toml with defaults applied.
type Manifest struct {
	Path    string        `toml:"-"`
	Dir     string        `toml:"-"`
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Trace   TraceConfig   `toml:"trace"`
}

// LoadManifest parses chad.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m.Path = path
	m.Dir = filepath.Dir(path)
	if err := m.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) normalize() error {
	m.Package.Name = strings.TrimSpace(m.Package.Name)
	m.Package.Entry = strings.TrimSpace(m.Package.Entry)
	m.Package.Root = strings.TrimSpace(m.Package.Root)
	if m.Package.Entry == "" {
		m.Package.Entry = DefaultEntry
	}
	if len(m.Package.Units) == 0 {
		return ErrNoUnits
	}
	if m.Build.MaxDiagnostics <= 0 {
		m.Build.MaxDiagnostics = DefaultMaxDiagnostics
	}
	switch m.Build.Emit {
	case "":
		m.Build.Emit = DefaultEmit
	case "text", "msgpack":
	default:
		return fmt.Errorf("invalid [build].emit %q: want text or msgpack", m.Build.Emit)
	}
	if m.Trace.Level == "" {
		m.Trace.Level = "off"
	}
	return nil
}

// OutputPath returns [build].output resolved against the manifest directory.
func (m *Manifest) OutputPath() string {
	if m.Build.Output == "" || filepath.IsAbs(m.Build.Output) {
		return m.Build.Output
	}
	return filepath.Join(m.Dir, filepath.FromSlash(m.Build.Output))
}

// FindManifest looks for a chad.toml file in startDir and then in each
// parent directory. A directory named chad.toml does not count.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", startDir, err)
	}
	for {
		path = filepath.Join(dir, ManifestName)
		info, err := os.Stat(path)
		switch {
		case err == nil && info.Mode().IsRegular():
			return path, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat %s: %w", path, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
