package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"chad/internal/astio"
	"chad/internal/project"
)

// ErrNoInputs is returned when neither unit files nor a manifest are found.
var ErrNoInputs = errors.New("no unit files given and no " + project.ManifestName + " found")

// Inputs are the unit files of a run and the manifest they came from, if any.
type Inputs struct {
	Manifest *project.Manifest
	Files    []string
}

// ResolveInputs interprets command arguments: nothing (look for chad.toml
// from the working directory up), a manifest or a directory holding one,
// or unit files and globs.
func ResolveInputs(args []string) (Inputs, error) {
	if len(args) == 0 {
		path, ok, err := project.FindManifest(".")
		if err != nil {
			return Inputs{}, err
		}
		if !ok {
			return Inputs{}, ErrNoInputs
		}
		return fromManifest(path)
	}
	if len(args) == 1 {
		arg := args[0]
		if filepath.Base(arg) == project.ManifestName {
			return fromManifest(arg)
		}
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			candidate := filepath.Join(arg, project.ManifestName)
			if _, err := os.Stat(candidate); err == nil {
				return fromManifest(candidate)
			}
		}
	}
	files, err := astio.Expand("", args)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{Files: files}, nil
}

func fromManifest(path string) (Inputs, error) {
	m, err := project.LoadManifest(path)
	if err != nil {
		return Inputs{}, err
	}
	files, err := astio.Expand(m.Dir, m.Package.Units)
	if err != nil {
		return Inputs{}, fmt.Errorf("%s: %w", path, err)
	}
	return Inputs{Manifest: m, Files: files}, nil
}
