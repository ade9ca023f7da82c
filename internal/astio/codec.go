package astio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"chad/internal/ast"
)

// Format is the on-disk encoding of a unit.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatMsgpack
	FormatYAML
)

const (
	ExtMsgpack = ".chadast"
	ExtYAML    = ".chad.yaml"
)

var ErrUnknownFormat = errors.New("astio: unknown unit file format")

func (f Format) String() string {
	switch f {
	case FormatMsgpack:
		return "msgpack"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// FormatOf picks the encoding from a file name.
func FormatOf(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(base, ExtMsgpack):
		return FormatMsgpack
	case strings.HasSuffix(base, ExtYAML), strings.HasSuffix(base, ".chad.yml"):
		return FormatYAML
	}
	return FormatUnknown
}

// Decode reads one unit.
func Decode(r io.Reader, format Format) (*ast.ProgramUnit, error) {
	unit := &ast.ProgramUnit{}
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		if err := dec.Decode(unit); err != nil {
			return nil, fmt.Errorf("decode msgpack unit: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(unit); err != nil {
			return nil, fmt.Errorf("decode yaml unit: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	if unit.Name == "" {
		return nil, errors.New("unit has no name")
	}
	return unit, nil
}

// Encode writes one unit.
func Encode(w io.Writer, unit *ast.ProgramUnit, format Format) error {
	switch format {
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(unit)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(unit); err != nil {
			return err
		}
		return enc.Close()
	}
	return ErrUnknownFormat
}

// DecodeFile reads a unit file, picking the decoder from its extension.
func DecodeFile(path string) (*ast.ProgramUnit, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), format)
}
