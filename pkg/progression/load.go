package progression

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a progression document format
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

// FormatOf detects the document format from a file name
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yml", ".yaml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// Load reads a progression document from fsys
func Load(fsys fs.FS, name string) (*Progression, error) {
	format := FormatOf(name)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown progression format: %s", name)
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Parse decodes a progression document
func Parse(data []byte, format Format) (*Progression, error) {
	return Decode(bytes.NewReader(data), format)
}

// Decode reads a progression document from r. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Progression, error) {
	var p Progression
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("could not decode: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("could not decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported progression format: %s", format)
	}
	return &p, nil
}

// Encode writes a progression document to w
func Encode(w io.Writer, p *Progression, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("could not encode: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("could not encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported progression format: %s", format)
	}
}
