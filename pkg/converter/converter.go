package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/chord2midi/pkg/progression"
	"github.com/james-see/chord2midi/pkg/timeline"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".yml", ".yaml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' {
		return FormatJSON
	}

	// Anything else textual is treated as YAML
	return FormatYAML
}

func progressionFormat(f Format) progression.Format {
	switch f {
	case FormatYAML:
		return progression.FormatYAML
	case FormatJSON:
		return progression.FormatJSON
	default:
		return progression.FormatUnknown
	}
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	inputFormat := DetectFormat(inputPath)
	outputFormat := DetectFormat(outputPath)

	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}
	if inputFormat == FormatMIDI || inputFormat == FormatUnknown {
		return fmt.Errorf("unsupported conversion: %s to %s", inputFormat, outputFormat)
	}

	p, err := progression.Parse(data, progressionFormat(inputFormat))
	if err != nil {
		return fmt.Errorf("failed to parse progression: %w", err)
	}

	var out bytes.Buffer
	switch outputFormat {
	case FormatMIDI:
		midiData, err := c.Render(p)
		if err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
		out.Write(midiData)
	default:
		if _, err := p.Score(); err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
		if err := progression.Encode(&out, p, progressionFormat(outputFormat)); err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// Events generates the note events of a progression
func (c *Converter) Events(p *progression.Progression) ([]timeline.Event, *progression.Score, error) {
	if p == nil {
		return nil, nil, errors.New("nil progression")
	}
	score, err := p.Score()
	if err != nil {
		return nil, nil, err
	}
	events, err := score.Generate(c.opts...)
	if err != nil {
		return nil, nil, err
	}
	return events, score, nil
}

// Render generates a progression and serializes it as a Standard MIDI File
func (c *Converter) Render(p *progression.Progression) ([]byte, error) {
	events, score, err := c.Events(p)
	if err != nil {
		return nil, err
	}
	return NewMIDIConverter().WithResolution(score.Resolution).GenerateMIDI(events)
}

// RenderFile renders a progression and writes it to filename. Nothing is written
// if generation fails.
func (c *Converter) RenderFile(p *progression.Progression, filename string) ([]timeline.Event, error) {
	events, score, err := c.Events(p)
	if err != nil {
		return nil, err
	}
	if err := NewMIDIConverter().WithResolution(score.Resolution).WriteMIDIFile(events, filename); err != nil {
		return nil, err
	}
	return events, nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"yaml -> midi",
		"json -> midi",
		"yaml -> json",
		"json -> yaml",
	}
}
