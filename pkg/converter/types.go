// Package converter renders chord progressions to Standard MIDI Files and reads them back
package converter

import (
	"github.com/james-see/chord2midi/pkg/timeline"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

// Converter handles format conversions
type Converter struct {
	opts []timeline.Option
}

// New creates a new Converter. The options are passed to every timeline builder
// it creates, after the progression's own strum settings.
func New(opts ...timeline.Option) *Converter {
	return &Converter{opts: opts}
}

// SetOptions replaces the builder options
func (c *Converter) SetOptions(opts ...timeline.Option) {
	c.opts = opts
}
