// Package progression loads chord progressions and their timing from YAML or JSON documents
package progression

import (
	"fmt"

	"github.com/james-see/chord2midi/pkg/timeline"
)

// Defaults applied to missing document fields
const (
	DefaultResolution      = 480
	DefaultTicksPerMeasure = 1920 // one 4/4 bar at 480 ticks per quarter
	DefaultVelocity        = 64
)

// ChordSpec is one chord of a progression: either a symbol or an explicit root and intervals
type ChordSpec struct {
	Symbol    string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Root      *int   `yaml:"root,omitempty" json:"root,omitempty"`
	Intervals []int  `yaml:"intervals,omitempty" json:"intervals,omitempty"`
}

// Progression is a chord progression document
type Progression struct {
	Name            string      `yaml:"name,omitempty" json:"name,omitempty"`
	Resolution      int         `yaml:"resolution,omitempty" json:"resolution,omitempty"`
	StartTick       int         `yaml:"start_tick,omitempty" json:"start_tick,omitempty"`
	TicksPerMeasure int         `yaml:"ticks_per_measure,omitempty" json:"ticks_per_measure,omitempty"`
	Channel         int         `yaml:"channel,omitempty" json:"channel,omitempty"`
	Velocity        *int        `yaml:"velocity,omitempty" json:"velocity,omitempty"`
	Octave          *int        `yaml:"octave,omitempty" json:"octave,omitempty"`
	Strum           []int       `yaml:"strum,omitempty" json:"strum,omitempty"`
	NoteLength      *int        `yaml:"note_length,omitempty" json:"note_length,omitempty"`
	Chords          []ChordSpec `yaml:"chords" json:"chords"`
}

// Score is a validated progression ready for event generation
type Score struct {
	Name            string
	Resolution      uint16
	StartTick       uint32
	TicksPerMeasure uint32
	Channel         uint8
	Velocity        uint8
	Pattern         []uint32
	NoteLength      uint32
	Chords          []timeline.Chord
}

// Demo returns the C - G - F major progression
func Demo() *Progression {
	return &Progression{
		Name: "Demo",
		Chords: []ChordSpec{
			{Symbol: "C"},
			{Symbol: "G"},
			{Symbol: "F"},
		},
	}
}

// Score validates the progression and fills in defaults
func (p *Progression) Score() (*Score, error) {
	s := &Score{
		Name:            p.Name,
		Resolution:      DefaultResolution,
		TicksPerMeasure: DefaultTicksPerMeasure,
		Velocity:        DefaultVelocity,
		Pattern:         append([]uint32(nil), timeline.DefaultStrumPattern...),
		NoteLength:      timeline.DefaultNoteLength,
	}

	if p.Resolution != 0 {
		if err := check("resolution", p.Resolution, 1, 0x7FFF); err != nil {
			return nil, err
		}
		s.Resolution = uint16(p.Resolution)
	}
	if err := check("start_tick", p.StartTick, 0, timeline.MaxTick); err != nil {
		return nil, err
	}
	s.StartTick = uint32(p.StartTick)
	if p.TicksPerMeasure != 0 {
		if err := check("ticks_per_measure", p.TicksPerMeasure, 1, timeline.MaxTick); err != nil {
			return nil, err
		}
		s.TicksPerMeasure = uint32(p.TicksPerMeasure)
	}
	if err := check("channel", p.Channel, 0, timeline.MaxChannel); err != nil {
		return nil, err
	}
	s.Channel = uint8(p.Channel)
	if p.Velocity != nil {
		if err := check("velocity", *p.Velocity, 0, timeline.MaxData); err != nil {
			return nil, err
		}
		s.Velocity = uint8(*p.Velocity)
	}
	if p.Strum != nil {
		if len(p.Strum) == 0 {
			return nil, fmt.Errorf("strum pattern is empty")
		}
		s.Pattern = make([]uint32, len(p.Strum))
		for i, offset := range p.Strum {
			if err := check(fmt.Sprintf("strum[%d]", i), offset, 0, timeline.MaxTick); err != nil {
				return nil, err
			}
			s.Pattern[i] = uint32(offset)
		}
	}
	if p.NoteLength != nil {
		if err := check("note_length", *p.NoteLength, 0, timeline.MaxTick); err != nil {
			return nil, err
		}
		s.NoteLength = uint32(*p.NoteLength)
	}

	octave := DefaultOctave
	if p.Octave != nil {
		octave = *p.Octave
	}

	s.Chords = make([]timeline.Chord, 0, len(p.Chords))
	for i, spec := range p.Chords {
		chord, err := spec.Chord(octave)
		if err != nil {
			return nil, fmt.Errorf("chords[%d]: %w", i, err)
		}
		s.Chords = append(s.Chords, chord)
	}
	return s, nil
}

// Chord converts the spec into a chord. Symbols are rooted in octave.
func (c ChordSpec) Chord(octave int) (timeline.Chord, error) {
	if c.Symbol != "" {
		if c.Root != nil || len(c.Intervals) > 0 {
			return timeline.Chord{}, fmt.Errorf("chord %q: symbol and root/intervals are exclusive", c.Symbol)
		}
		return ParseSymbol(c.Symbol, octave)
	}
	if c.Root == nil {
		return timeline.Chord{}, fmt.Errorf("chord needs a symbol or a root")
	}
	if err := check("root", *c.Root, 0, timeline.MaxData); err != nil {
		return timeline.Chord{}, err
	}
	if len(c.Intervals) == 0 {
		return timeline.Chord{}, timeline.ErrNoIntervals
	}
	intervals := make([]uint8, len(c.Intervals))
	for i, iv := range c.Intervals {
		if err := check(fmt.Sprintf("intervals[%d]", i), iv, 0, timeline.MaxData); err != nil {
			return timeline.Chord{}, err
		}
		intervals[i] = uint8(iv)
	}
	return timeline.NewChord(uint8(*c.Root), intervals...), nil
}

// Builder returns a timeline builder using the score's strum pattern and note length
func (s *Score) Builder(opts ...timeline.Option) *timeline.Builder {
	base := []timeline.Option{
		timeline.WithPattern(s.Pattern...),
		timeline.WithNoteLength(s.NoteLength),
	}
	return timeline.NewBuilder(append(base, opts...)...)
}

// Generate strums the score's chords
func (s *Score) Generate(opts ...timeline.Option) ([]timeline.Event, error) {
	return s.Builder(opts...).Generate(s.Chords, s.StartTick, s.TicksPerMeasure, s.Channel, s.Velocity)
}

func check(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return &timeline.DomainError{Field: field, Value: value, Min: lo, Max: hi}
	}
	return nil
}
