package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/chord2midi/pkg/timeline"
)

// DefaultResolution is the number of ticks per quarter note
const DefaultResolution = 480

// MIDIConverter handles MIDI file parsing and generation
type MIDIConverter struct {
	ticksPerQuarter uint16
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: DefaultResolution,
	}
}

// WithResolution sets the ticks per quarter note written to the file header
func (m *MIDIConverter) WithResolution(ticksPerQuarter uint16) *MIDIConverter {
	if ticksPerQuarter > 0 {
		m.ticksPerQuarter = ticksPerQuarter
	}
	return m
}

// Resolution returns the ticks per quarter note written by GenerateMIDI
func (m *MIDIConverter) Resolution() uint16 {
	return m.ticksPerQuarter
}

// Track builds an SMF track from ordered events and closes it with an end of track marker
func (m *MIDIConverter) Track(events []timeline.Event) smf.Track {
	var track smf.Track
	for _, ev := range events {
		switch ev.Kind {
		case timeline.KindNoteOn:
			track.Add(ev.Delta, midi.NoteOn(ev.Channel, ev.Note, ev.Velocity))
		case timeline.KindNoteOff:
			track.Add(ev.Delta, midi.NoteOffVelocity(ev.Channel, ev.Note, ev.Velocity))
		}
	}
	track.Close(0)
	return track
}

// GenerateMIDI creates a format 1 MIDI file with a single track holding events
func (m *MIDIConverter) GenerateMIDI(events []timeline.Event) ([]byte, error) {
	if events == nil {
		return nil, errors.New("nil events")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	if err := s.Add(m.Track(events)); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile writes events to a MIDI file
func (m *MIDIConverter) WriteMIDIFile(events []timeline.Event, filename string) error {
	data, err := m.GenerateMIDI(events)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ParseMIDIFile reads a MIDI file and extracts its note events
func (m *MIDIConverter) ParseMIDIFile(filename string) ([]timeline.Event, error) {
	events, _, err := m.DecodeFile(filename)
	return events, err
}

// ParseMIDI extracts the note events of a MIDI file, see Decode
func (m *MIDIConverter) ParseMIDI(data []byte) ([]timeline.Event, error) {
	events, _, err := m.Decode(data)
	return events, err
}

// DecodeFile reads a MIDI file and returns its note events and resolution
func (m *MIDIConverter) DecodeFile(filename string) ([]timeline.Event, uint16, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.Decode(data)
}

// Decode extracts the note events of every track, in file order, together with the
// file's ticks per quarter note (0 for SMPTE time). Deltas are relative to the
// previous note event of the same track; the first note event of each track is
// relative to the start of that track. The converter's own resolution is not changed.
func (m *MIDIConverter) Decode(data []byte) ([]timeline.Event, uint16, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	var resolution uint16
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		resolution = mt.Resolution()
	}

	events := []timeline.Event{}
	for _, track := range s.Tracks {
		var pending uint32
		for _, ev := range track {
			pending += ev.Delta

			var channel, key, velocity uint8
			var kind timeline.Kind
			switch {
			case ev.Message.GetNoteOn(&channel, &key, &velocity):
				kind = timeline.KindNoteOn
			case ev.Message.GetNoteOff(&channel, &key, &velocity):
				kind = timeline.KindNoteOff
			default:
				continue
			}

			events = append(events, timeline.Event{
				Delta:    pending,
				Channel:  channel,
				Kind:     kind,
				Note:     key,
				Velocity: velocity,
			})
			pending = 0
		}
	}
	return events, resolution, nil
}
