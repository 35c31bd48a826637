// Package timeline turns chord progressions into ordered, delta-encoded MIDI note events
package timeline

import "fmt"

// MIDI numeric domains
const (
	MaxChannel = 0x0F       // 4-bit channel
	MaxData    = 0x7F       // 7-bit note and velocity
	MaxTick    = 0x0FFFFFFF // 28-bit delta time
)

// DefaultStrumPattern is the tick offsets at which each chord is struck within a measure
var DefaultStrumPattern = []uint32{0, 120, 240, 360}

const (
	DefaultNoteLength      uint32 = 40
	DefaultNoteOffVelocity uint8  = 64
)

// Kind is the type of a note event
type Kind uint8

const (
	KindNoteOn Kind = iota
	KindNoteOff
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "NoteOn"
	case KindNoteOff:
		return "NoteOff"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is a single timed note event
type Event struct {
	Delta    uint32 // Ticks since the previous event
	Channel  uint8  // MIDI channel (0-15)
	Kind     Kind
	Note     uint8 // MIDI note number (0-127)
	Velocity uint8 // Velocity (0-127)
}

func (e Event) String() string {
	return fmt.Sprintf("%s(delta=%d, ch=%d, note=%d, vel=%d)", e.Kind, e.Delta, e.Channel, e.Note, e.Velocity)
}

// Chord is a root pitch plus semitone offsets. Only the first interval is strummed.
type Chord struct {
	root      uint8
	intervals []uint8
}

// NewChord creates a chord. The intervals are copied.
func NewChord(root uint8, intervals ...uint8) Chord {
	return Chord{
		root:      root,
		intervals: append([]uint8(nil), intervals...),
	}
}

// Root returns the chord root
func (c Chord) Root() uint8 {
	return c.root
}

// Intervals returns a copy of the chord intervals
func (c Chord) Intervals() []uint8 {
	return append([]uint8(nil), c.intervals...)
}

// Note returns the pitch played for each strum: root plus the first interval.
func (c Chord) Note() (uint8, error) {
	if len(c.intervals) == 0 {
		return 0, ErrNoIntervals
	}
	n := int(c.root) + int(c.intervals[0])
	if n > MaxData {
		return 0, &DomainError{Field: "note", Value: n, Max: MaxData}
	}
	return uint8(n), nil
}

func (c Chord) String() string {
	return fmt.Sprintf("Chord(root=%d, intervals=%v)", c.root, c.intervals)
}
