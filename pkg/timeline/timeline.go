package timeline

import (
	"io"
	"log"
)

// Builder generates strummed note events for chord progressions.
// A Builder is not modified by Generate and may be shared between goroutines.
type Builder struct {
	pattern         []uint32
	noteLength      uint32
	noteOffVelocity uint8
	trace           *log.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithPattern sets the strum offsets, in ticks from the start of each chord
func WithPattern(offsets ...uint32) Option {
	return func(b *Builder) {
		b.pattern = append([]uint32(nil), offsets...)
	}
}

// WithNoteLength sets the duration of every strummed note
func WithNoteLength(ticks uint32) Option {
	return func(b *Builder) {
		b.noteLength = ticks
	}
}

// WithNoteOffVelocity sets the release velocity of Note Off events
func WithNoteOffVelocity(velocity uint8) Option {
	return func(b *Builder) {
		b.noteOffVelocity = velocity
	}
}

// WithTrace writes diagnostic output for every chord and offset to w
func WithTrace(w io.Writer) Option {
	return func(b *Builder) {
		if w == nil {
			b.trace = nil
			return
		}
		b.trace = log.New(w, "DEBUG: ", 0)
	}
}

// WithLogger is like WithTrace but uses an existing logger
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		b.trace = l
	}
}

// NewBuilder creates a Builder using the default strum pattern and note length
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		pattern:         append([]uint32(nil), DefaultStrumPattern...),
		noteLength:      DefaultNoteLength,
		noteOffVelocity: DefaultNoteOffVelocity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pattern returns a copy of the strum offsets
func (b *Builder) Pattern() []uint32 {
	return append([]uint32(nil), b.pattern...)
}

// NoteLength returns the strummed note duration in ticks
func (b *Builder) NoteLength() uint32 {
	return b.noteLength
}

var defaultBuilder = NewBuilder()

// Generate strums chords with the default Builder
func Generate(chords []Chord, startTick, ticksPerMeasure uint32, channel, baseVelocity uint8) ([]Event, error) {
	return defaultBuilder.Generate(chords, startTick, ticksPerMeasure, channel, baseVelocity)
}

// MustGenerate is like Generate but panics on error
func MustGenerate(chords []Chord, startTick, ticksPerMeasure uint32, channel, baseVelocity uint8) []Event {
	events, err := Generate(chords, startTick, ticksPerMeasure, channel, baseVelocity)
	if err != nil {
		panic(err)
	}
	return events
}

// Generate produces a Note On / Note Off pair for every strum offset of every chord.
//
// Chord i starts at startTick + i*ticksPerMeasure. The returned events are ordered
// and delta-encoded. If a computed absolute time falls before the previously
// emitted event, which happens when ticksPerMeasure is shorter than the strum
// pattern, Generate returns an *OrderingError and no events.
func (b *Builder) Generate(chords []Chord, startTick, ticksPerMeasure uint32, channel, baseVelocity uint8) ([]Event, error) {
	if err := b.validate(startTick, ticksPerMeasure, channel, baseVelocity); err != nil {
		return nil, err
	}

	b.tracef("Generate() called.")
	b.tracef(" start_tick=%d, ticks_per_measure=%d, base_vel=%d", startTick, ticksPerMeasure, baseVelocity)
	b.tracef(" channel=%d", channel)
	b.tracef(" len(chords)=%d", len(chords))

	events := make([]Event, 0, len(chords)*len(b.pattern)*2)
	absTime := startTick
	lastAbsTime := startTick

	for i, chord := range chords {
		b.tracef("chord index %d, root=%d, intervals=%v, abs_time=%d, last_abs_time=%d",
			i, chord.root, chord.intervals, absTime, lastAbsTime)

		note, err := chord.Note()
		if err != nil {
			return nil, &ChordError{Index: i, Err: err}
		}

		for _, offset := range b.pattern {
			noteOnAbs, err := addTicks(absTime, offset)
			if err != nil {
				return nil, &ChordError{Index: i, Err: err}
			}
			noteOffAbs, err := addTicks(noteOnAbs, b.noteLength)
			if err != nil {
				return nil, &ChordError{Index: i, Err: err}
			}

			b.tracef("  offset=%d, note_on_abs=%d, note_off_abs=%d, last_abs_time=%d",
				offset, noteOnAbs, noteOffAbs, lastAbsTime)

			delta, err := b.checkedSub(noteOnAbs, lastAbsTime, "note_on delta", i, offset)
			if err != nil {
				return nil, err
			}
			on, err := NoteOn(delta, channel, note, baseVelocity)
			if err != nil {
				return nil, &ChordError{Index: i, Err: err}
			}
			events = append(events, on)
			lastAbsTime = noteOnAbs

			delta, err = b.checkedSub(noteOffAbs, lastAbsTime, "note_off delta", i, offset)
			if err != nil {
				return nil, err
			}
			off, err := NoteOff(delta, channel, note, b.noteOffVelocity)
			if err != nil {
				return nil, &ChordError{Index: i, Err: err}
			}
			events = append(events, off)
			lastAbsTime = noteOffAbs
		}

		// The next chord starts one measure later, however far the strum went.
		absTime = saturatingAdd(absTime, ticksPerMeasure)
	}

	return events, nil
}

func (b *Builder) validate(startTick, ticksPerMeasure uint32, channel, baseVelocity uint8) error {
	if err := checkRange("start_tick", int(startTick), 0, MaxTick); err != nil {
		return err
	}
	if err := checkRange("ticks_per_measure", int(ticksPerMeasure), 1, MaxTick); err != nil {
		return err
	}
	if err := checkRange("channel", int(channel), 0, MaxChannel); err != nil {
		return err
	}
	if err := checkRange("velocity", int(baseVelocity), 0, MaxData); err != nil {
		return err
	}
	if err := checkRange("note_off_velocity", int(b.noteOffVelocity), 0, MaxData); err != nil {
		return err
	}
	for _, offset := range b.pattern {
		if err := checkRange("strum offset", int(offset), 0, MaxTick); err != nil {
			return err
		}
	}
	return checkRange("note_length", int(b.noteLength), 0, MaxTick)
}

// checkedSub returns a - b, or an *OrderingError when b > a.
func (b *Builder) checkedSub(a, last uint32, label string, chord int, offset uint32) (uint32, error) {
	if last > a {
		b.tracef("Underflow about to happen in chord %s!", label)
		b.tracef("  a=%d, b=%d", a, last)
		return 0, &OrderingError{Label: label, Last: last, Target: a, Chord: chord, Offset: offset}
	}
	return a - last, nil
}

func (b *Builder) tracef(format string, args ...any) {
	if b.trace != nil {
		b.trace.Printf(format, args...)
	}
}

func addTicks(a, b uint32) (uint32, error) {
	sum := uint64(a) + uint64(b)
	if sum > MaxTick {
		return 0, &DomainError{Field: "tick", Value: int(sum), Min: 0, Max: MaxTick}
	}
	return uint32(sum), nil
}

// saturatingAdd keeps the measure cursor inside the tick domain; an overflowing
// cursor is only reported if a later chord uses it.
func saturatingAdd(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > MaxTick+1 {
		return MaxTick + 1
	}
	return uint32(sum)
}
