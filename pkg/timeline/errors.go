package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrOrdering is matched by every *OrderingError
	ErrOrdering = errors.New("timeline ordering violation")
	// ErrDomain is matched by every *DomainError
	ErrDomain = errors.New("value out of range")
	// ErrNoIntervals is returned for a chord without any interval to strum
	ErrNoIntervals = errors.New("chord has no intervals")
)

// OrderingError reports an event whose absolute tick lies before the last emitted event.
type OrderingError struct {
	Label  string // e.g. "note_on delta"
	Last   uint32 // last emitted absolute tick
	Target uint32 // absolute tick of the event being emitted
	Chord  int    // index of the chord being strummed
	Offset uint32 // strum offset being processed
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("underflow in chord %s: last_abs_time=%d > abs_time=%d (chord %d, offset %d)",
		e.Label, e.Last, e.Target, e.Chord, e.Offset)
}

// Is reports whether target is ErrOrdering
func (e *OrderingError) Is(target error) bool {
	return target == ErrOrdering
}

// DomainError reports a value outside its MIDI bit-width domain
type DomainError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid %s: %d (want %d..%d)", e.Field, e.Value, e.Min, e.Max)
}

// Is reports whether target is ErrDomain
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

func checkRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return &DomainError{Field: field, Value: value, Min: lo, Max: hi}
	}
	return nil
}

// ChordError wraps an error caused by a specific chord of the progression
type ChordError struct {
	Index int
	Err   error
}

func (e *ChordError) Error() string {
	return fmt.Sprintf("chord %d: %v", e.Index, e.Err)
}

func (e *ChordError) Unwrap() error {
	return e.Err
}
