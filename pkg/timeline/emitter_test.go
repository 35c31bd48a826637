package timeline

import (
	"errors"
	"testing"
)

func TestNoteOn(t *testing.T) {
	ev, err := NoteOn(120, 2, 60, 100)
	if err != nil {
		t.Fatalf("NoteOn() error = %v", err)
	}
	want := Event{Delta: 120, Channel: 2, Kind: KindNoteOn, Note: 60, Velocity: 100}
	if ev != want {
		t.Errorf("NoteOn() = %v, want %v", ev, want)
	}
}

func TestNoteOff(t *testing.T) {
	ev, err := NoteOff(40, 15, 127, 64)
	if err != nil {
		t.Fatalf("NoteOff() error = %v", err)
	}
	want := Event{Delta: 40, Channel: 15, Kind: KindNoteOff, Note: 127, Velocity: 64}
	if ev != want {
		t.Errorf("NoteOff() = %v, want %v", ev, want)
	}
}

func TestEmitterDomain(t *testing.T) {
	tests := []struct {
		name     string
		delta    uint32
		channel  uint8
		note     uint8
		velocity uint8
		field    string
	}{
		{"delta", MaxTick + 1, 0, 60, 64, "delta"},
		{"channel", 0, 16, 60, 64, "channel"},
		{"note", 0, 0, 128, 64, "note"},
		{"velocity", 0, 0, 60, 200, "velocity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, emit := range []func(uint32, uint8, uint8, uint8) (Event, error){NoteOn, NoteOff} {
				_, err := emit(tt.delta, tt.channel, tt.note, tt.velocity)
				var de *DomainError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DomainError", err)
				}
				if de.Field != tt.field {
					t.Errorf("DomainError.Field = %q, want %q", de.Field, tt.field)
				}
				if !errors.Is(err, ErrDomain) {
					t.Error("error should match ErrDomain")
				}
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNoteOn, "NoteOn"},
		{KindNoteOff, "NoteOff"},
		{Kind(7), "Kind(7)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(tt.kind), got, tt.want)
		}
	}
}
