package timeline

// NoteOn creates a Note On event
func NoteOn(delta uint32, channel, note, velocity uint8) (Event, error) {
	return newEvent(KindNoteOn, delta, channel, note, velocity)
}

// NoteOff creates a Note Off event
func NoteOff(delta uint32, channel, note, velocity uint8) (Event, error) {
	return newEvent(KindNoteOff, delta, channel, note, velocity)
}

func newEvent(kind Kind, delta uint32, channel, note, velocity uint8) (Event, error) {
	if err := checkRange("delta", int(delta), 0, MaxTick); err != nil {
		return Event{}, err
	}
	if err := checkRange("channel", int(channel), 0, MaxChannel); err != nil {
		return Event{}, err
	}
	if err := checkRange("note", int(note), 0, MaxData); err != nil {
		return Event{}, err
	}
	if err := checkRange("velocity", int(velocity), 0, MaxData); err != nil {
		return Event{}, err
	}
	return Event{
		Delta:    delta,
		Channel:  channel,
		Kind:     kind,
		Note:     note,
		Velocity: velocity,
	}, nil
}
