package timeline

// AbsoluteTimes returns the absolute tick of every event, given the tick the
// first delta is relative to.
func AbsoluteTimes(start uint32, events []Event) []uint32 {
	ticks := make([]uint32, len(events))
	abs := start
	for i, ev := range events {
		abs += ev.Delta
		ticks[i] = abs
	}
	return ticks
}

// Duration returns the number of ticks covered by events
func Duration(events []Event) uint32 {
	var total uint32
	for _, ev := range events {
		total += ev.Delta
	}
	return total
}
