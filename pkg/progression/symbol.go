package progression

import (
	"fmt"
	"strings"

	"github.com/james-see/chord2midi/pkg/timeline"
)

// DefaultOctave places chord roots around middle C (C4 = 60)
const DefaultOctave = 4

var semitones = map[string]int{
	"C":  0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E":  4,
	"F":  5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B": 11,
}

// ParseSymbol converts a chord symbol such as "C", "Am7", "Cmaj9" or "G7sus4" into
// a chord rooted in the given octave.
//
// A symbol is a root (C, F#, Bb, ...), an optional quality (m, min, dim, aug) and
// any number of extensions: 6, 7, 9, 11, 13, add9, add11, add13, maj/M with an
// optional 7, 9, 11 or 13, and one of sus, sus2 or sus4, which replaces the third.
// Each extension appends its own intervals; a plain 9 does not imply the seventh.
// Slash chords are rejected.
func ParseSymbol(symbol string, octave int) (timeline.Chord, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return timeline.Chord{}, fmt.Errorf("empty chord symbol")
	}
	if strings.Contains(symbol, "/") {
		return timeline.Chord{}, fmt.Errorf("slash chords are not supported: %s", symbol)
	}

	name, rest := splitRoot(symbol)
	semitone, ok := semitones[name]
	if !ok {
		return timeline.Chord{}, fmt.Errorf("invalid root note: %s", name)
	}

	root := (octave+1)*12 + semitone
	if root < 0 || root > timeline.MaxData {
		return timeline.Chord{}, fmt.Errorf("chord %s in octave %d: %w", symbol, octave,
			&timeline.DomainError{Field: "root", Value: root, Min: 0, Max: timeline.MaxData})
	}

	triad, rest := parseQuality(rest)
	intervals, err := buildIntervals(triad, rest)
	if err != nil {
		return timeline.Chord{}, fmt.Errorf("chord %s: %w", symbol, err)
	}
	return timeline.NewChord(uint8(root), intervals...), nil
}

func splitRoot(symbol string) (string, string) {
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		return symbol[:2], symbol[2:]
	}
	return symbol[:1], symbol[1:]
}

var (
	major      = []uint8{0, 4, 7}
	minor      = []uint8{0, 3, 7}
	diminished = []uint8{0, 3, 6}
	augmented  = []uint8{0, 4, 8}
)

type token struct {
	name      string
	intervals []uint8
}

var qualities = []token{
	{"min", minor},
	{"dim", diminished},
	{"aug", augmented},
	{"m", minor},
}

// longest tokens first so "add13" is not read as "13"
var extensions = []token{
	{"maj13", []uint8{11, 21}},
	{"maj11", []uint8{11, 17}},
	{"maj9", []uint8{11, 14}},
	{"maj7", []uint8{11}},
	{"maj", nil},
	{"M13", []uint8{11, 21}},
	{"M11", []uint8{11, 17}},
	{"M9", []uint8{11, 14}},
	{"M7", []uint8{11}},
	{"M", nil},
	{"add13", []uint8{21}},
	{"add11", []uint8{17}},
	{"add9", []uint8{14}},
	{"13", []uint8{21}},
	{"11", []uint8{17}},
	{"9", []uint8{14}},
	{"7", []uint8{10}},
	{"6", []uint8{9}},
}

var suspensions = []token{
	{"sus2", []uint8{2}},
	{"sus4", []uint8{5}},
	{"sus", []uint8{5}},
}

// parseQuality returns a copy of the triad named at the start of s and the rest of s.
func parseQuality(s string) ([]uint8, string) {
	// "maj" is an extension, not the minor "m"
	if !strings.HasPrefix(s, "maj") {
		for _, q := range qualities {
			if strings.HasPrefix(s, q.name) {
				return append([]uint8(nil), q.intervals...), strings.TrimPrefix(s, q.name)
			}
		}
	}
	return append([]uint8(nil), major...), s
}

func buildIntervals(triad []uint8, rest string) ([]uint8, error) {
	intervals := triad
	suspended := false

	for rest != "" {
		if tok, ok := matchToken(suspensions, rest); ok {
			if suspended {
				return nil, fmt.Errorf("more than one suspension in %q", rest)
			}
			suspended = true
			intervals[1] = tok.intervals[0]
			rest = strings.TrimPrefix(rest, tok.name)
			continue
		}

		tok, ok := matchToken(extensions, rest)
		if !ok {
			return nil, fmt.Errorf("unknown chord extension %q", rest)
		}
		intervals = append(intervals, tok.intervals...)
		rest = strings.TrimPrefix(rest, tok.name)
	}
	return intervals, nil
}

func matchToken(tokens []token, s string) (token, bool) {
	for _, tok := range tokens {
		if strings.HasPrefix(s, tok.name) {
			return tok, true
		}
	}
	return token{}, false
}
