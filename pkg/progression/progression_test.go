package progression

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/james-see/chord2midi/pkg/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		symbol    string
		octave    int
		root      uint8
		intervals []uint8
	}{
		{"C", 4, 60, []uint8{0, 4, 7}},
		{"G", 4, 67, []uint8{0, 4, 7}},
		{"F", 4, 65, []uint8{0, 4, 7}},
		{"Am", 4, 69, []uint8{0, 3, 7}},
		{"Am7", 4, 69, []uint8{0, 3, 7, 10}},
		{"Cmaj7", 3, 48, []uint8{0, 4, 7, 11}},
		{"Cmaj", 4, 60, []uint8{0, 4, 7}},
		{"Dmin7", 4, 62, []uint8{0, 3, 7, 10}},
		{"F#dim", 4, 66, []uint8{0, 3, 6}},
		{"Bbaug", 2, 46, []uint8{0, 4, 8}},
		{"Dsus2", 4, 62, []uint8{0, 2, 7}},
		{"Esus4", 4, 64, []uint8{0, 5, 7}},
		{"G9", 4, 67, []uint8{0, 4, 7, 14}},
		{"Cadd9", 4, 60, []uint8{0, 4, 7, 14}},
		{"Eb7add13", 4, 63, []uint8{0, 4, 7, 10, 21}},
		{"Cmaj9", 4, 60, []uint8{0, 4, 7, 11, 14}},
		{"CM7", 4, 60, []uint8{0, 4, 7, 11}},
		{"CM", 4, 60, []uint8{0, 4, 7}},
		{"CmM7", 4, 60, []uint8{0, 3, 7, 11}},
		{"Cmmaj7", 4, 60, []uint8{0, 3, 7, 11}},
		{"Csus", 4, 60, []uint8{0, 5, 7}},
		{"C7sus4", 4, 60, []uint8{0, 5, 7, 10}},
		{"G9sus2", 4, 67, []uint8{0, 2, 7, 14}},
		{"A6", 4, 69, []uint8{0, 4, 7, 9}},
		{"Bbm", 4, 70, []uint8{0, 3, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			chord, err := ParseSymbol(tt.symbol, tt.octave)
			require.NoError(t, err)
			assert.Equal(t, tt.root, chord.Root())
			assert.Equal(t, tt.intervals, chord.Intervals())
		})
	}
}

func TestParseSymbolErrors(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		octave int
	}{
		{"empty", "", 4},
		{"bad root", "H", 4},
		{"lowercase root", "c", 4},
		{"slash chord", "C/G", 4},
		{"unknown extension", "Cfoo", 4},
		{"two suspensions", "Csus2sus4", 4},
		{"quality after extension", "C7m", 4},
		{"octave too high", "C", 10},
		{"octave too low", "C", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSymbol(tt.symbol, tt.octave)
			assert.Error(t, err)
		})
	}
}

func TestDemoScore(t *testing.T) {
	s, err := Demo().Score()
	require.NoError(t, err)

	assert.Equal(t, uint16(480), s.Resolution)
	assert.Equal(t, uint32(0), s.StartTick)
	assert.Equal(t, uint32(1920), s.TicksPerMeasure)
	assert.Equal(t, uint8(0), s.Channel)
	assert.Equal(t, uint8(64), s.Velocity)
	assert.Equal(t, timeline.DefaultStrumPattern, s.Pattern)
	require.Len(t, s.Chords, 3)

	var roots []uint8
	for _, c := range s.Chords {
		roots = append(roots, c.Root())
	}
	assert.Equal(t, []uint8{60, 67, 65}, roots)

	events, err := s.Generate()
	require.NoError(t, err)
	assert.Len(t, events, 24)
}

const sampleYAML = `
name: Blues turnaround
resolution: 960
start_tick: 960
ticks_per_measure: 3840
channel: 2
velocity: 90
octave: 3
strum: [0, 240, 480]
note_length: 120
chords:
  - symbol: G7
  - root: 50
    intervals: [0, 3, 7]
`

func TestLoadYAML(t *testing.T) {
	fsys := fstest.MapFS{"song.yml": {Data: []byte(sampleYAML)}}
	p, err := Load(fsys, "song.yml")
	require.NoError(t, err)
	assert.Equal(t, "Blues turnaround", p.Name)

	s, err := p.Score()
	require.NoError(t, err)
	assert.Equal(t, uint16(960), s.Resolution)
	assert.Equal(t, uint32(960), s.StartTick)
	assert.Equal(t, uint32(3840), s.TicksPerMeasure)
	assert.Equal(t, uint8(2), s.Channel)
	assert.Equal(t, uint8(90), s.Velocity)
	assert.Equal(t, []uint32{0, 240, 480}, s.Pattern)
	assert.Equal(t, uint32(120), s.NoteLength)
	require.Len(t, s.Chords, 2)
	assert.Equal(t, uint8(55), s.Chords[0].Root())
	assert.Equal(t, uint8(50), s.Chords[1].Root())

	events, err := s.Generate()
	require.NoError(t, err)
	require.Len(t, events, 12)
	assert.Equal(t, uint32(0), events[0].Delta)
	assert.Equal(t, uint32(120), events[1].Delta)
	assert.Equal(t, uint32(120), events[2].Delta)
}

func TestLoadJSON(t *testing.T) {
	data := `{"ticks_per_measure": 1920, "velocity": 0, "chords": [{"symbol": "Am"}, {"root": 64, "intervals": [0]}]}`
	fsys := fstest.MapFS{"song.json": {Data: []byte(data)}}
	p, err := Load(fsys, "song.json")
	require.NoError(t, err)

	s, err := p.Score()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), s.Velocity)
	require.Len(t, s.Chords, 2)
	assert.Equal(t, uint8(69), s.Chords[0].Root())
}

func TestLoadErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"unknown.yml": {Data: []byte("chords: []\ntempo: 120\n")},
		"broken.json": {Data: []byte("{")},
		"song.txt":    {Data: []byte("")},
	}

	for _, name := range []string{"unknown.yml", "broken.json", "song.txt", "missing.yml"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(fsys, name)
			assert.Error(t, err)
		})
	}
}

func TestScoreErrors(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name string
		p    Progression
		want error
	}{
		{"channel", Progression{Channel: 16}, timeline.ErrDomain},
		{"velocity", Progression{Velocity: intp(128)}, timeline.ErrDomain},
		{"negative start", Progression{StartTick: -1}, timeline.ErrDomain},
		{"resolution", Progression{Resolution: 0x8000}, timeline.ErrDomain},
		{"strum offset", Progression{Strum: []int{0, -5}}, timeline.ErrDomain},
		{"root", Progression{Chords: []ChordSpec{{Root: intp(200), Intervals: []int{0}}}}, timeline.ErrDomain},
		{"interval", Progression{Chords: []ChordSpec{{Root: intp(60), Intervals: []int{300}}}}, timeline.ErrDomain},
		{"no intervals", Progression{Chords: []ChordSpec{{Root: intp(60)}}}, timeline.ErrNoIntervals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.Score()
			assert.True(t, errors.Is(err, tt.want), "Score() error = %v, want %v", err, tt.want)
		})
	}

	_, err := (&Progression{Strum: []int{}}).Score()
	assert.Error(t, err)
	_, err = (&Progression{Chords: []ChordSpec{{}}}).Score()
	assert.Error(t, err)
	_, err = (&Progression{Chords: []ChordSpec{{Symbol: "C", Root: intp(60)}}}).Score()
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, Demo(), format))

			p, err := Parse(buf.Bytes(), format)
			require.NoError(t, err)
			assert.Equal(t, Demo(), p)
		})
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.yml"))
	assert.Equal(t, FormatYAML, FormatOf("a.YAML"))
	assert.Equal(t, FormatJSON, FormatOf("a.json"))
	assert.Equal(t, FormatUnknown, FormatOf("a.mid"))
}
