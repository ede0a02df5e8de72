package note

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type semitones int

func (s semitones) Semitones() int { return int(s) }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Note
		wantErr bool
	}{
		{"middle C", "C4", New(C, 4), false},
		{"sharp", "F#3", New(FSharp, 3), false},
		{"flat", "Bb2", New(ASharp, 2), false},
		{"lowercase letter", "e5", New(E, 5), false},
		{"negative octave", "C-1", New(C, -1), false},
		{"flat crossing octave", "Cb4", New(B, 3), false},
		{"sharp crossing octave", "B#3", New(C, 4), false},
		{"surrounding space", "  G4 ", New(G, 4), false},
		{"too short", "C", Note{}, true},
		{"bad letter", "H4", Note{}, true},
		{"missing octave", "C#", Note{}, true},
		{"bad octave", "Cx", Note{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNote)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMIDI(t *testing.T) {
	assert.Equal(t, 60, New(C, 4).MIDI())
	assert.Equal(t, 69, New(A, 4).MIDI())
	assert.Equal(t, 0, New(C, -1).MIDI())
	assert.Equal(t, 127, New(G, 9).MIDI())

	for n := -12; n <= 140; n++ {
		assert.Equal(t, n, FromMIDI(n).MIDI(), "midi %d", n)
	}
}

func TestPitchClassFromIntervalWraps(t *testing.T) {
	assert.Equal(t, G, PitchClassFromInterval(C, semitones(7)))
	assert.Equal(t, C, PitchClassFromInterval(A, semitones(3)))
	assert.Equal(t, D, PitchClassFromInterval(D, semitones(12)))
	assert.Equal(t, B, PitchClassFromInterval(C, semitones(-1)))
}

func TestStringAndText(t *testing.T) {
	n := New(CSharp, 4)
	assert.Equal(t, "C#4", n.String())

	data, err := json.Marshal(map[string]Note{"root": n})
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"C#4"}`, string(data))

	var decoded struct {
		Root Note `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"root":"Eb3"}`), &decoded))
	assert.Equal(t, New(DSharp, 3), decoded.Root)

	_, err = New(PitchClass(12), 4).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidNote)
	assert.Equal(t, "PitchClass(12)", PitchClass(12).String())
}
