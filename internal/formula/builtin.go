package formula

// Builtins returns the formulas available without any formula files.
func Builtins() []Formula {
	return []Formula{
		{Name: "major", Kind: KindChord, Aliases: []string{"maj"}, Steps: []int{4, 3}, Description: "Major triad"},
		{Name: "minor", Kind: KindChord, Aliases: []string{"min", "m"}, Steps: []int{3, 4}, Description: "Minor triad"},
		{Name: "diminished", Kind: KindChord, Aliases: []string{"dim"}, Steps: []int{3, 3}, Description: "Diminished triad"},
		{Name: "augmented", Kind: KindChord, Aliases: []string{"aug"}, Steps: []int{4, 4}, Description: "Augmented triad"},
		{Name: "sus2", Kind: KindChord, Steps: []int{2, 5}, Description: "Suspended second"},
		{Name: "sus4", Kind: KindChord, Steps: []int{5, 2}, Description: "Suspended fourth"},
		{Name: "dominant7", Kind: KindChord, Aliases: []string{"7", "dom7"}, Steps: []int{4, 3, 3}, Description: "Dominant seventh"},
		{Name: "major7", Kind: KindChord, Aliases: []string{"maj7"}, Steps: []int{4, 3, 4}, Description: "Major seventh"},
		{Name: "minor7", Kind: KindChord, Aliases: []string{"m7", "min7"}, Steps: []int{3, 4, 3}, Description: "Minor seventh"},
		{Name: "half-diminished7", Kind: KindChord, Aliases: []string{"m7b5"}, Steps: []int{3, 3, 4}, Description: "Half-diminished seventh"},
		{Name: "diminished7", Kind: KindChord, Aliases: []string{"dim7"}, Steps: []int{3, 3, 3}, Description: "Diminished seventh"},

		{Name: "major-scale", Kind: KindScale, Aliases: []string{"ionian"}, Steps: []int{2, 2, 1, 2, 2, 2, 1}, Description: "Major scale"},
		{Name: "natural-minor", Kind: KindScale, Aliases: []string{"aeolian"}, Steps: []int{2, 1, 2, 2, 1, 2, 2}, Description: "Natural minor scale"},
		{Name: "harmonic-minor", Kind: KindScale, Steps: []int{2, 1, 2, 2, 1, 3, 1}, Description: "Harmonic minor scale"},
		{Name: "dorian", Kind: KindScale, Steps: []int{2, 1, 2, 2, 2, 1, 2}, Description: "Dorian mode"},
		{Name: "mixolydian", Kind: KindScale, Steps: []int{2, 2, 1, 2, 2, 1, 2}, Description: "Mixolydian mode"},
		{Name: "major-pentatonic", Kind: KindScale, Steps: []int{2, 2, 3, 2, 3}, Description: "Major pentatonic scale"},
		{Name: "minor-pentatonic", Kind: KindScale, Steps: []int{3, 2, 2, 3, 2}, Description: "Minor pentatonic scale"},
		{Name: "whole-tone", Kind: KindScale, Steps: []int{2, 2, 2, 2, 2, 2}, Description: "Whole-tone scale"},
		{Name: "chromatic", Kind: KindScale, Steps: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, Description: "Chromatic scale"},
	}
}
