package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/tonic/internal/interval"
)

// IntervalTableURI identifies the interval table resource.
const IntervalTableURI = "tonic://interval-table"

// IntervalTableMarkdown renders every classifiable interval as a Markdown
// table, followed by the rules for stacking intervals on a root.
func IntervalTableMarkdown() string {
	var b strings.Builder
	b.WriteString("# Interval Table\n\n")
	b.WriteString("| Semitones | Quality | Number | Short | Step |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for s := 0; s <= interval.MaxSemitones; s++ {
		iv, _ := interval.FromSemitone(s)
		step := ""
		if iv.HasStep() {
			step = iv.Step.String()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", s, iv.Quality, iv.Number, iv.ShortName(), step)
	}
	b.WriteString(`
## Chaining

- Semitone counts outside 0-12 are rejected; a list fails on its first bad element.
- A chain starts at the root and applies each interval to the previous note,
  so a major triad is ` + "`[4, 3]`" + `, not ` + "`[4, 7]`" + `.
- The octave bump is ` + "`(pitch class + semitones - 1) / 12`" + `, truncated. Landing
  exactly on C keeps the octave: B4 up a half step is C4.
- Notes are written as letter, optional ` + "`#`" + ` or ` + "`b`" + `, and octave (C4 = MIDI 60).
`)
	return b.String()
}
