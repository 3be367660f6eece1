package generate

import "strings"

// Guidance is a coarse reading of a build request, passed to the model as
// layout, style and mood hints.
type Guidance struct {
	Layout string `json:"layout"`
	Style  string `json:"style"`
	Mood   string `json:"mood"`
}

type cue struct {
	keywords []string
	value    string
}

var (
	layoutCues = []cue{
		{[]string{"landing", "hero"}, "hero-focused"},
		{[]string{"dashboard", "admin"}, "grid-layout"},
		{[]string{"portfolio", "gallery"}, "gallery-style"},
	}
	styleCues = []cue{
		{[]string{"minimal", "clean"}, "minimal"},
		{[]string{"bold", "brutalist"}, "brutalist"},
		{[]string{"modern", "sleek"}, "modern"},
	}
	moodCues = []cue{
		{[]string{"professional", "corporate"}, "professional"},
		{[]string{"playful", "fun"}, "playful"},
		{[]string{"luxury", "premium"}, "luxury"},
	}
)

// Decompose maps keywords in instruction to guidance. The first matching cue
// in each list wins.
func Decompose(instruction string) Guidance {
	lower := strings.ToLower(instruction)
	return Guidance{
		Layout: pick(lower, layoutCues, "standard-flow"),
		Style:  pick(lower, styleCues, "balanced"),
		Mood:   pick(lower, moodCues, "neutral"),
	}
}

func pick(s string, cues []cue, fallback string) string {
	for _, c := range cues {
		for _, k := range c.keywords {
			if strings.Contains(s, k) {
				return c.value
			}
		}
	}
	return fallback
}
