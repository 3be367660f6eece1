// Package style extracts a coarse visual profile from a generated page so that
// later edits can be asked to stay consistent with it.
package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Density string

const (
	Compact Density = "compact"
	Normal  Density = "normal"
	Relaxed Density = "relaxed"
)

type Tone string

const (
	Light Tone = "light"
	Dark  Tone = "dark"
)

type Border string

const (
	Sharp    Border = "sharp"
	Rounded  Border = "rounded"
	NoBorder Border = "none"
)

// Profile is a best-effort summary of a document's look. Empty fields mean
// the document gave no signal for them.
type Profile struct {
	FontFamily     string  `json:"font_family,omitempty"`
	SpacingDensity Density `json:"spacing_density,omitempty"`
	ColorTone      Tone    `json:"color_tone,omitempty"`
	BorderStyle    Border  `json:"border_style,omitempty"`
}

var (
	fontFamily   = regexp.MustCompile(`(?i)font-family:\s*['"]?([^;'"]+)['"]?`)
	padding      = regexp.MustCompile(`(?i)padding:\s*(\d+)`)
	background   = regexp.MustCompile(`(?i)background(?:-color)?:\s*#([0-9a-f]{3,6})`)
	sharpCorners = regexp.MustCompile(`(?i)border-radius:\s*0`)
)

const (
	defaultPadding = 16
	compactBelow   = 12
	relaxedAbove   = 24
	darkBelow      = 100
)

// Extract reads the profile from raw document text. It never fails.
func Extract(document string) Profile {
	var p Profile

	if m := fontFamily.FindStringSubmatch(document); m != nil {
		first, _, _ := strings.Cut(m[1], ",")
		p.FontFamily = strings.TrimSpace(first)
	}

	avg := float64(defaultPadding)
	if ms := padding.FindAllStringSubmatch(document, -1); len(ms) > 0 {
		sum := 0
		for _, m := range ms {
			n, _ := strconv.Atoi(m[1])
			sum += n
		}
		avg = float64(sum) / float64(len(ms))
	}
	switch {
	case avg < compactBelow:
		p.SpacingDensity = Compact
	case avg > relaxedAbove:
		p.SpacingDensity = Relaxed
	default:
		p.SpacingDensity = Normal
	}

	// The red channel of the first hex background stands in for luminance.
	if m := background.FindStringSubmatch(document); m != nil {
		red, err := strconv.ParseUint(m[1][:2], 16, 8)
		if err == nil {
			if red < darkBelow {
				p.ColorTone = Dark
			} else {
				p.ColorTone = Light
			}
		}
	}

	switch {
	case sharpCorners.MatchString(document):
		p.BorderStyle = Sharp
	case strings.Contains(document, "border-radius"):
		p.BorderStyle = Rounded
	default:
		p.BorderStyle = NoBorder
	}
	return p
}

func (p Profile) IsZero() bool {
	return p == Profile{}
}

// Hints returns one consistency instruction per known attribute.
func (p Profile) Hints() []string {
	var hints []string
	if p.FontFamily != "" {
		hints = append(hints, fmt.Sprintf("Continue using the %s font family", p.FontFamily))
	}
	if p.SpacingDensity != "" {
		hints = append(hints, fmt.Sprintf("Maintain %s spacing density", p.SpacingDensity))
	}
	if p.ColorTone != "" {
		hints = append(hints, fmt.Sprintf("Keep the %s color tone", p.ColorTone))
	}
	if p.BorderStyle != "" {
		hints = append(hints, fmt.Sprintf("Use %s border styling", p.BorderStyle))
	}
	return hints
}

// Attributes lists the non-empty profile fields as name/value pairs in a
// fixed order.
func (p Profile) Attributes() [][2]string {
	var out [][2]string
	add := func(name, value string) {
		if value != "" {
			out = append(out, [2]string{name, value})
		}
	}
	add("font family", p.FontFamily)
	add("spacing density", string(p.SpacingDensity))
	add("color tone", string(p.ColorTone))
	add("border style", string(p.BorderStyle))
	return out
}
