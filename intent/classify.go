package intent

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// rule matches when pattern matches and unless (if set) does not.
type rule struct {
	pattern *regexp.Regexp
	unless  *regexp.Regexp
}

func (r rule) match(s string) bool {
	if !r.pattern.MatchString(s) {
		return false
	}
	return r.unless == nil || !r.unless.MatchString(s)
}

const languageNames = `english|turkish|spanish|french|german|italian|portuguese|russian|chinese|mandarin|japanese|korean|arabic|hindi|dutch|polish|swedish|norwegian|danish|finnish|greek|hebrew|persian|farsi|ukrainian|indonesian|vietnamese|thai|czech|romanian|hungarian`

// documentWide recognises instructions whose blast radius is the whole page.
// Micro rules defer to it so that "change all text to Turkish" is not treated
// as a single-target edit.
var documentWide = regexp.MustCompile(`\b(translate|translation|locali[sz]e|language|` + languageNames + `|all|every|everything|everywhere|throughout|entire|whole|theme)\b|\b(dark|light|night)\s*mode\b`)

var microRules = []rule{
	// "change the title to Launch"
	{pattern: regexp.MustCompile(`^(change|replace|update|swap|alter|rename)\b.{0,50}\s(to|with)\s+["']?[^"']+["']?$`), unless: documentWide},
	// "set the padding to 20"
	{pattern: regexp.MustCompile(`^(make|set)\b.{0,30}\s(to|=)\s*(\d+(px|rem|em|%)?|true|false|["'][^"']+["'])$`), unless: documentWide},
	// "remove the signup button"
	{pattern: regexp.MustCompile(`^(add|remove|delete|hide)\b.{0,50}\b(button|link|text|word|title|heading|image|icon|badge|label)$`), unless: documentWide},
	// "fix the typo in the footer"
	{pattern: regexp.MustCompile(`^(edit|fix|correct)\b.{0,50}\b(typo|error|mistake|word|text|spelling)\b`), unless: documentWide},
	// "what is the current title?"
	{pattern: regexp.MustCompile(`^(what|which)\b.{0,50}\b(the|this|current)\b.+\?$`)},
	// "make the heading bigger"
	{pattern: regexp.MustCompile(`^make\b.{0,30}\b(darker|lighter|bigger|smaller|larger|wider|narrower|bold|italic|underlined)$`), unless: documentWide},
	// "headline: New Title"
	{pattern: regexp.MustCompile(`^[a-z][a-z ]{0,30}:\s*["']?[^"']+["']?$`), unless: documentWide},
}

var semanticRules = []rule{
	{pattern: regexp.MustCompile(`\b(translate|translation|locali[sz]e|locali[sz]ation)\b`)},
	{pattern: regexp.MustCompile(`\b(` + languageNames + `)\b`)},
	{pattern: regexp.MustCompile(`\b(dark|light|night|day)\s*(mode|theme)\b|\b(theme|color scheme|colour scheme|palette)\b`)},
	{pattern: regexp.MustCompile(`\b(make|turn|convert|switch)\b.{0,40}\b(dark|light)\b`)},
	{pattern: regexp.MustCompile(`\b(all|every|everything|everywhere|throughout|entire|whole)\b`)},
	{pattern: regexp.MustCompile(`^(rewrite|restructure|reorganize|reorganise|rearrange)\b`)},
	{pattern: regexp.MustCompile(`\b(layout|sections?)\b`)},
	{pattern: regexp.MustCompile(`\b(add|remove|insert|create)\b.{0,50}\b(footer|header|sidebar|navigation|navbar|nav|menu|pricing|testimonials?|faq|gallery|contact form)\b`)},
}

var abstractRules = []rule{
	{pattern: regexp.MustCompile(`\b(make|feel|feels|look|looks)\b.{0,50}\b(modern|premium|luxury|luxurious|minimal|minimalist|brutalist|cozy|professional|corporate|playful|fun|sleek|elegant|bold|clean|fresh|stylish|futuristic|classy)\b`)},
	{pattern: regexp.MustCompile(`\b(more|less)\b.{0,50}\b(modern|premium|professional|playful|minimal|bold|fancy|elegant|sleek|polished|friendly)\b`)},
	{pattern: regexp.MustCompile(`^(improve|enhance|polish|beautify|better)\b.{0,50}\b(design|look|feel|ui|ux|style|styling|aesthetics?)\b`)},
	{pattern: regexp.MustCompile(`\b(vibe|vibes|aesthetic|mood|energy|feel)\b`)},
	{pattern: regexp.MustCompile(`\b(like|inspired by|in the style of)\s+(apple|stripe|linear|google|airbnb|notion|vercel|tesla|nike|spotify)\b|\b(apple|stripe|linear|notion|vercel)[- ]?(like|style|esque)\b`)},
	{pattern: regexp.MustCompile(`\b(imagine|picture|envision)\b`)},
	{pattern: regexp.MustCompile(`^(refresh|revamp|modernize|modernise|redesign)\b`)},
}

const (
	baseConfidence     = 0.6
	perMatchConfidence = 0.15
	maxConfidence      = 0.95
	fallbackWordLimit  = 8
)

var tables = []struct {
	intent Intent
	rules  []rule
	label  string
}{
	{Micro, microRules, "local text/value change"},
	{Semantic, semanticRules, "language/theme/structure change"},
	{Abstract, abstractRules, "vague creative request"},
}

// Classify maps an instruction to an edit intent. Tables are evaluated in
// priority order and the first table with any match wins.
func Classify(instruction string) Classification {
	normalized := strings.ToLower(strings.TrimSpace(instruction))
	for _, table := range tables {
		n := countMatches(table.rules, normalized)
		if n == 0 {
			continue
		}
		return Classification{
			Intent:     table.intent,
			Confidence: math.Min(maxConfidence, baseConfidence+perMatchConfidence*float64(n)),
			Reasoning:  fmt.Sprintf("matched %d %s pattern(s): %s", n, table.intent, table.label),
		}
	}
	if words := len(strings.Fields(normalized)); words <= fallbackWordLimit {
		return Classification{
			Intent:     Micro,
			Confidence: 0.4,
			Reasoning:  fmt.Sprintf("no pattern matched; short instruction (%d words) treated as micro edit", words),
		}
	}
	return Classification{
		Intent:     Semantic,
		Confidence: 0.5,
		Reasoning:  "no pattern matched; defaulting to semantic",
	}
}

func countMatches(rules []rule, s string) int {
	n := 0
	for _, r := range rules {
		if r.match(s) {
			n++
		}
	}
	return n
}
