package strategy

import (
	"strings"

	"golang.org/x/net/html"
)

// Excerpt returns the visible text runs of document exactly as they are
// written in the source, entities included, so each one is a valid replace
// target. Script and style bodies are skipped. Runs are trimmed, deduplicated
// and kept in document order until their total length would exceed limit.
func Excerpt(document string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	z := html.NewTokenizer(strings.NewReader(document))
	seen := make(map[string]struct{})
	var (
		out   []string
		total int
		skip  bool
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip = false
			}
		case html.TextToken:
			if skip {
				continue
			}
			text := strings.TrimSpace(string(z.Raw()))
			if text == "" {
				continue
			}
			if _, ok := seen[text]; ok {
				continue
			}
			if total+len(text) > limit {
				return out
			}
			seen[text] = struct{}{}
			total += len(text)
			out = append(out, text)
		}
	}
}
