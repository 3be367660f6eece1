package patch

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	styleBlock = regexp.MustCompile(`(?is)<style(?:\s[^>]*)?>(.*?)</style>`)
	headOpen   = regexp.MustCompile(`(?i)<head(?:\s[^>]*)?>`)
)

// applySetCSS merges "selector { declarations }" into the first <style>
// block. The merge is textual: an existing top-level rule for the same
// selector has its whole body replaced, otherwise the rule is appended.
func applySetCSS(document, selector, declarations string) (string, error) {
	selector = strings.TrimSpace(selector)
	declarations = strings.TrimSpace(declarations)
	if err := checkCSS(selector, declarations); err != nil {
		return document, err
	}
	rule := fmt.Sprintf("%s { %s }", selector, declarations)

	loc := styleBlock.FindStringSubmatchIndex(document)
	if loc == nil {
		head := headOpen.FindStringIndex(document)
		if head == nil {
			return document, ErrNoStyleAnchor
		}
		block := "<style>\n" + rule + "\n</style>"
		return document[:head[1]] + block + document[head[1]:], nil
	}

	contentStart, contentEnd := loc[2], loc[3]
	sheet := mergeRule(document[contentStart:contentEnd], selector, rule)
	return document[:contentStart] + sheet + document[contentEnd:], nil
}

// mergeRule replaces every top-level rule whose selector equals selector, or
// appends rule when there is none. Rules nested in at-rule blocks are left
// alone, as are selectors that merely contain selector (".card .title").
func mergeRule(sheet, selector, rule string) string {
	var b strings.Builder
	found := false
	for i := 0; i < len(sheet); {
		j := skipBlank(sheet, i)
		b.WriteString(sheet[i:j])
		if i = j; i >= len(sheet) {
			break
		}
		stop := indexTopLevel(sheet, i)
		if stop < 0 {
			b.WriteString(sheet[i:])
			break
		}
		if sheet[stop] != '{' {
			// statement at-rule or stray brace
			b.WriteString(sheet[i : stop+1])
			i = stop + 1
			continue
		}
		end := matchingBrace(sheet, stop)
		if end < 0 {
			b.WriteString(sheet[i:])
			break
		}
		if strings.TrimSpace(sheet[i:stop]) == selector {
			b.WriteString(rule)
			found = true
		} else {
			b.WriteString(sheet[i : end+1])
		}
		i = end + 1
	}
	if !found {
		return sheet + "\n" + rule + "\n"
	}
	return b.String()
}

// skipBlank skips whitespace and comments.
func skipBlank(s string, i int) int {
	for i < len(s) {
		switch {
		case strings.IndexByte(" \t\r\n\f", s[i]) >= 0:
			i++
		case strings.HasPrefix(s[i:], "/*"):
			i = skipToken(s, i)
		default:
			return i
		}
	}
	return i
}

// indexTopLevel returns the first '{', ';' or '}' at or after i that is not
// inside a comment or a quoted string.
func indexTopLevel(s string, i int) int {
	for i < len(s) {
		if strings.IndexByte("{;}", s[i]) >= 0 {
			return i
		}
		i = skipToken(s, i)
	}
	return -1
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth--; depth == 0 {
				return i
			}
		}
		i = skipToken(s, i)
	}
	return -1
}

// skipToken returns the index just past the comment or quoted string at i,
// or i+1 for any other byte.
func skipToken(s string, i int) int {
	if strings.HasPrefix(s[i:], "/*") {
		end := strings.Index(s[i+2:], "*/")
		if end < 0 {
			return len(s)
		}
		return i + 2 + end + 2
	}
	if q := s[i]; q == '"' || q == '\'' {
		for j := i + 1; j < len(s); j++ {
			switch s[j] {
			case '\\':
				j++
			case q:
				return j + 1
			}
		}
		return len(s)
	}
	return i + 1
}

func checkCSS(selector, declarations string) error {
	if strings.ContainsAny(selector, "{}") || strings.Contains(strings.ToLower(selector), "</style") {
		return fmt.Errorf("%w: selector %q", ErrInvalidCSS, selector)
	}
	if strings.ContainsAny(declarations, "{}") || strings.Contains(strings.ToLower(declarations), "</style") {
		return fmt.Errorf("%w: declarations for %q", ErrInvalidCSS, selector)
	}
	return nil
}
