package generate

import (
	"errors"
	"regexp"
	"strings"
)

var ErrNoDocument = errors.New("model output contains no HTML document")

var (
	htmlFence   = regexp.MustCompile("(?s)```html[ \\t]*\\r?\\n(.*?)\\r?\\n[ \\t]*```")
	plainFence  = regexp.MustCompile("(?s)```[a-zA-Z]*[ \\t]*\\r?\\n(.*?)\\r?\\n[ \\t]*```")
	doctypeSpan = regexp.MustCompile(`(?is)<!doctype\s+html.*</html>`)
	htmlSpan    = regexp.MustCompile(`(?is)<html[\s>].*</html>`)
)

// ExtractHTML pulls a complete document out of raw model output. A fenced
// block is preferred; the result always starts at the doctype (or <html>)
// and ends at the last </html>.
func ExtractHTML(raw string) (string, error) {
	text := raw
	if m := htmlFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	} else if m := plainFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if span := doctypeSpan.FindString(text); span != "" {
		return span, nil
	}
	if span := htmlSpan.FindString(text); span != "" {
		return span, nil
	}
	// The fence may have cut a document that contains its own fences.
	if text != raw {
		if span := doctypeSpan.FindString(raw); span != "" {
			return span, nil
		}
	}
	return "", ErrNoDocument
}

// LineCount reports the number of lines in document.
func LineCount(document string) int {
	trimmed := strings.TrimRight(document, "\n")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "\n") + 1
}
