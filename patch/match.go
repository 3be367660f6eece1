package patch

import (
	"regexp"
	"strings"
)

// locate finds the single exact occurrence of target.
func locate(document, target string) (int, int, error) {
	start := strings.Index(document, target)
	if start < 0 {
		return 0, 0, ErrTargetNotFound
	}
	if strings.Contains(document[start+1:], target) {
		return 0, 0, ErrAmbiguousTarget
	}
	return start, start + len(target), nil
}

// locateFlexible finds the single occurrence of target where any run of
// whitespace in either text matches any other run. Words are matched
// literally.
func locateFlexible(document, target string) (int, int, error) {
	words := strings.Fields(target)
	if len(words) == 0 {
		return 0, 0, ErrTargetNotFound
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re, err := regexp.Compile(strings.Join(words, `\s+`))
	if err != nil {
		return 0, 0, err
	}
	matches := re.FindAllStringIndex(document, 2)
	switch len(matches) {
	case 0:
		return 0, 0, ErrTargetNotFound
	case 1:
		return matches[0][0], matches[0][1], nil
	default:
		return 0, 0, ErrAmbiguousTarget
	}
}
