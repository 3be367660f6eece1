package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	got := Excerpt(page, 1000)
	assert.Equal(t, []string{"Old Title", "Welcome to Acme", "Fast &amp; friendly."}, got)
	for _, text := range got {
		assert.True(t, strings.Contains(page, text), "excerpt %q must be verbatim", text)
	}
}

func TestExcerptDeduplicatesAndLimits(t *testing.T) {
	doc := "<ul><li>Buy</li><li>Buy</li><li>Sell now</li><li>Hold</li></ul>"
	assert.Equal(t, []string{"Buy", "Sell now", "Hold"}, Excerpt(doc, 100))
	assert.Equal(t, []string{"Buy"}, Excerpt(doc, 10))
	assert.Nil(t, Excerpt(doc, 0))
}

func TestExcerptSkipsStyleAndScript(t *testing.T) {
	doc := "<style>h1{color:red}</style><script>alert('x')</script><noscript>Enable JS</noscript>"
	assert.Equal(t, []string{"Enable JS"}, Excerpt(doc, 100))
}
