package patch

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Old Title</title>
  <style>
    body { margin: 0; }
    .container { padding: 1rem; }
    .hero .title { font-size: 3rem; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Welcome, Alice</h1>
    <p>Contact us any time.</p>
  </div>
</body>
</html>`

func TestApplyEmptyOpsIsIdentity(t *testing.T) {
	for _, doc := range []string{"", samplePage, "plain text", "  \n\t "} {
		got, report := Apply(doc, nil)
		assert.Equal(t, doc, got)
		assert.Zero(t, report.Applied)
		assert.Empty(t, report.Skipped)

		got, _ = Apply(doc, []Operation{})
		assert.Equal(t, doc, got)
	}
}

func TestReplaceUnique(t *testing.T) {
	doc := "<p>Hello Alice, welcome.</p>"
	got, report := Apply(doc, []Operation{Replace("Alice", "Bob")})
	assert.Equal(t, "<p>Hello Bob, welcome.</p>", got)
	assert.Equal(t, 1, report.Applied)
}

func TestReplaceAmbiguousLeavesDocumentUntouched(t *testing.T) {
	doc := "<p>Alice</p><p>Alice again</p>"
	got, report := Apply(doc, []Operation{Replace("Alice", "Bob")})
	assert.Equal(t, doc, got)
	require.Len(t, report.Skipped, 1)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrAmbiguousTarget)
}

func TestReplaceOverlappingOccurrencesIsAmbiguous(t *testing.T) {
	doc := "<b>aaa</b>"
	got, report := Apply(doc, []Operation{Replace("aa", "x")})
	assert.Equal(t, doc, got)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrAmbiguousTarget)
}

func TestReplaceMissingTargetIsNoop(t *testing.T) {
	got, report := Apply(samplePage, []Operation{Replace("<h2>Nope</h2>", "<h2>Yes</h2>")})
	assert.Equal(t, samplePage, got)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrTargetNotFound)
}

func TestReplaceFlexibleWhitespace(t *testing.T) {
	doc := "<div>\n  <h1>Welcome,\n      Alice</h1>\n</div>"
	got, report := Apply(doc, []Operation{Replace("<h1>Welcome, Alice</h1>", "<h1>Hi Bob</h1>")})
	assert.Equal(t, "<div>\n  <h1>Hi Bob</h1>\n</div>", got)
	assert.Equal(t, 1, report.Applied)
}

func TestReplaceFlexibleAmbiguous(t *testing.T) {
	doc := "<p>Buy  now</p>\n<p>Buy\nnow</p>"
	got, report := Apply(doc, []Operation{Replace("Buy now", "Order")})
	assert.Equal(t, doc, got)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrAmbiguousTarget)
}

func TestReplaceFlexibleTreatsMetacharactersLiterally(t *testing.T) {
	doc := "<p>Price: $9.99 (per   month)</p><p>Price: $9x99 (per month)</p>"
	got, _ := Apply(doc, []Operation{Replace("$9.99 (per month)", "$19.99 (per month)")})
	assert.Equal(t, "<p>Price: $19.99 (per month)</p><p>Price: $9x99 (per month)</p>", got)
}

func TestReplaceAll(t *testing.T) {
	doc := "Alice met Alice near Alice's house"
	got, report := Apply(doc, []Operation{ReplaceAll("Alice", "Bob")})
	assert.Equal(t, 0, strings.Count(got, "Alice"))
	assert.Equal(t, 3, strings.Count(got, "Bob"))
	assert.Equal(t, 1, report.Applied)
}

func TestReplaceAllIsLiteral(t *testing.T) {
	doc := "a.b a.b axb"
	got, _ := Apply(doc, []Operation{ReplaceAll("a.b", "$1")})
	assert.Equal(t, "$1 $1 axb", got)
}

func TestReplaceAllMissingIsNoop(t *testing.T) {
	got, report := Apply("abc", []Operation{ReplaceAll("zzz", "y")})
	assert.Equal(t, "abc", got)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrTargetNotFound)
}

func TestInsertAndDelete(t *testing.T) {
	doc := "<h1>Title</h1><footer>f</footer>"
	got, report := Apply(doc, []Operation{
		InsertBefore("<footer>", "<nav>n</nav>"),
		InsertAfter("<h1>Title</h1>", "<p>Sub</p>"),
		Delete("<footer>f</footer>"),
	})
	assert.Equal(t, "<h1>Title</h1><p>Sub</p><nav>n</nav>", got)
	assert.Equal(t, 3, report.Applied)
}

func TestInsertDeleteRequireUniqueExactMatch(t *testing.T) {
	doc := "<li>x</li><li>x</li>\n<p>one  two</p>"
	got, report := Apply(doc, []Operation{
		InsertAfter("<li>x</li>", "<li>y</li>"),
		InsertBefore("<li>x</li>", "<li>w</li>"),
		Delete("<li>x</li>"),
		Delete("one two"),
	})
	assert.Equal(t, doc, got)
	require.Len(t, report.Skipped, 4)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrAmbiguousTarget)
	assert.ErrorIs(t, report.Skipped[3].Err, ErrTargetNotFound)
}

func TestOperationsSeeEarlierResults(t *testing.T) {
	doc := "<main><h1>Title</h1></main>"
	got, report := Apply(doc, []Operation{
		InsertAfter("<h1>Title</h1>", "<p>Subtitle</p>"),
		Replace("Subtitle", "Tagline"),
	})
	assert.Contains(t, got, "<h1>Title</h1><p>Tagline</p>")
	assert.Equal(t, 2, report.Applied)
}

func TestInvalidOperationsAreSkipped(t *testing.T) {
	doc := "<p>keep</p>"
	got, report := Apply(doc, []Operation{
		{Op: OpReplace, Target: "keep"},
		{Op: "rename", Target: "keep", Value: ptr("x")},
		{Op: OpDelete, Target: ""},
		Replace("keep", "kept"),
	})
	assert.Equal(t, "<p>kept</p>", got)
	assert.Equal(t, 1, report.Applied)
	require.Len(t, report.Skipped, 3)
	assert.ErrorIs(t, report.Skipped[0].Err, ErrMissingValue)
	assert.ErrorIs(t, report.Skipped[1].Err, ErrUnknownOperation)
	assert.ErrorIs(t, report.Skipped[2].Err, ErrEmptyTarget)
	assert.Equal(t, 1, report.Skipped[1].Index)
}

func TestDeleteIgnoresValue(t *testing.T) {
	got, _ := Apply("<p>a</p><p>b</p>", []Operation{{Op: OpDelete, Target: "<p>a</p>", Value: ptr("ignored")}})
	assert.Equal(t, "<p>b</p>", got)
}

func TestReplaceLeavesRestByteIdentical(t *testing.T) {
	got, _ := Apply(samplePage, []Operation{Replace("<title>Old Title</title>", "<title>Launch</title>")})
	want := strings.Replace(samplePage, "Old Title", "Launch", 1)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func ptr(s string) *string {
	return &s
}
