package dialogue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/pageagent/intent"
	"github.com/tbxark/pageagent/internal/modeltest"
)

func TestLocalDialogueGenerator(t *testing.T) {
	g := &LocalDialogueGenerator{}
	cases := []struct {
		req  Request
		want string
	}{
		{Request{Outcome: Edited, Intent: intent.Micro, Applied: 1, Elapsed: 1400 * time.Millisecond}, "Quick edit complete · 1 changes applied · 1s"},
		{Request{Outcome: Edited, Intent: intent.Semantic, Applied: 12, Elapsed: 9 * time.Second}, "Semantic update complete · 12 changes applied · 9s"},
		{Request{Outcome: Edited, Intent: intent.Abstract, Applied: 4}, "Design transformation complete · 4 changes applied · 0s"},
		{Request{Outcome: Edited, Intent: "other", Applied: 2}, "Edit complete · 2 changes applied · 0s"},
		{Request{Outcome: Generated, Lines: 240, Elapsed: 31 * time.Second}, "Built in 31s · 240 lines · Optimized for clarity and performance"},
		{Request{Outcome: Undone}, "Reverted to the previous version."},
		{Request{Outcome: NothingToUndo}, "Nothing to undo."},
		{Request{Outcome: Reset}, "Started over. Describe the page you want to build."},
	}
	for _, tc := range cases {
		got, err := g.GenerateDialogue(context.Background(), &tc.req)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestLocalDialogueGeneratorNoChanges(t *testing.T) {
	got, _ := (&LocalDialogueGenerator{}).GenerateDialogue(context.Background(), &Request{Outcome: Edited, Intent: intent.Micro})
	assert.Contains(t, got, "No changes applied")
}

func TestLocalDialogueGeneratorFailures(t *testing.T) {
	g := &LocalDialogueGenerator{}
	timeout, _ := g.GenerateDialogue(context.Background(), &Request{Outcome: Failed, Err: fmt.Errorf("generate: %w", context.DeadlineExceeded)})
	assert.Contains(t, timeout, "took longer than expected")

	other, _ := g.GenerateDialogue(context.Background(), &Request{Outcome: Failed, Err: errors.New("502")})
	assert.Contains(t, other, "Could not complete generation.")
}

func TestToolBasedDialogueGenerator(t *testing.T) {
	m := modeltest.New(modeltest.Text("  Done! Your title now says Launch.  "))
	g := NewToolBasedDialogueGenerator(m, WithDialogueLang("Turkish"))

	got, err := g.GenerateDialogue(context.Background(), &Request{
		Outcome:     Edited,
		Instruction: "change the title to Launch",
		Intent:      intent.Micro,
		Applied:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Done! Your title now says Launch.", got)

	call := m.LastCall()
	assert.Contains(t, call.Messages[0].Content, "Reply in Turkish.")
	assert.Contains(t, call.Messages[1].Content, "# User request:\nchange the title to Launch")
	assert.Contains(t, call.Messages[1].Content, "- changes applied: 1")
}

func TestToolBasedDialogueGeneratorCustomPrompt(t *testing.T) {
	m := modeltest.New(modeltest.Text("ok"))
	g := NewToolBasedDialogueGenerator(m, WithDialogueSystemPrompt("Be terse."))
	_, err := g.GenerateDialogue(context.Background(), &Request{Outcome: Reset})
	require.NoError(t, err)
	assert.Equal(t, "Be terse.", m.LastCall().Messages[0].Content)
	assert.NotContains(t, m.LastCall().Messages[1].Content, "# User request")
}

func TestFailbackDialogueGenerator(t *testing.T) {
	broken := NewToolBasedDialogueGenerator(modeltest.New(modeltest.Fail(errors.New("offline"))))
	empty := NewToolBasedDialogueGenerator(modeltest.New(modeltest.Text("   ")))
	g := NewFailbackDialogueGenerator(broken, empty, &LocalDialogueGenerator{})

	got, err := g.GenerateDialogue(context.Background(), &Request{Outcome: Undone})
	require.NoError(t, err)
	assert.Equal(t, "Reverted to the previous version.", got)

	_, err = NewFailbackDialogueGenerator().GenerateDialogue(context.Background(), &Request{})
	assert.Error(t, err)
}
