package testcases

import (
	"context"
	"strings"
	"testing"

	"github.com/tbxark/pageagent/agent"
)

// TestGenerateThenEdit builds a page from nothing and then edits it.
func TestGenerateThenEdit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewTestSession(t)

	resp := s.Say(ctx, "Build a landing page for a coffee shop called Bean There with a menu section")
	if resp.Mode != agent.ModeGenerate {
		t.Fatalf("expected generate mode, got %s", resp.Mode)
	}
	if !strings.Contains(strings.ToLower(s.State.Document), "<html") {
		t.Fatalf("generated document has no <html> element:\n%s", s.State.Document)
	}
	if s.State.Style == nil {
		t.Error("style profile should be extracted after generation")
	}

	before := s.State.Document
	resp = s.Say(ctx, `change the heading "Bean There" to "Bean Here"`)
	if resp.Mode != agent.ModeEdit {
		t.Fatalf("expected edit mode, got %s", resp.Mode)
	}
	if resp.EditsApplied > 0 && s.State.Document == before {
		t.Error("edits reported as applied but the document is unchanged")
	}
	if len(s.State.Revisions) != 1 && resp.EditsApplied > 0 {
		t.Errorf("expected one revision, got %d", len(s.State.Revisions))
	}
}
