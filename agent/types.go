package agent

import (
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pageagent/intent"
	"github.com/tbxark/pageagent/style"
)

type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeEdit     Mode = "edit"
	ModeCommand  Mode = "command"
)

// SelectMode picks full generation for an empty page and the edit pipeline
// for everything else.
func SelectMode(document string) Mode {
	if strings.TrimSpace(document) == "" {
		return ModeGenerate
	}
	return ModeEdit
}

type Settings struct {
	Model string `json:"model,omitempty"`
}

type State struct {
	Document string `json:"document"`
	// Revisions holds earlier documents, most recent last.
	Revisions  []string               `json:"revisions,omitempty"`
	Style      *style.Profile         `json:"style,omitempty"`
	Settings   Settings               `json:"settings"`
	LastIntent *intent.Classification `json:"last_intent,omitempty"`
}

type Request struct {
	State       *State            `json:"state"`
	UserInput   string            `json:"user_input"`
	ChatHistory []*schema.Message `json:"chat_history"`
}

type Response struct {
	Message      string                 `json:"message,omitempty"`
	Mode         Mode                   `json:"mode"`
	Intent       *intent.Classification `json:"intent,omitempty"`
	EditsApplied int                    `json:"edits_applied"`
	EditsSkipped int                    `json:"edits_skipped"`
	State        *State                 `json:"state,omitempty"`
	Metadata     map[string]string      `json:"metadata,omitempty"`

	err error
}

// Err returns the failure recorded in Metadata["error"], if any.
func (r *Response) Err() error {
	return r.err
}
