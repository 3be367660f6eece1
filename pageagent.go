// Package pageagent builds and edits a single-file HTML page through chat.
//
// A Builder holds one page and its conversation in memory. Each Invoke either
// generates a new page (when there is none yet) or classifies the request as
// a micro, semantic or abstract edit and applies the model's search/replace
// operations to the current page.
package pageagent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pageagent/agent"
	"github.com/tbxark/pageagent/style"
)

const checkpointVersion = "1.0"

type Checkpoint struct {
	Version   string            `json:"version"`
	State     *agent.State      `json:"state"`
	History   []*schema.Message `json:"history,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type Builder struct {
	mu      sync.Mutex
	flow    *agent.PageFlow
	window  agent.HistoryWindow
	state   *agent.State
	history []*schema.Message
}

func New(flow *agent.PageFlow) *Builder {
	return &Builder{
		flow:   flow,
		window: agent.HistoryWindow{MaxMessages: 20, MaxBytes: 64 << 10},
		state:  &agent.State{},
	}
}

func NewToolBased(chatModel model.ToolCallingChatModel, opts ...agent.FlowOption) (*Builder, error) {
	flow, err := agent.NewToolBasedPageFlow(chatModel, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create page flow: %w", err)
	}
	return New(flow), nil
}

// Invoke runs one user turn against the current page. A failed turn leaves
// the page unchanged and is reported through Response.Err.
func (b *Builder) Invoke(ctx context.Context, input string) (*agent.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	resp, err := b.flow.Invoke(ctx, &agent.Request{
		State:       b.state,
		UserInput:   input,
		ChatHistory: b.history,
	})
	if err != nil {
		return nil, err
	}
	b.state = resp.State
	if resp.Mode == agent.ModeCommand && resp.Metadata["command"] == "reset" {
		b.history = nil
		return resp, nil
	}
	b.history = b.window.Apply(append(b.history,
		schema.UserMessage(input),
		schema.AssistantMessage(resp.Message, nil),
	))
	return resp, nil
}

func (b *Builder) CreateCheckpoint() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := sonic.Marshal(Checkpoint{
		Version:   checkpointVersion,
		State:     b.state,
		History:   b.history,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	return data, nil
}

func (b *Builder) RestoreCheckpoint(data []byte) error {
	var checkpoint Checkpoint
	if err := sonic.Unmarshal(data, &checkpoint); err != nil {
		return fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	if checkpoint.Version != checkpointVersion {
		return fmt.Errorf("incompatible checkpoint version: %s (expected %s)", checkpoint.Version, checkpointVersion)
	}
	if checkpoint.State == nil {
		checkpoint.State = &agent.State{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = checkpoint.State
	b.history = checkpoint.History
	return nil
}

func (b *Builder) InvokeWithCheckpoint(ctx context.Context, data []byte, input string) (*agent.Response, error) {
	if err := b.RestoreCheckpoint(data); err != nil {
		return nil, err
	}
	return b.Invoke(ctx, input)
}

// SetDocument starts editing an existing page. The current page, if any, is
// kept for undo.
func (b *Builder) SetDocument(document string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state.Document != "" {
		b.state.Revisions = append(b.state.Revisions, b.state.Document)
	}
	b.state.Document = document
	profile := style.Extract(document)
	b.state.Style = &profile
}

func (b *Builder) Document() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Document
}

func (b *Builder) State() *agent.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
