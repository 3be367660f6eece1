// Package modeltest provides a scripted chat model for offline tests.
package modeltest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var _ model.ToolCallingChatModel = (*ScriptedModel)(nil)

var ErrNoReply = errors.New("modeltest: no scripted reply left")

type Reply struct {
	Content   string
	ToolCalls []schema.ToolCall
	Err       error
}

// Text is a reply carrying plain assistant content.
func Text(content string) Reply {
	return Reply{Content: content}
}

// Tool is a reply carrying a single tool call.
func Tool(name, arguments string) Reply {
	return Reply{ToolCalls: []schema.ToolCall{{
		ID:       "call_" + name,
		Function: schema.FunctionCall{Name: name, Arguments: arguments},
	}}}
}

func Fail(err error) Reply {
	return Reply{Err: err}
}

type Call struct {
	Messages []*schema.Message
	Options  *model.Options
}

// ScriptedModel replays replies in order and records every call.
type ScriptedModel struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

func New(replies ...Reply) *ScriptedModel {
	return &ScriptedModel{replies: replies}
}

func (m *ScriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{
		Messages: input,
		Options:  model.GetCommonOptions(nil, opts...),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.replies) == 0 {
		return nil, ErrNoReply
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &schema.Message{
		Role:      schema.Assistant,
		Content:   reply.Content,
		ToolCalls: reply.ToolCalls,
	}, nil
}

func (m *ScriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ScriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func (m *ScriptedModel) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent call, or a zero Call if none happened.
func (m *ScriptedModel) LastCall() Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Call{}
	}
	return m.calls[len(m.calls)-1]
}
