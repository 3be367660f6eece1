package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

var _ adk.Agent = (*Agent)(nil)

// Agent exposes a PageFlow as an adk.Agent. The page state lives in store,
// keyed by WithStateKey; the input messages are the chat history with the
// current user turn last.
type Agent struct {
	name        string
	description string
	flow        *PageFlow
	store       StateReadWriter
}

func NewAgent(name, description string, flow *PageFlow, store StateReadWriter) *Agent {
	return &Agent{
		name:        name,
		description: description,
		flow:        flow,
		store:       store,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if input == nil || len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		state, err := a.store.Load(ctx)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("load state failed: %w", err),
			})
			return
		}
		last := len(input.Messages) - 1
		resp, err := a.flow.Invoke(ctx, &Request{
			State:       state,
			UserInput:   input.Messages[last].Content,
			ChatHistory: input.Messages[:last],
		})
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("flow invoke failed: %w", err),
			})
			return
		}
		if err := a.store.Save(ctx, resp.State); err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("save state failed: %w", err),
			})
			return
		}
		gen.Send(&adk.AgentEvent{
			AgentName: a.name,
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: resp.Message,
					},
					Role: schema.Assistant,
				},
				CustomizedOutput: resp,
			},
		})
	}()
	return iter
}
