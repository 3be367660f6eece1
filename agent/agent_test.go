package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/pageagent/generate"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func drain(iter *adk.AsyncIterator[*adk.AgentEvent]) []*adk.AgentEvent {
	var events []*adk.AgentEvent
	for {
		event, ok := iter.Next()
		if !ok {
			return events
		}
		events = append(events, event)
	}
}

func TestAgentRunPersistsState(t *testing.T) {
	store := NewMemoryStateStore()
	flow := newStubFlow(&stubGenerator{document: page}, &stubRouter{})
	a := NewAgent("page-builder", "builds pages", flow, store)
	ctx := WithStateKey(context.Background(), "session")

	assert.Equal(t, "page-builder", a.Name(ctx))
	assert.Equal(t, "builds pages", a.Description(ctx))

	events := drain(a.Run(ctx, &adk.AgentInput{Messages: []adk.Message{
		schema.UserMessage("earlier turn"),
		schema.UserMessage("build a landing page"),
	}}))
	require.Len(t, events, 1)
	require.NoError(t, events[0].Err)
	assert.Equal(t, "page-builder", events[0].AgentName)

	msg := events[0].Output.MessageOutput.Message
	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Contains(t, msg.Content, "Built in")

	resp, ok := events[0].Output.CustomizedOutput.(*Response)
	require.True(t, ok)
	assert.Equal(t, ModeGenerate, resp.Mode)

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, page, state.Document)

	events = drain(a.Run(ctx, &adk.AgentInput{Messages: []adk.Message{schema.UserMessage("reset")}}))
	require.Len(t, events, 1)
	state, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Document)
}

func TestAgentRunWithoutMessages(t *testing.T) {
	a := NewAgent("page-builder", "", newStubFlow(&stubGenerator{}, &stubRouter{}), NewMemoryStateStore())
	events := drain(a.Run(context.Background(), &adk.AgentInput{}))
	require.Len(t, events, 1)
	assert.Error(t, events[0].Err)
}

type panickyGenerator struct{}

func (panickyGenerator) Generate(ctx context.Context, req *generate.Request) (string, error) {
	panic("boom")
}

func TestAgentRunRecoversPanic(t *testing.T) {
	flow := NewPageFlow(nil, &stubRouter{}, panickyGenerator{})
	a := NewAgent("page-builder", "", flow, NewMemoryStateStore())
	events := drain(a.Run(context.Background(), &adk.AgentInput{Messages: []adk.Message{schema.UserMessage("build")}}))
	require.Len(t, events, 1)
	assert.ErrorContains(t, events[0].Err, "boom")
}
