package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/pageagent/internal/modeltest"
)

func TestToolBasedRecognizer(t *testing.T) {
	m := modeltest.New(modeltest.Tool(classifyToolName, `{"intent":"abstract","confidence":0.82,"reasoning":"aesthetic direction"}`))
	r, err := NewToolBasedRecognizer(m)
	require.NoError(t, err)

	got, err := r.Recognize(context.Background(), "make it pop")
	require.NoError(t, err)
	assert.Equal(t, Classification{Intent: Abstract, Confidence: 0.82, Reasoning: "aesthetic direction"}, got)

	call := m.LastCall()
	require.Len(t, call.Messages, 2)
	assert.Equal(t, schema.System, call.Messages[0].Role)
	assert.Contains(t, call.Messages[0].Content, classifyToolName)
	assert.Equal(t, "make it pop", call.Messages[1].Content)
	require.NotNil(t, call.Options.Temperature)
	assert.Zero(t, *call.Options.Temperature)
	require.Len(t, call.Options.Tools, 1)
	assert.Equal(t, classifyToolName, call.Options.Tools[0].Name)
}

func TestToolBasedRecognizerClampsConfidence(t *testing.T) {
	m := modeltest.New(modeltest.Tool(classifyToolName, `{"intent":"micro","confidence":7}`))
	r, err := NewToolBasedRecognizer(m)
	require.NoError(t, err)

	got, err := r.Recognize(context.Background(), "change the title to Launch")
	require.NoError(t, err)
	assert.Equal(t, Micro, got.Intent)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestToolBasedRecognizerRejectsUnknownIntent(t *testing.T) {
	m := modeltest.New(modeltest.Tool(classifyToolName, `{"intent":"cosmic","confidence":0.9}`))
	r, err := NewToolBasedRecognizer(m)
	require.NoError(t, err)

	_, err = r.Recognize(context.Background(), "anything")
	assert.Error(t, err)
}

func TestToolBasedRecognizerCustomPrompt(t *testing.T) {
	m := modeltest.New(modeltest.Tool(classifyToolName, `{"intent":"semantic","confidence":0.6}`))
	r, err := NewToolBasedRecognizer(m, WithClassifySystemPrompt("Classify. Use %s."))
	require.NoError(t, err)

	_, err = r.Recognize(context.Background(), "translate")
	require.NoError(t, err)
	assert.Equal(t, "Classify. Use "+classifyToolName+".", m.LastCall().Messages[0].Content)
}

func TestFailbackRecognizer(t *testing.T) {
	broken := modeltest.New(modeltest.Fail(errors.New("upstream unavailable")))
	tool, err := NewToolBasedRecognizer(broken)
	require.NoError(t, err)

	r := NewFailbackRecognizer(tool, NewLocalRecognizer())
	got, err := r.Recognize(context.Background(), "translate this to Turkish")
	require.NoError(t, err)
	assert.Equal(t, Semantic, got.Intent)
	assert.Len(t, broken.Calls(), 1)
}

func TestFailbackRecognizerAllFail(t *testing.T) {
	boom := errors.New("boom")
	tool, err := NewToolBasedRecognizer(modeltest.New(modeltest.Fail(boom)))
	require.NoError(t, err)

	_, err = NewFailbackRecognizer(tool).Recognize(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	_, err = NewFailbackRecognizer().Recognize(context.Background(), "x")
	assert.Error(t, err)
}
