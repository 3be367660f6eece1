package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/pageagent/agent"
	"github.com/tbxark/pageagent/generate"
	"github.com/tbxark/pageagent/intent"
	"github.com/tbxark/pageagent/internal/modeltest"
	"github.com/tbxark/pageagent/strategy"
)

const page = `<!DOCTYPE html>
<html><head><title>Old Title</title></head>
<body><h1>Welcome</h1></body>
</html>`

type recordingFlow struct {
	requests []*agent.Request
	resp     *agent.Response
	err      error
}

func (f *recordingFlow) Invoke(ctx context.Context, input *agent.Request) (*agent.Response, error) {
	f.requests = append(f.requests, input)
	return f.resp, f.err
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-html", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&recordingFlow{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGenerateBuildsFlowRequest(t *testing.T) {
	flow := &recordingFlow{resp: &agent.Response{
		Message:      "Quick edit complete · 1 changes applied · 3s",
		Mode:         agent.ModeEdit,
		Intent:       &intent.Classification{Intent: intent.Micro, Confidence: 0.75},
		EditsApplied: 1,
		State:        &agent.State{Document: "<p>new</p>"},
	}}
	body := `{"messages":[{"role":"user","content":"hi"},{"role":"system","content":"x"},{"role":"assistant","content":"hello"}],
		"currentHtml":"<body style=\"font-family: Inter\">x</body>","userMessage":"change x to y","model":"openai/gpt-4o"}`

	rec := post(t, New(flow), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decode[GenerateResponse](t, rec)
	assert.Equal(t, GenerateResponse{
		HTML:         "<p>new</p>",
		Mode:         "edit",
		Intent:       "micro",
		Confidence:   0.75,
		EditsApplied: 1,
		Message:      "Quick edit complete · 1 changes applied · 3s",
	}, got)

	require.Len(t, flow.requests, 1)
	req := flow.requests[0]
	assert.Equal(t, "change x to y", req.UserInput)
	assert.Equal(t, "openai/gpt-4o", req.State.Settings.Model)
	require.NotNil(t, req.State.Style)
	assert.Equal(t, "Inter", req.State.Style.FontFamily)
	require.Len(t, req.ChatHistory, 2)
	assert.Equal(t, "hello", req.ChatHistory[1].Content)
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	flow := &recordingFlow{}
	h := New(flow, WithMaxBodyBytes(64))

	rec := post(t, h, `{"userMessage":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode[errorResponse](t, rec).Error)

	rec = post(t, h, `{"userMessage":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, `{"userMessage":"`+strings.Repeat("a", 100)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	assert.Empty(t, flow.requests)
}

func TestGenerateMapsFlowFailures(t *testing.T) {
	flow := agent.NewPageFlow(intent.NewLocalRecognizer(), strategy.NewRouter(modeltest.New()),
		generate.NewModelGenerator(modeltest.New(modeltest.Fail(context.DeadlineExceeded))))

	rec := post(t, New(flow), `{"userMessage":"build a landing page"}`)
	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
	got := decode[errorResponse](t, rec)
	assert.Contains(t, got.Error, "deadline exceeded")
	assert.Contains(t, got.Message, "took longer than expected")
}

func TestGenerateEndToEnd(t *testing.T) {
	m := modeltest.New(modeltest.Text(`{"ops":[{"op":"replace","target":"Welcome","value":"Hello"}]}`))
	flow := agent.NewPageFlow(intent.NewLocalRecognizer(), strategy.NewRouter(m), generate.NewModelGenerator(m))

	rec := post(t, New(flow), `{"currentHtml":`+quote(page)+`,"userMessage":"change Welcome to Hello"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[GenerateResponse](t, rec)
	assert.Equal(t, "edit", got.Mode)
	assert.Equal(t, "micro", got.Intent)
	assert.Equal(t, 1, got.EditsApplied)
	assert.Contains(t, got.HTML, "<h1>Hello</h1>")
}

func TestRateLimit(t *testing.T) {
	flow := &recordingFlow{resp: &agent.Response{Mode: agent.ModeGenerate, State: &agent.State{Document: "<p>x</p>"}}}
	h := New(flow, WithRateLimit(0.001, 1))

	assert.Equal(t, http.StatusOK, post(t, h, `{"userMessage":"a"}`).Code)
	rec := post(t, h, `{"userMessage":"b"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, flow.requests, 1)

	health := httptest.NewRecorder()
	h.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func quote(s string) string {
	b, _ := sonic.MarshalString(s)
	return b
}
