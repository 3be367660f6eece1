// Package server exposes the page flow over HTTP. It keeps no state between
// requests: the client sends the current page with every turn.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tbxark/pageagent/agent"
	"github.com/tbxark/pageagent/style"
	"golang.org/x/time/rate"
)

const defaultMaxBodyBytes = 4 << 20

// Flow runs one chat turn. *agent.PageFlow implements it.
type Flow interface {
	Invoke(ctx context.Context, input *agent.Request) (*agent.Response, error)
}

type options struct {
	limiter      *rate.Limiter
	maxBodyBytes int64
	timeout      time.Duration
}

type Option func(*options)

// WithRateLimit allows rps requests per second with the given burst across all
// clients. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		o.maxBodyBytes = n
	}
}

// WithTimeout bounds each generation request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

type Server struct {
	flow    Flow
	router  *chi.Mux
	options options
}

func New(flow Flow, opts ...Option) *Server {
	o := options{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	s := &Server{flow: flow, options: o}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		if o.limiter != nil {
			r.Use(limit(o.limiter))
		}
		r.Post("/api/generate-html", s.handleGenerate)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func limit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// ChatMessage is one prior turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is the body of POST /api/generate-html.
type GenerateRequest struct {
	Messages    []ChatMessage `json:"messages"`
	CurrentHTML string        `json:"currentHtml"`
	UserMessage string        `json:"userMessage"`
	Model       string        `json:"model,omitempty"`
}

type GenerateResponse struct {
	HTML         string  `json:"html"`
	Mode         string  `json:"mode"`
	Intent       string  `json:"intent,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	EditsApplied int     `json:"editsApplied"`
	Message      string  `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.options.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body", "")
		return
	}
	var req GenerateRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		writeError(w, http.StatusBadRequest, "userMessage is required", "")
		return
	}

	ctx := r.Context()
	if s.options.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.timeout)
		defer cancel()
	}

	resp, err := s.flow.Invoke(ctx, toFlowRequest(&req))
	if err != nil {
		slog.Error("Page flow invoke failed", "request_id", requestID, "error", err)
		writeError(w, http.StatusInternalServerError, "generation failed", "")
		return
	}
	if ferr := resp.Err(); ferr != nil {
		slog.Warn("Page flow reported failure", "request_id", requestID, "mode", resp.Mode, "error", ferr)
		writeError(w, statusFor(ferr), ferr.Error(), resp.Message)
		return
	}

	out := GenerateResponse{
		Mode:         string(resp.Mode),
		EditsApplied: resp.EditsApplied,
		Message:      resp.Message,
	}
	if resp.State != nil {
		out.HTML = resp.State.Document
	}
	if resp.Intent != nil {
		out.Intent = string(resp.Intent.Intent)
		out.Confidence = resp.Intent.Confidence
	}
	slog.Info("Served page turn", "request_id", requestID, "mode", out.Mode, "intent", out.Intent, "edits", out.EditsApplied)
	writeJSON(w, http.StatusOK, out)
}

func toFlowRequest(req *GenerateRequest) *agent.Request {
	state := &agent.State{
		Document: req.CurrentHTML,
		Settings: agent.Settings{Model: req.Model},
	}
	if agent.SelectMode(req.CurrentHTML) == agent.ModeEdit {
		profile := style.Extract(req.CurrentHTML)
		state.Style = &profile
	}
	history := make([]*schema.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch schema.RoleType(m.Role) {
		case schema.User:
			history = append(history, schema.UserMessage(m.Content))
		case schema.Assistant:
			history = append(history, schema.AssistantMessage(m.Content, nil))
		}
	}
	return &agent.Request{
		State:       state,
		UserInput:   req.UserMessage,
		ChatHistory: history,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, agent.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg, userMessage string) {
	writeJSON(w, status, errorResponse{Error: msg, Message: userMessage})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
