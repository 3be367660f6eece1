package strategy

import (
	"context"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pageagent/intent"
	"github.com/tbxark/pageagent/patch"
	"github.com/tbxark/pageagent/structured"
	"github.com/tbxark/pageagent/types"
)

// Budget bounds one strategy: the operation cap stated in the prompt, the
// sampling parameters and which context the prompt carries.
type Budget struct {
	MaxOps      int
	Temperature float32
	MaxTokens   int
	TopP        float32
	Excerpt     bool
	StyleHints  bool
}

func DefaultBudgets() map[intent.Intent]Budget {
	return map[intent.Intent]Budget{
		intent.Micro:    {MaxOps: 5, Temperature: 0.15, MaxTokens: 2000, TopP: 0.9, Excerpt: true, StyleHints: true},
		intent.Semantic: {MaxOps: 15, Temperature: 0.35, MaxTokens: 6000, TopP: 0.9, Excerpt: true, StyleHints: true},
		intent.Abstract: {MaxOps: 15, Temperature: 0.5, MaxTokens: 8000, TopP: 0.9},
	}
}

const defaultExcerptLimit = 4000

type Option func(*Router)

func WithBudget(i intent.Intent, budget Budget) Option {
	return func(r *Router) {
		r.budgets[i] = budget
	}
}

// WithExcerptLimit caps the total characters of verbatim text shipped with
// micro and semantic prompts.
func WithExcerptLimit(chars int) Option {
	return func(r *Router) {
		r.excerptLimit = chars
	}
}

// WithModelName overrides the model for every routed call.
func WithModelName(name string) Option {
	return func(r *Router) {
		r.modelName = name
	}
}

// Router picks the prompt and budget for a classified edit and asks the model
// for edit operations. It never returns a document and never fails: any
// problem degrades to an empty operation list.
type Router struct {
	chain        *structured.TextChain[*types.EditRequest]
	budgets      map[intent.Intent]Budget
	excerptLimit int
	modelName    string
}

func NewRouter(chatModel model.BaseChatModel, opts ...Option) *Router {
	r := &Router{
		budgets:      DefaultBudgets(),
		excerptLimit: defaultExcerptLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.chain = structured.NewTextChain[*types.EditRequest](chatModel, buildEditPrompt)
	return r
}

func buildEditPrompt(ctx context.Context, req *types.EditRequest) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.SystemMessage(systemPrompt(req.Intent.Intent, req.MaxOps)),
		schema.UserMessage(types.FormatEditRequest(req)),
	}, nil
}

// Strategy resolves the strategy used for i. Unknown intents use semantic.
func (r *Router) Strategy(i intent.Intent) (intent.Intent, Budget) {
	if budget, ok := r.budgets[i]; ok && i.Valid() {
		return i, budget
	}
	return intent.Semantic, r.budgets[intent.Semantic]
}

// Route returns the edit operations for req. The result is never nil.
func (r *Router) Route(ctx context.Context, req *types.EditRequest) *patch.Response {
	if req == nil {
		return patch.Empty()
	}
	strategy, budget := r.Strategy(req.Intent.Intent)
	if strategy != req.Intent.Intent {
		slog.Warn("Unknown edit intent, using semantic strategy", "intent", req.Intent.Intent)
	}

	prepared := *req
	prepared.Intent.Intent = strategy
	prepared.MaxOps = budget.MaxOps
	prepared.Directive = directives[strategy]
	prepared.Excerpt = nil
	if budget.Excerpt {
		prepared.Excerpt = Excerpt(req.Document, r.excerptLimit)
	}
	if !budget.StyleHints {
		prepared.Style = nil
	}

	opts := []model.Option{
		model.WithTemperature(budget.Temperature),
		model.WithMaxTokens(budget.MaxTokens),
		model.WithTopP(budget.TopP),
	}
	if name := firstNonEmpty(req.Model, r.modelName); name != "" {
		opts = append(opts, model.WithModel(name))
	}

	slog.Debug("Routing edit", "strategy", strategy, "max_ops", budget.MaxOps, "excerpt", len(prepared.Excerpt))
	raw, err := r.chain.Invoke(ctx, &prepared, opts...)
	if err != nil {
		slog.Error("Edit model call failed", "strategy", strategy, "error", err)
		return patch.Empty()
	}
	resp, err := patch.Parse(raw)
	if err != nil {
		slog.Error("Discarding edit response", "strategy", strategy, "error", err)
		return patch.Empty()
	}
	if len(resp.Ops) > budget.MaxOps {
		slog.Warn("Edit response exceeds operation budget", "strategy", strategy, "ops", len(resp.Ops), "max_ops", budget.MaxOps)
	}
	return resp
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
