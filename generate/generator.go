// Package generate produces a complete single-file HTML page from a
// natural-language request.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pageagent/structured"
	"github.com/tbxark/pageagent/style"
)

type Request struct {
	Instruction string
	// History holds earlier turns. System messages are dropped.
	History []*schema.Message
	// Style, when set, asks the new page to keep an earlier page's look.
	Style *style.Profile
	// Model overrides the generator's model name for this request.
	Model string
}

type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// DefaultSystemPrompt takes the layout, style and mood guidance as its three
// "%s" placeholders.
const DefaultSystemPrompt = `You are an elite frontend engineer. You produce single-file, production-ready HTML websites and nothing else.

Absolute rules:
1. The output is raw HTML only: no Markdown, no explanations, no extra text.
2. Start with <!DOCTYPE html> and end with </html>.
3. One .html file that works when opened directly: no npm, no build tools, no frameworks, no API keys, no auth.
4. Fully responsive, and usable offline apart from public CDNs.
5. Public CDNs are allowed (Google Fonts, Font Awesome, GSAP, Three.js, Swiper, Anime.js).
6. Smooth animations, modern UI, semantic HTML, accessibility.
7. A substantial page: well over 100 lines.

Guidance for this request:
- Layout approach: %s
- Visual style: %s
- Mood/tone: %s

Output format:
<!DOCTYPE html>
<html>
...the complete page...
</html>`

type options struct {
	systemPrompt string
	modelName    string
	temperature  float32
	topP         float32
	maxTokens    int
}

type Option func(*options)

func WithSystemPrompt(prompt string) Option {
	return func(o *options) {
		o.systemPrompt = prompt
	}
}

func WithModelName(name string) Option {
	return func(o *options) {
		o.modelName = name
	}
}

func WithMaxTokens(n int) Option {
	return func(o *options) {
		o.maxTokens = n
	}
}

func WithTemperature(t float32) Option {
	return func(o *options) {
		o.temperature = t
	}
}

type ModelGenerator struct {
	chain *structured.TextChain[*Request]
	opts  options
}

func NewModelGenerator(chatModel model.BaseChatModel, opts ...Option) *ModelGenerator {
	o := options{
		systemPrompt: DefaultSystemPrompt,
		temperature:  0.7,
		topP:         0.9,
		maxTokens:    65000,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	g := &ModelGenerator{opts: o}
	g.chain = structured.NewTextChain[*Request](chatModel, g.buildPrompt)
	return g
}

func (g *ModelGenerator) buildPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, fmt.Errorf("empty instruction")
	}
	guidance := Decompose(req.Instruction)
	slog.Debug("Generation guidance", "layout", guidance.Layout, "style", guidance.Style, "mood", guidance.Mood)

	messages := []*schema.Message{
		schema.SystemMessage(fmt.Sprintf(g.opts.systemPrompt, guidance.Layout, guidance.Style, guidance.Mood)),
	}
	for _, msg := range req.History {
		if msg == nil || msg.Role == schema.System {
			continue
		}
		messages = append(messages, msg)
	}
	content := req.Instruction
	if req.Style != nil {
		if hints := req.Style.Hints(); len(hints) > 0 {
			content += "\n\nStyle consistency requirements:\n- " + strings.Join(hints, "\n- ")
		}
	}
	return append(messages, schema.UserMessage(content)), nil
}

// Generate returns a complete HTML document, or an error when the model call
// fails or its output holds no document.
func (g *ModelGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	callOpts := []model.Option{
		model.WithTemperature(g.opts.temperature),
		model.WithTopP(g.opts.topP),
		model.WithMaxTokens(g.opts.maxTokens),
	}
	if req == nil {
		return "", fmt.Errorf("nil generate request")
	}
	modelName := g.opts.modelName
	if req.Model != "" {
		modelName = req.Model
	}
	if modelName != "" {
		callOpts = append(callOpts, model.WithModel(modelName))
	}
	raw, err := g.chain.Invoke(ctx, req, callOpts...)
	if err != nil {
		return "", fmt.Errorf("generate page failed: %w", err)
	}
	document, err := ExtractHTML(raw)
	if err != nil {
		return "", err
	}
	slog.Debug("Generated page", "lines", LineCount(document), "bytes", len(document))
	return document, nil
}
