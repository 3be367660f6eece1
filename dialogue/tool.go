package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type ToolBasedDialogueGenerator struct {
	Lang                 string
	systemPrompt         string
	systemPromptTemplate string
	chatModel            model.BaseChatModel
}

// DefaultDialogueSystemPromptTemplate is the default system prompt template used by
// ToolBasedDialogueGenerator. The template may contain a single "%s" placeholder for the language.
const DefaultDialogueSystemPromptTemplate = `You are the voice of an AI web page builder. The page has just been built or edited; tell the user what happened.

- One or two short sentences, friendly and concrete.
- If no changes were applied, say so plainly and suggest quoting the exact text to change.
- If the turn failed, apologise briefly and suggest a simpler or more specific request.
- Never include HTML or code.
- Reply in %s.
`

type dialogueGeneratorOptions struct {
	lang                 string
	systemPrompt         string
	systemPromptTemplate string
}

type GeneratorOption func(*dialogueGeneratorOptions)

// WithDialogueLang sets the language used by the default system prompt template.
func WithDialogueLang(lang string) GeneratorOption {
	return func(o *dialogueGeneratorOptions) {
		o.lang = lang
	}
}

// WithDialogueSystemPrompt overrides the system prompt used by ToolBasedDialogueGenerator.
func WithDialogueSystemPrompt(systemPrompt string) GeneratorOption {
	return func(o *dialogueGeneratorOptions) {
		o.systemPrompt = systemPrompt
	}
}

func NewToolBasedDialogueGenerator(chatModel model.BaseChatModel, opts ...GeneratorOption) *ToolBasedDialogueGenerator {
	options := dialogueGeneratorOptions{
		lang:                 "English",
		systemPromptTemplate: DefaultDialogueSystemPromptTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.lang == "" {
		options.lang = "English"
	}
	return &ToolBasedDialogueGenerator{
		Lang:                 options.lang,
		systemPrompt:         options.systemPrompt,
		systemPromptTemplate: options.systemPromptTemplate,
		chatModel:            chatModel,
	}
}

func (g *ToolBasedDialogueGenerator) GenerateDialogue(ctx context.Context, req *Request) (string, error) {
	messages := g.buildDialoguePrompt(req)
	response, err := g.chatModel.Generate(ctx, messages, model.WithTemperature(0.5), model.WithMaxTokens(200))
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return strings.TrimSpace(response.Content), nil
}

func (g *ToolBasedDialogueGenerator) buildDialoguePrompt(req *Request) []*schema.Message {
	systemPrompt := g.systemPrompt
	if systemPrompt == "" {
		tpl := g.systemPromptTemplate
		if strings.Contains(tpl, "%s") {
			systemPrompt = fmt.Sprintf(tpl, g.Lang)
		} else {
			systemPrompt = tpl
		}
	}
	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(formatRequest(req)),
	}
}
