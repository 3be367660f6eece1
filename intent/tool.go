package intent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/pageagent/structured"
)

const (
	classifyToolName        = "classify_edit_intent"
	classifyToolDescription = "Classify an HTML page edit instruction as micro, semantic or abstract."
)

// DefaultClassifySystemPrompt is the system prompt used by ToolBasedRecognizer.
// It may contain a single "%s" placeholder for the tool name.
const DefaultClassifySystemPrompt = `You route edit requests for a single-file HTML page.

Classify the user's instruction:
- micro: names one narrow target (a title, a number, a word, a button) and its replacement. Example: "change the title to Launch".
- semantic: a transformation spanning many places or the whole page: translation, theme or dark/light mode, "all/every/throughout", adding or removing whole sections.
- abstract: a vague aesthetic direction with no concrete target: "make it modern", "more premium", "Apple-like", "improve the design".

Give a confidence between 0 and 1 and a one-sentence reasoning.
Call the '%s' tool with the result.`

type classifyOutput struct {
	Intent     Intent  `json:"intent" jsonschema:"required,enum=micro,enum=semantic,enum=abstract,description=The edit intent"`
	Confidence float64 `json:"confidence" jsonschema:"required,minimum=0,maximum=1,description=Confidence in the classification"`
	Reasoning  string  `json:"reasoning" jsonschema:"description=Short justification"`
}

type recognizerOptions struct {
	systemPrompt string
}

type ToolOption func(*recognizerOptions)

func WithClassifySystemPrompt(systemPrompt string) ToolOption {
	return func(o *recognizerOptions) {
		o.systemPrompt = systemPrompt
	}
}

// ToolBasedRecognizer lets the model classify the instruction. It is meant to
// sit in front of LocalRecognizer inside a FailbackRecognizer.
type ToolBasedRecognizer struct {
	chain *structured.Chain[string, classifyOutput]
}

func NewToolBasedRecognizer(chatModel model.ToolCallingChatModel, opts ...ToolOption) (*ToolBasedRecognizer, error) {
	options := recognizerOptions{systemPrompt: DefaultClassifySystemPrompt}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	systemPrompt := fmt.Sprintf(options.systemPrompt, classifyToolName)
	chain, err := structured.NewChain[string, classifyOutput](
		chatModel,
		func(ctx context.Context, instruction string) ([]*schema.Message, error) {
			return []*schema.Message{
				schema.SystemMessage(systemPrompt),
				schema.UserMessage(instruction),
			}, nil
		},
		classifyToolName,
		classifyToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedRecognizer{chain: chain}, nil
}

func (r *ToolBasedRecognizer) Recognize(ctx context.Context, instruction string) (Classification, error) {
	result, err := r.chain.Invoke(ctx, instruction, model.WithTemperature(0))
	if err != nil {
		return Classification{}, err
	}
	if result == nil || !result.Intent.Valid() {
		return Classification{}, fmt.Errorf("invalid intent returned by %s", classifyToolName)
	}
	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Classification{
		Intent:     result.Intent,
		Confidence: confidence,
		Reasoning:  result.Reasoning,
	}, nil
}
