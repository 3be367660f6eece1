package structured

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

var ErrEmptyContent = errors.New("model returned empty content")

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

// Chain forces the model to answer through a single tool whose parameters
// are derived from TOutput, then decodes the tool arguments.
type Chain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.ToolCallingChatModel
	ToolInfo      *schema.ToolInfo
}

func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {

	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		ToolInfo:      toolInfo,
	}, nil
}

func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput, opts ...model.Option) (*TOutput, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	opts = append([]model.Option{
		model.WithTools([]*schema.ToolInfo{s.ToolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, s.ToolInfo.Name),
	}, opts...)
	response, err := s.ChatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}
	if len(response.ToolCalls) == 0 {
		return nil, fmt.Errorf("no ToolCall found in model response: %s", response.Content)
	}

	var result TOutput
	if err := sonic.UnmarshalString(response.ToolCalls[0].Function.Arguments, &result); err != nil {
		return nil, fmt.Errorf("parse ToolCall arguments failed: %w", err)
	}

	return &result, nil
}

// TextChain returns the raw assistant text. Callers own the decoding, which
// lets them tolerate Markdown fences and other formatting noise.
type TextChain[TInput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.BaseChatModel
}

func NewTextChain[TInput any](chatModel model.BaseChatModel, promptBuilder PromptBuilder[TInput]) *TextChain[TInput] {
	return &TextChain[TInput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
	}
}

func (s *TextChain[TInput]) Invoke(ctx context.Context, input TInput, opts ...model.Option) (string, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return "", fmt.Errorf("build prompt failed: %w", err)
	}
	response, err := s.ChatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("call model failed: %w", err)
	}
	if response == nil || response.Content == "" {
		return "", ErrEmptyContent
	}
	return response.Content, nil
}
