package command

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/pageagent/structured"
)

const (
	parseCommandToolName        = "parse_control_command"
	parseCommandToolDescription = "Decide whether a page builder chat message is a control command: undo, reset, none."
)

type parseCommandInput struct {
	Intent Command `json:"intent" jsonschema:"required,enum=undo,enum=reset,enum=none,description=The user's control command"`
}

type ToolBasedCommandParser struct {
	chain *structured.Chain[string, parseCommandInput]
}

func NewToolBasedCommandParser(chatModel model.ToolCallingChatModel) (*ToolBasedCommandParser, error) {
	chain, err := structured.NewChain[string, parseCommandInput](
		chatModel,
		buildParseCommandPrompt,
		parseCommandToolName,
		parseCommandToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedCommandParser{chain: chain}, nil
}

func (p *ToolBasedCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	result, err := p.chain.Invoke(ctx, input, model.WithTemperature(0))
	if err != nil {
		return None, err
	}
	if result == nil || !result.Intent.Valid() {
		return None, fmt.Errorf("invalid command returned by %s", parseCommandToolName)
	}
	return result.Intent, nil
}

func buildParseCommandPrompt(ctx context.Context, input string) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You watch the chat of an AI web page builder. The user is editing one HTML page.

Decide whether the latest message is a control command rather than an edit request:
- undo: the user explicitly wants the previous version of the page back ("undo", "revert that", "go back to the last version"). A request to change something back to a specific value is an edit, not undo.
- reset: the user explicitly wants to throw the page away and start from scratch ("start over", "new page", "reset").
- none: anything else, including every request to change, add, remove or restyle content.

Call the '%s' tool with the result.`, parseCommandToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(input),
	}, nil
}
