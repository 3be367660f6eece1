package command

import (
	"context"
	"fmt"
	"strings"
)

// LocalCommandParser matches the whole input against keyword lists. Anything
// else, including "undo the color change", is None and goes to the editor.
type LocalCommandParser struct {
	UndoKeywords  []string
	ResetKeywords []string
}

func NewLocalCommandParser() *LocalCommandParser {
	return &LocalCommandParser{
		UndoKeywords:  []string{"undo", "/undo", "revert", "go back", "geri al"},
		ResetKeywords: []string{"reset", "/reset", "start over", "new page", "clear", "sıfırla"},
	}
}

func (p *LocalCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	normalized := strings.Trim(strings.ToLower(strings.TrimSpace(input)), ".!")
	for _, keyword := range p.UndoKeywords {
		if normalized == keyword {
			return Undo, nil
		}
	}
	for _, keyword := range p.ResetKeywords {
		if normalized == keyword {
			return Reset, nil
		}
	}
	return None, nil
}

type FailbackCommandParser struct {
	parsers []Parser
}

func NewFailbackCommandParser(parsers ...Parser) *FailbackCommandParser {
	return &FailbackCommandParser{parsers: parsers}
}

func (p *FailbackCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	var lastErr error
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, input)
		if err == nil {
			return cmd, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return None, nil
	}
	return None, fmt.Errorf("all command parsers failed: %w", lastErr)
}
