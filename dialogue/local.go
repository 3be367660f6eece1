package dialogue

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tbxark/pageagent/intent"
)

// LocalDialogueGenerator writes fixed status lines. It never fails.
type LocalDialogueGenerator struct{}

func intentLabel(req *Request) string {
	switch req.Intent {
	case intent.Micro:
		return "Quick edit"
	case intent.Semantic:
		return "Semantic update"
	case intent.Abstract:
		return "Design transformation"
	default:
		return "Edit"
	}
}

func seconds(req *Request) int {
	return int(math.Round(req.Elapsed.Seconds()))
}

func (g *LocalDialogueGenerator) GenerateDialogue(ctx context.Context, req *Request) (string, error) {
	switch req.Outcome {
	case Generated:
		return fmt.Sprintf("Built in %ds · %d lines · Optimized for clarity and performance", seconds(req), req.Lines), nil
	case Edited:
		if req.Applied == 0 {
			return "No changes applied. I could not find an exact place to make that edit; try quoting the text you want changed.", nil
		}
		return fmt.Sprintf("%s complete · %d changes applied · %ds", intentLabel(req), req.Applied, seconds(req)), nil
	case Undone:
		return "Reverted to the previous version.", nil
	case NothingToUndo:
		return "Nothing to undo.", nil
	case Reset:
		return "Started over. Describe the page you want to build.", nil
	case Failed:
		if errors.Is(req.Err, context.DeadlineExceeded) {
			return "Generation took longer than expected. Try simplifying your request or breaking it into smaller steps.", nil
		}
		return "Could not complete generation. Try rephrasing your request or be more specific about what you need.", nil
	default:
		return "Done.", nil
	}
}

type FailbackDialogueGenerator struct {
	generators []Generator
}

func NewFailbackDialogueGenerator(generators ...Generator) *FailbackDialogueGenerator {
	return &FailbackDialogueGenerator{generators: generators}
}

func (g *FailbackDialogueGenerator) GenerateDialogue(ctx context.Context, req *Request) (string, error) {
	var lastErr error
	for _, generator := range g.generators {
		message, err := generator.GenerateDialogue(ctx, req)
		if err == nil && message != "" {
			return message, nil
		}
		if err == nil {
			err = errors.New("empty message")
		}
		lastErr = err
	}
	return "", fmt.Errorf("all dialogue generators failed: %w", lastErr)
}
