package intent

import (
	"context"
	"fmt"
)

// LocalRecognizer classifies with the built-in rule tables and never fails.
type LocalRecognizer struct{}

func NewLocalRecognizer() *LocalRecognizer {
	return &LocalRecognizer{}
}

func (LocalRecognizer) Recognize(ctx context.Context, instruction string) (Classification, error) {
	return Classify(instruction), nil
}

type FailbackRecognizer struct {
	recognizers []Recognizer
}

func NewFailbackRecognizer(recognizers ...Recognizer) *FailbackRecognizer {
	return &FailbackRecognizer{recognizers: recognizers}
}

func (r *FailbackRecognizer) Recognize(ctx context.Context, instruction string) (Classification, error) {
	var lastErr error
	for _, recognizer := range r.recognizers {
		c, err := recognizer.Recognize(ctx, instruction)
		if err == nil {
			return c, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no recognizer configured")
	}
	return Classification{}, fmt.Errorf("all intent recognizers failed: %w", lastErr)
}
