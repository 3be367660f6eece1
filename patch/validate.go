package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
)

var (
	openingFence = regexp.MustCompile("^\\s*```[a-zA-Z]*[ \\t]*\\r?\\n?")
	closingFence = regexp.MustCompile("\\r?\\n?[ \\t]*```\\s*$")
)

// StripCodeFence removes a Markdown code fence wrapped around model output.
// Fences inside the output are kept.
func StripCodeFence(raw string) string {
	text := openingFence.ReplaceAllString(raw, "")
	text = closingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

type rawOperation struct {
	Op     *string `json:"op"`
	Target *string `json:"target"`
	Value  *string `json:"value"`
}

type rawResponse struct {
	Ops *[]rawOperation `json:"ops"`
}

// Parse decodes and validates raw model output. The response is accepted or
// rejected as a whole: one malformed operation invalidates every operation.
func Parse(raw string) (*Response, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty output", ErrInvalidResponse)
	}

	var decoded rawResponse
	err := sonic.UnmarshalString(text, &decoded)
	if err != nil {
		// The model sometimes wraps the object in prose.
		start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		decoded = rawResponse{}
		if err := sonic.UnmarshalString(text[start:end+1], &decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	if decoded.Ops == nil {
		return nil, fmt.Errorf("%w: missing ops array", ErrInvalidResponse)
	}

	ops := make([]Operation, 0, len(*decoded.Ops))
	for i, op := range *decoded.Ops {
		if op.Op == nil || !OpType(*op.Op).Valid() {
			return nil, fmt.Errorf("%w: operation %d has unknown op", ErrInvalidResponse, i)
		}
		if op.Target == nil {
			return nil, fmt.Errorf("%w: operation %d has no string target", ErrInvalidResponse, i)
		}
		ops = append(ops, Operation{
			Op:     OpType(*op.Op),
			Target: *op.Target,
			Value:  op.Value,
		})
	}
	return &Response{Ops: ops}, nil
}
