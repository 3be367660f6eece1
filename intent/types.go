package intent

import "context"

type Intent string

const (
	Micro    Intent = "micro"
	Semantic Intent = "semantic"
	Abstract Intent = "abstract"
)

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	switch i {
	case Micro, Semantic, Abstract:
		return true
	default:
		return false
	}
}

type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type Recognizer interface {
	Recognize(ctx context.Context, instruction string) (Classification, error)
}
