package agent

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// HistoryWindow bounds the chat history kept per session. System messages are
// dropped; the page builder supplies its own. MaxMessages and MaxBytes of
// zero or less mean no limit. The newest message is always kept.
type HistoryWindow struct {
	MaxMessages int
	MaxBytes    int
}

func (w HistoryWindow) Apply(history []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		if m == nil || m.Role == schema.System {
			continue
		}
		out = append(out, m)
	}
	if w.MaxMessages > 0 && len(out) > w.MaxMessages {
		out = out[len(out)-w.MaxMessages:]
	}
	if w.MaxBytes > 0 {
		size := 0
		cut := len(out)
		for i := len(out) - 1; i >= 0; i-- {
			size += len(out[i].Content)
			if size > w.MaxBytes && i < len(out)-1 {
				break
			}
			cut = i
		}
		out = out[cut:]
	}
	return out
}

type HistoryReadWriter interface {
	Load(ctx context.Context) ([]*schema.Message, error)
	Clear(ctx context.Context) error

	// Append adds msgs to the stored history and returns the windowed result,
	// ready to be used as adk.AgentInput messages.
	Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error)
}

type HistoryStore struct {
	store  Store[[]*schema.Message]
	window HistoryWindow
}

func NewHistoryStore(core Cache[[]*schema.Message], window HistoryWindow) *HistoryStore {
	return &HistoryStore{
		store:  NewCache(core, "pageagent:history", stateKeyOrDefault),
		window: window,
	}
}

func NewMemoryHistoryStore(window HistoryWindow) *HistoryStore {
	return NewHistoryStore(NewMemoryCore[[]*schema.Message](), window)
}

func (s *HistoryStore) Load(ctx context.Context) ([]*schema.Message, error) {
	history, _, err := s.store.Get(ctx)
	return history, err
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

func (s *HistoryStore) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	history, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := append([]*schema.Message(nil), history...)
	for _, m := range msgs {
		if m == nil {
			continue
		}
		// a resent turn is stored once
		if n := len(next); n > 0 && next[n-1].Role == m.Role && next[n-1].Content == m.Content {
			continue
		}
		next = append(next, m)
	}
	next = s.window.Apply(next)
	if err := s.store.Set(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

var _ HistoryReadWriter = (*HistoryStore)(nil)
