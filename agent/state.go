package agent

import (
	"context"
)

// StateReadWriter provides read/write access to page state using context for routing.
type StateReadWriter interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
	Clear(ctx context.Context) error
}

type stateKeyContext struct{}

const defaultStateKey = "default"

// WithStateKey sets a routing key for state storage in the context.
func WithStateKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, stateKeyContext{}, key)
}

// StateKeyFromContext gets the routing key from the context.
func StateKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(stateKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func stateKeyOrDefault(ctx context.Context) (string, bool) {
	key, ok := StateKeyFromContext(ctx)
	if ok && key != "" {
		return key, true
	}
	return defaultStateKey, true
}

// StateStore keeps one State per routing key. A missing entry loads as an
// empty page.
type StateStore struct {
	store Store[*State]
}

func NewStateStore(core Cache[*State]) *StateStore {
	return &StateStore{store: NewCache(core, "pageagent:state", stateKeyOrDefault)}
}

func NewMemoryStateStore() *StateStore {
	return NewStateStore(NewMemoryCore[*State]())
}

func (s *StateStore) Load(ctx context.Context) (*State, error) {
	state, ok, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || state == nil {
		return &State{}, nil
	}
	return state, nil
}

func (s *StateStore) Save(ctx context.Context, state *State) error {
	if state == nil {
		return s.store.Del(ctx)
	}
	return s.store.Set(ctx, state)
}

func (s *StateStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

var _ StateReadWriter = (*StateStore)(nil)
