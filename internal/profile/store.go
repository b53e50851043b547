package profile

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
)

// ErrNotFound is returned when a profile has never been saved.
var ErrNotFound = errors.New("profile not found")

// Store persists encoded profiles by id.
type Store interface {
	Load(ctx context.Context, id string) (map[string]string, error)
	Save(ctx context.Context, id string, kv map[string]string) error
	Close() error
}

// LoadState loads profile id, or starts a fresh one for worldSeed.
func LoadState(ctx context.Context, st Store, id string, worldSeed uint32) (*State, error) {
	kv, err := st.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NewState(worldSeed), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", id, err)
	}
	s, err := Decode(kv)
	if err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", id, err)
	}
	return s, nil
}

// SaveState encodes and saves s as profile id.
func SaveState(ctx context.Context, st Store, id string, s *State) error {
	kv, err := Encode(s)
	if err != nil {
		return err
	}
	if err := st.Save(ctx, id, kv); err != nil {
		return fmt.Errorf("saving profile %q: %w", id, err)
	}
	return nil
}

// MemoryStore keeps profiles in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kv, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(kv), nil
}

func (m *MemoryStore) Save(_ context.Context, id string, kv map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[id] = maps.Clone(kv)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
