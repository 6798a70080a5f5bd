package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

var _ Store = (*MemoryStore)(nil)

// NewMemory creates an in-memory session store.
func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Create(ctx context.Context, data Data) (string, error) {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memoryEntry{data: data, expiresAt: time.Now().Add(TTL)}
	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return nil, nil
	}

	entry.expiresAt = time.Now().Add(TTL)
	s.sessions[token] = entry

	data := entry.data
	return &data, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
