package persistence

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemorySessionStore implementa SessionStore usando memória RAM.
// Serve para uma única instância; com mais réplicas use o Redis.
type InMemorySessionStore struct {
	entries sync.Map // Map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemorySessionStore cria o store. ttl <= 0 desativa a expiração.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	return &InMemorySessionStore{ttl: ttl, now: time.Now}
}

func (s *InMemorySessionStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	val, ok := s.entries.Load(sessionKey(sessionID, key))
	if !ok {
		return nil, nil // Não encontrado (sem erro)
	}

	entry, ok := val.(memoryEntry)
	if !ok {
		return nil, errors.New("erro de tipo no store de sessão")
	}
	if s.expired(entry) {
		s.entries.Delete(sessionKey(sessionID, key))
		return nil, nil
	}
	return entry.value, nil
}

func (s *InMemorySessionStore) Set(_ context.Context, sessionID, key string, value []byte) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries.Store(sessionKey(sessionID, key), entry)
	return nil
}

func (s *InMemorySessionStore) Pop(_ context.Context, sessionID, key string) ([]byte, error) {
	val, ok := s.entries.LoadAndDelete(sessionKey(sessionID, key))
	if !ok {
		return nil, nil
	}

	entry, ok := val.(memoryEntry)
	if !ok {
		return nil, errors.New("erro de tipo no store de sessão")
	}
	if s.expired(entry) {
		return nil, nil
	}
	return entry.value, nil
}

// Cleanup remove entradas expiradas. Chamado periodicamente pelo main.
func (s *InMemorySessionStore) Cleanup() int {
	removed := 0
	s.entries.Range(func(k, v any) bool {
		if entry, ok := v.(memoryEntry); ok && s.expired(entry) {
			s.entries.Delete(k)
			removed++
		}
		return true
	})
	return removed
}

func (s *InMemorySessionStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// sessionKey monta a chave "session:<sid>:<key>", a mesma usada no Redis.
func sessionKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}
