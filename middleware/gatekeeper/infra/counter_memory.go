package infra

import (
	"context"
	"sync"
	"time"
)

// MemoryCounterStore implementa domain.CounterStore em memória, com a mesma
// semântica de expiração do redis (chave some ao vencer o TTL; INCR em chave
// ausente cria com 1 e sem TTL).
//
// Útil para testes e para implantações de processo único em desenvolvimento.
// Não serve para produção distribuída: a contagem não é compartilhada.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*counterEntry
	now     func() time.Time
}

type counterEntry struct {
	count     int64
	expiresAt time.Time // zero = sem expiração
}

type MemoryCounterOption func(*MemoryCounterStore)

// WithClock injeta o relógio (testes de expiração sem sleep).
func WithClock(now func() time.Time) MemoryCounterOption {
	return func(s *MemoryCounterStore) { s.now = now }
}

func NewMemoryCounterStore(opts ...MemoryCounterOption) *MemoryCounterStore {
	s := &MemoryCounterStore{
		entries: make(map[string]*counterEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// alive devolve a entrada viva, descartando-a preguiçosamente se expirou.
// Requer s.mu.
func (s *MemoryCounterStore) alive(key string) *counterEntry {
	ent, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !ent.expiresAt.IsZero() && !s.now().Before(ent.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return ent
}

func (s *MemoryCounterStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive(key) != nil, nil
}

func (s *MemoryCounterStore) Set(_ context.Context, key string, value int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent := &counterEntry{count: value}
	if ttl > 0 {
		ent.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = ent
	return nil
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent := s.alive(key)
	if ent == nil {
		ent = &counterEntry{}
		s.entries[key] = ent
	}
	ent.count++
	return ent.count, nil
}

// Cleanup descarta entradas expiradas. Opcional: a expiração preguiçosa já
// mantém a semântica; isto só poupa memória em processos longos.
func (s *MemoryCounterStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, ent := range s.entries {
		if !ent.expiresAt.IsZero() && !now.Before(ent.expiresAt) {
			delete(s.entries, k)
		}
	}
}
