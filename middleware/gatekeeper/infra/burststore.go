package infra

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// TokenBucketStore é o limitador local de rajada: token-bucket (x/time/rate)
// por chave, com cache e limpeza periódica. Primeira linha de defesa na
// frente do pipeline de restrição: não substitui o limiter distribuído, só
// amortece rajadas antes de qualquer ida ao redis.
type TokenBucketStore struct {
	mu           sync.Mutex
	entries      map[string]*bucketEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type bucketEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type BucketOption func(*TokenBucketStore)

func WithIdleTTL(d time.Duration) BucketOption {
	return func(s *TokenBucketStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) BucketOption {
	return func(s *TokenBucketStore) { s.cleanupEvery = d }
}

func NewTokenBucketStore(rps float64, burst int, opts ...BucketOption) *TokenBucketStore {
	s := &TokenBucketStore{
		entries:      make(map[string]*bucketEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenBucketStore) RPS() float64                { return float64(s.rps) }
func (s *TokenBucketStore) Burst() int                  { return s.burst }
func (s *TokenBucketStore) CleanupEvery() time.Duration { return s.cleanupEvery }

// Get implementa domain.BurstStore.
func (s *TokenBucketStore) Get(key string) domain.BurstLimiter {
	return s.GetLimiter(key)
}

func (s *TokenBucketStore) GetLimiter(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &bucketEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *TokenBucketStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *TokenBucketStore) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar
// context aqui. (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}
