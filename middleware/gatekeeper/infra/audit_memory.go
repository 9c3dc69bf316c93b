package infra

import (
	"context"
	"sync"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// MemoryAuditStore é uma implementação simples em memória da auditoria de
// rejeições. Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryAuditStore struct {
	mu       sync.Mutex
	byAction map[domain.Action]int64
	byIP     map[string]int64
	events   []domain.RejectionEvent

	keepEvents bool
}

type MemoryAuditOption func(*MemoryAuditStore)

// WithKeepEvents retém os eventos individuais (além dos agregados).
func WithKeepEvents(keep bool) MemoryAuditOption {
	return func(s *MemoryAuditStore) { s.keepEvents = keep }
}

func NewMemoryAuditStore(opts ...MemoryAuditOption) *MemoryAuditStore {
	s := &MemoryAuditStore{
		byAction: make(map[domain.Action]int64),
		byIP:     make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryAuditStore) Record(_ context.Context, ev domain.RejectionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byAction[ev.Action]++
	s.byIP[ev.IP]++
	if s.keepEvents {
		s.events = append(s.events, ev)
	}
	return nil
}

func (s *MemoryAuditStore) ByAction() map[domain.Action]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Action]int64, len(s.byAction))
	for k, v := range s.byAction {
		out[k] = v
	}
	return out
}

func (s *MemoryAuditStore) ByIP() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byIP))
	for k, v := range s.byIP {
		out[k] = v
	}
	return out
}

func (s *MemoryAuditStore) Events() []domain.RejectionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RejectionEvent(nil), s.events...)
}

// Notifier adapta o store ao ponto de extensão do limiter.
func (s *MemoryAuditStore) Notifier() domain.Notifier {
	return func(ev domain.RejectionEvent) {
		_ = s.Record(context.Background(), ev)
	}
}
