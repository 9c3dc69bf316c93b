package application

import (
	"time"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// BurstService concentra a regra do limitador local de rajada (a primeira
// linha de defesa, antes do pipeline de restrição).
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type BurstService struct {
	Store      domain.BurstStore
	RetryAfter time.Duration
}

func (s BurstService) Decide(key string) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil {
		return domain.Decision{Allowed: true}
	}
	if lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
