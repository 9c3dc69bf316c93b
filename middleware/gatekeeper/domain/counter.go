package domain

import (
	"context"
	"time"
)

// CounterStore é o protocolo mínimo do armazém externo de contadores
// (na prática, redis: EXISTS/SET com TTL/INCR).
//
// O sistema nunca guarda contagens localmente: toda checagem/incremento é uma
// ida ao armazém. O INCR precisa ser atômico no próprio armazém: o limiter
// não implementa check-then-set por conta própria.
type CounterStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value int64, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// RejectionEvent descreve um estouro de limite, para auditoria externa.
type RejectionEvent struct {
	IP     string
	Action Action
	Count  int64
	Limit  int64
	Period time.Duration
	At     time.Time
}

// Notifier é o ponto de extensão disparado a cada estouro de limite.
// Não pode alterar a decisão; erros/panics dele não são do interesse do limiter.
type Notifier func(RejectionEvent)

// AuditStore é a estratégia de persistência para eventos de rejeição.
//
// Implementações podem armazenar em redis, memória, etc. O consumidor deve
// tratar erro como best-effort (não derrubar a requisição).
type AuditStore interface {
	Record(ctx context.Context, ev RejectionEvent) error
}
