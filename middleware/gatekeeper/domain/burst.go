package domain

// Contratos do limitador local de rajada (primeira linha de defesa, em
// memória, na frente do pipeline). Distinto do CounterStore: aqui a decisão é
// local ao processo e não conta janelas fixas por ação.

import "time"

// BurstLimiter representa algo que pode decidir se uma ação é permitida agora.
//
// Observação: a implementação pode ser token-bucket, leaky-bucket, etc.
// A camada de infra usa golang.org/x/time/rate.
type BurstLimiter interface {
	Allow() bool
}

// BurstStore obtém um limitador por chave (ex: IP).
// A implementação pode manter cache, TTL, etc.
type BurstStore interface {
	Get(key string) BurstLimiter
}

// Decision é o resultado de uma checagem de rajada.
type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
