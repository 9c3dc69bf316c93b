package application

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// Rate limiter distribuído: contadores por (site, ação, IP) com janela fixa
// no armazém externo. Nenhuma contagem vive no processo; cada checagem é uma
// ida síncrona ao armazém, uma única tentativa, sem retry.
//
// Falha do armazém (na subida ou em voo) desliga o limiter pelo resto da vida
// do processo: rate limiting nunca pode virar indisponibilidade dura.

// LimitConfig é o par (janela, teto) de uma classe de ação.
// Janela ou teto não-positivos desabilitam a classe (fail open).
type LimitConfig struct {
	Period time.Duration
	Limit  int64
}

// Defaults por classe de ação.
var (
	DefaultViewLimit   = LimitConfig{Period: 86400 * time.Second, Limit: 100}
	DefaultSearchLimit = LimitConfig{Period: 3600 * time.Second, Limit: 10}
)

// Limiter decide, por requisição aplicável, entre Allowed e Limited.
type Limiter struct {
	store  domain.CounterStore
	siteID string

	view   LimitConfig
	search LimitConfig

	notifiers []domain.Notifier
	log       zerolog.Logger

	disabled atomic.Bool
}

type LimiterOption func(*Limiter)

// WithViewLimit sobrepõe o par (janela, teto) da classe view.
func WithViewLimit(cfg LimitConfig) LimiterOption {
	return func(l *Limiter) { l.view = cfg }
}

// WithSearchLimit sobrepõe o par (janela, teto) da classe search.
func WithSearchLimit(cfg LimitConfig) LimiterOption {
	return func(l *Limiter) { l.search = cfg }
}

// WithNotifier registra um callback disparado a cada estouro de limite.
// O callback não altera a decisão.
func WithNotifier(n domain.Notifier) LimiterOption {
	return func(l *Limiter) { l.notifiers = append(l.notifiers, n) }
}

func WithLimiterLogger(log zerolog.Logger) LimiterOption {
	return func(l *Limiter) { l.log = log }
}

// NewLimiter constrói o limiter. store == nil significa armazém não
// configurado: todas as chamadas viram no-op (Allowed).
func NewLimiter(store domain.CounterStore, siteID string, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		store:  store,
		siteID: siteID,
		view:   DefaultViewLimit,
		search: DefaultSearchLimit,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Disabled informa se o limiter se desligou após falha do armazém.
func (l *Limiter) Disabled() bool {
	return l.disabled.Load()
}

// Key monta a chave do contador: hash(site) : ratelimit : ação : ip.
func (l *Limiter) Key(action domain.Action, ip string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(l.siteID))
	return fmt.Sprintf("%x:ratelimit:%s:%s", h.Sum32(), action, ip)
}

func (l *Limiter) config(action domain.Action) LimitConfig {
	if action == domain.ActionView {
		return l.view
	}
	return l.search
}

// Apply executa a máquina NotApplicable → Checked → {Allowed, Limited}.
//
// Semântica exigida no armazém: chave ausente → SET(1, TTL=janela) (primeiro
// hit); presente → INCR atômico e comparação. O incremento acontece
// exatamente uma vez por requisição aplicável. O par EXISTS/SET do primeiro
// hit não é atômico com o INCR; corrida tolerada: múltiplos SET iniciais
// colapsam em contagem 1 e só afetam o primeiro hit da janela, nunca a
// fronteira do limite.
func (l *Limiter) Apply(ctx context.Context, rc *domain.RequestContext) {
	if l == nil || l.store == nil || l.disabled.Load() {
		return
	}
	if rc.Action != domain.ActionView && rc.Action != domain.ActionSearch {
		return
	}
	if rc.ClientIP == "" {
		return
	}

	cfg := l.config(rc.Action)
	if cfg.Period <= 0 || cfg.Limit <= 0 {
		return
	}

	key := l.Key(rc.Action, rc.ClientIP)

	exists, err := l.store.Exists(ctx, key)
	if err != nil {
		l.failOpen(err)
		return
	}

	if !exists {
		if err := l.store.Set(ctx, key, 1, cfg.Period); err != nil {
			l.failOpen(err)
		}
		return
	}

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		l.failOpen(err)
		return
	}

	if count <= cfg.Limit {
		return
	}

	// Limited: 429 sobrepõe um eventual estado de prioridade menor; a busca
	// rejeitada não pode executar.
	rc.OverrideError(429)
	rc.RetryAfter = cfg.Period
	if rc.Action == domain.ActionSearch {
		rc.ClearCriteria()
	}

	ev := domain.RejectionEvent{
		IP:     rc.ClientIP,
		Action: rc.Action,
		Count:  count,
		Limit:  cfg.Limit,
		Period: cfg.Period,
		At:     time.Now(),
	}
	for _, notify := range l.notifiers {
		notify(ev)
	}
}

// failOpen desliga o limiter pelo resto da vida do processo. O erro é logado
// pelo host e nunca chega ao cliente.
func (l *Limiter) failOpen(err error) {
	if l.disabled.CompareAndSwap(false, true) {
		l.log.Error().Err(err).Msg("counter store unavailable, rate limiting disabled (fail open)")
	}
}
