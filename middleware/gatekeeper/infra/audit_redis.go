package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// RedisAuditStore registra eventos de estouro de limite em hashes redis,
// para auditoria externa. É um consumidor do ponto de extensão do limiter:
// registrar nunca altera a decisão, e erro aqui é best-effort.
type RedisAuditStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por IP.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackIPs bool
}

type RedisAuditOption func(*RedisAuditStore)

func WithAuditPrefix(prefix string) RedisAuditOption {
	return func(s *RedisAuditStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithAuditTTL(d time.Duration) RedisAuditOption {
	return func(s *RedisAuditStore) { s.ttl = d }
}

func WithAuditBucket(bucket string) RedisAuditOption {
	return func(s *RedisAuditStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

// WithAuditTrackIPs liga o detalhamento por IP.
// Cuidado com cardinalidade: uma chave por IP rejeitado.
func WithAuditTrackIPs(track bool) RedisAuditOption {
	return func(s *RedisAuditStore) { s.trackIPs = track }
}

func NewRedisAuditStore(rdb *redis.Client, opts ...RedisAuditOption) *RedisAuditStore {
	s := &RedisAuditStore{
		rdb:    rdb,
		prefix: "ratelimit:audit",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisAuditStore) Record(ctx context.Context, ev domain.RejectionEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := string(ev.Action)
	totalKey := s.prefix + ":total"

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackIPs {
		ip := strings.TrimSpace(ev.IP)
		if ip != "" {
			ipKey := s.prefix + ":ip:" + ip
			pipe.HIncrBy(ctx, ipKey, field, 1)
			pipe.HIncrBy(ctx, ipKey, "over_limit_by", ev.Count-ev.Limit)
			if s.ttl > 0 {
				pipe.Expire(ctx, ipKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Notifier adapta o store ao ponto de extensão do limiter; o registro usa um
// timeout curto próprio para nunca prender a requisição.
func (s *RedisAuditStore) Notifier() domain.Notifier {
	return func(ev domain.RejectionEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Record(ctx, ev)
	}
}
