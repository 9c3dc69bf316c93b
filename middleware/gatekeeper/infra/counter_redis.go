package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore implementa domain.CounterStore sobre redis.
//
// O INCR do redis é o primitivo atômico do qual o limiter depende; aqui não
// há cache local nem retry: cada chamada é uma ida única ao servidor.
type RedisCounterStore struct {
	rdb *redis.Client
}

func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb}
}

// DialCounterStore conecta (com credenciais opcionais) e valida a conexão com
// um ping. Erro aqui deve levar o chamador a operar sem limiter (fail open),
// nunca a derrubar o processo.
func DialCounterStore(ctx context.Context, addr, password string, db int) (*RedisCounterStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("counter store ping: %w", err)
	}
	return &RedisCounterStore{rdb: rdb}, nil
}

func (s *RedisCounterStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisCounterStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("counter store exists: %w", err)
	}
	return n > 0, nil
}

func (s *RedisCounterStore) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("counter store set: %w", err)
	}
	return nil
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("counter store incr: %w", err)
	}
	return n, nil
}
