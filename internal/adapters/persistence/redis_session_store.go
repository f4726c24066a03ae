package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSessionStore implementa SessionStore sobre o Redis, permitindo
// várias instâncias da API atrás de um balanceador.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient abre o cliente e confirma a conexão com PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set grava o valor e renova o TTL da chave.
func (s *RedisSessionStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	return s.client.Set(ctx, sessionKey(sessionID, key), value, s.ttl).Err()
}

// Pop lê e apaga na mesma transação (MULTI/EXEC).
func (s *RedisSessionStore) Pop(ctx context.Context, sessionID, key string) ([]byte, error) {
	k := sessionKey(sessionID, key)

	var get *redis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, k)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	data, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
