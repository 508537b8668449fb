package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConnection struct {
	Client *redis.Client
}

func NewRedisConnection(ctx context.Context, addr, password string, db int) (*RedisConnection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisConnection{Client: client}, nil
}

func MustNewRedisConnection(ctx context.Context, addr, password string, db int) *RedisConnection {
	conn, err := NewRedisConnection(ctx, addr, password, db)
	if err != nil {
		panic(err)
	}

	return conn
}

func (s *RedisConnection) MustClose() {
	if err := s.Client.Close(); err != nil {
		panic(fmt.Errorf("close redis connection: %w", err))
	}
}

// Ping reports whether the redis ledger answers.
func (s *RedisConnection) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
