// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/domain"
	"github.com/endulce/veci/internal/log"
)

// RedisStore is the durable Store implementation. Keys:
//
//	session:{user}:state    string
//	session:{user}:cart     JSON document
//	session:{user}:history  list of JSON turns
//
// Every write refreshes the TTL on the key it touches.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: redis connection failed: %w", err)
	}

	logger := log.WithComponent("session")
	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("connected to Redis session store")

	return &RedisStore{client: client, ttl: ttl, logger: logger}, nil
}

// newRedisStoreFromClient exists for tests running against miniredis.
func newRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: zerolog.Nop()}
}

func stateKey(user string) string   { return "session:" + user + ":state" }
func cartKey(user string) string    { return "session:" + user + ":cart" }
func historyKey(user string) string { return "session:" + user + ":history" }

func (s *RedisStore) State(ctx context.Context, user string) (domain.State, error) {
	val, err := s.client.Get(ctx, stateKey(user)).Result()
	if err == redis.Nil {
		return domain.StateIdle, nil
	}
	if err != nil {
		return domain.StateIdle, fmt.Errorf("session: get state: %w", err)
	}
	return domain.ParseState(val), nil
}

func (s *RedisStore) SetState(ctx context.Context, user string, state domain.State) error {
	if err := s.client.Set(ctx, stateKey(user), string(state), s.ttl).Err(); err != nil {
		return fmt.Errorf("session: set state: %w", err)
	}
	return nil
}

func (s *RedisStore) Cart(ctx context.Context, user string) (domain.Cart, error) {
	val, err := s.client.Get(ctx, cartKey(user)).Bytes()
	if err == redis.Nil {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("session: get cart: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(val, &cart); err != nil {
		// A corrupt cart is unrecoverable; start over rather than fail the turn.
		s.logger.Warn().Err(err).Str(log.FieldUser, log.MaskUser(user)).Msg("corrupt cart in store, resetting")
		return domain.Cart{}, nil
	}
	return cart, nil
}

func (s *RedisStore) SetCart(ctx context.Context, user string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("session: marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(user), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: set cart: %w", err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, user string) ([]domain.Turn, error) {
	vals, err := s.client.LRange(ctx, historyKey(user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("session: get history: %w", err)
	}
	turns := make([]domain.Turn, 0, len(vals))
	for _, v := range vals {
		var t domain.Turn
		if err := json.Unmarshal([]byte(v), &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisStore) AppendHistory(ctx context.Context, user string, turns ...domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	payloads := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("session: marshal turn: %w", err)
		}
		payloads = append(payloads, data)
	}

	key := historyKey(user)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payloads...)
	pipe.LTrim(ctx, key, -HistoryLimit, -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: append history: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, user string) error {
	if err := s.client.Del(ctx, stateKey(user), cartKey(user), historyKey(user)).Err(); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
