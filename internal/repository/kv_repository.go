package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

// RedisStore keeps client-local state (session token, capture draft) in Redis
// so several console instances can share one operator session.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore constructs a Redis-backed store. A zero ttl keeps keys forever.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Get returns the raw value stored under key.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrStoreMiss
	}
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set stores value under key.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisStore) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// KeyValue is the byte-level store shared by the session and the drafts.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DraftKey is the client-local storage key of the unsent capture form.
const DraftKey = "permitDraft"

// DraftRepository persists the capture draft as JSON over any KeyValue store.
type DraftRepository struct {
	store KeyValue
}

// NewDraftRepository wraps store.
func NewDraftRepository(store KeyValue) *DraftRepository {
	return &DraftRepository{store: store}
}

// Load unmarshals the saved draft into dest; a missing draft returns ErrStoreMiss.
func (r *DraftRepository) Load(ctx context.Context, dest interface{}) error {
	raw, err := r.store.Get(ctx, DraftKey)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal draft: %w", err)
	}
	return nil
}

// Save marshals value as the current draft.
func (r *DraftRepository) Save(ctx context.Context, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return r.store.Set(ctx, DraftKey, payload)
}

// Clear removes the draft.
func (r *DraftRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, DraftKey)
}
