package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"safetrade/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const settingsKey = "settings:all:map"

// CacheService stores JSON values in redis. A nil *CacheService behaves as an always-empty cache.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) enabled() bool {
	return s != nil && s.client != nil
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if !s.enabled() {
		return nil
	}
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.enabled() {
		return false, nil
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.enabled() || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// cachedUser keeps the fields that the json view of models.User hides.
type cachedUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
	TokenVersion int    `json:"tokenVersion"`
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	entry := cachedUser{User: *user, PasswordHash: user.PasswordHash, TokenVersion: user.TokenVersion}
	return s.Set(ctx, s.GenerateKey("user", "id", user.ID), entry)
}

func (s *CacheService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var entry cachedUser
	found, err := s.Get(ctx, s.GenerateKey("user", "id", id), &entry)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	user := entry.User
	user.PasswordHash = entry.PasswordHash
	user.TokenVersion = entry.TokenVersion
	return &user, nil
}

// Invalidation patterns
func (s *CacheService) InvalidateUser(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, s.GenerateKey("user", "id", id))
}

// Settings caching
func (s *CacheService) CacheSettings(ctx context.Context, settings map[string]string) error {
	return s.Set(ctx, settingsKey, settings)
}

func (s *CacheService) GetSettings(ctx context.Context) (map[string]string, error) {
	var settings map[string]string
	found, err := s.Get(ctx, settingsKey, &settings)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return settings, nil
}

func (s *CacheService) InvalidateSettings(ctx context.Context) error {
	return s.Delete(ctx, settingsKey)
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	if !s.enabled() {
		return nil
	}
	return s.client.Close()
}
