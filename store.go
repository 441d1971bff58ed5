package megasena

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// MemoryGameSetStore keeps game sets in process memory. Sets are copied on Save and
// on Load, so callers never share the stored games.
type MemoryGameSetStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	gs        *GameSet
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryGameSetStore creates an in-memory store. A ttl <= 0 keeps sets until deleted.
func NewMemoryGameSetStore(ttl time.Duration) *MemoryGameSetStore {
	return &MemoryGameSetStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Save implements GameSetStore
func (s *MemoryGameSetStore) Save(ctx context.Context, sessionID string, gs *GameSet) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	if gs == nil {
		return ErrStoreFailure.WithDetails("nil game set")
	}

	entry := memoryEntry{gs: gs.Clone()}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = entry
	return nil
}

// Load implements GameSetStore
func (s *MemoryGameSetStore) Load(ctx context.Context, sessionID string) (*GameSet, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrGameSetNotFound.WithDetails("session %s", sessionID)
	}

	now := s.now()
	if !entry.expired(now) {
		return entry.gs.Clone(), nil
	}

	// 重新读取: 两次加锁之间可能有新的 Save
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok = s.entries[sessionID]
	if ok && !entry.expired(now) {
		return entry.gs.Clone(), nil
	}
	if ok {
		delete(s.entries, sessionID)
	}
	return nil, ErrGameSetNotFound.WithDetails("session %s expired", sessionID)
}

// Delete implements GameSetStore
func (s *MemoryGameSetStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// ================================================================================

// RedisGameSetStore keeps game sets in Redis as JSON with a TTL
type RedisGameSetStore struct {
	redisClient *redis.Client
	logger      Logger
	keyPrefix   string
	ttl         time.Duration
	maxBytes    int
}

// NewRedisGameSetStore creates a Redis backed store with default settings
func NewRedisGameSetStore(redisClient *redis.Client, logger Logger) *RedisGameSetStore {
	return NewRedisGameSetStoreFromConfig(redisClient, DefaultStoreConfig(), logger)
}

// NewRedisGameSetStoreFromConfig creates a Redis backed store from the store section of the config
func NewRedisGameSetStoreFromConfig(redisClient *redis.Client, config *StoreConfig, logger Logger) *RedisGameSetStore {
	if config == nil {
		config = DefaultStoreConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = GameSetKeyPrefix
	}
	maxBytes := config.MaxSerializedBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSerializedBytes
	}

	return &RedisGameSetStore{
		redisClient: redisClient,
		logger:      logger,
		keyPrefix:   prefix,
		ttl:         config.TTL,
		maxBytes:    maxBytes,
	}
}

func (s *RedisGameSetStore) key(sessionID string) string { return s.keyPrefix + sessionID }

// Save implements GameSetStore
func (s *RedisGameSetStore) Save(ctx context.Context, sessionID string, gs *GameSet) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	if gs == nil {
		return ErrStoreFailure.WithDetails("nil game set")
	}

	data, err := json.Marshal(gs)
	if err != nil {
		return ErrStoreFailure.WithDetails("serialize game set").WithCause(err)
	}
	if len(data) > s.maxBytes {
		return ErrGameSetTooLarge.WithDetails(
			"serialized game set is %d bytes, limit %d: session=%s, games=%d",
			len(data), s.maxBytes, sessionID, len(gs.Games))
	}

	if err := s.redisClient.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to save game set: session=%s, error=%v", sessionID, err)
		return ErrStoreFailure.WithOperation("save").WithCause(err)
	}

	s.logger.Debug("Saved game set: session=%s, games=%d, bytes=%d", sessionID, len(gs.Games), len(data))
	return nil
}

// Load implements GameSetStore
func (s *RedisGameSetStore) Load(ctx context.Context, sessionID string) (*GameSet, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	data, err := s.redisClient.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameSetNotFound.WithDetails("session %s", sessionID)
		}
		s.logger.Error("Failed to load game set: session=%s, error=%v", sessionID, err)
		return nil, ErrStoreFailure.WithOperation("load").WithCause(err)
	}

	gs := &GameSet{}
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, ErrStoreFailure.WithDetails("corrupted game set for session %s", sessionID).WithCause(err)
	}
	return gs, nil
}

// Delete implements GameSetStore
func (s *RedisGameSetStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}

	if err := s.redisClient.Del(ctx, s.key(sessionID)).Err(); err != nil {
		s.logger.Error("Failed to delete game set: session=%s, error=%v", sessionID, err)
		return ErrStoreFailure.WithOperation("delete").WithCause(err)
	}
	return nil
}
