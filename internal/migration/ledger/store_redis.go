package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vowcraft/internal/migration"
	id "vowcraft/pkg/domain"
)

// Redis key prefix for ledger entries
const ledgerKeyPrefix = "migration:ledger:"

// DefaultTTL approximates the session scope of the ledger: long enough to
// outlive the window reset check, short enough that stale identities age out.
const DefaultTTL = 12 * time.Hour

// ledgerRecord is the wire shape stored in Redis. Timestamps are epoch
// milliseconds so entries stay readable from redis-cli.
type ledgerRecord struct {
	Attempts      int   `json:"attempts"`
	LastAttemptMS int64 `json:"last_attempt_ms"`
	Failed        bool  `json:"failed"`
}

// RedisStore is the production Store for multi-instance deployments: any
// instance handling the user's next sync sees the same attempt count.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedis constructs a Redis-backed ledger store.
func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

func (s *RedisStore) Read(ctx context.Context, userID id.UserID) (migration.LedgerEntry, error) {
	raw, err := s.client.Get(ctx, ledgerKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return migration.LedgerEntry{}, nil
	}
	if err != nil {
		return migration.LedgerEntry{}, fmt.Errorf("read ledger entry: %w", err)
	}

	var record ledgerRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		// An unreadable entry is treated as absent rather than poisoning
		// every future migration for this user.
		return migration.LedgerEntry{}, nil
	}
	return migration.LedgerEntry{
		Attempts:    record.Attempts,
		LastAttempt: time.UnixMilli(record.LastAttemptMS),
		Failed:      record.Failed,
	}, nil
}

func (s *RedisStore) Write(ctx context.Context, userID id.UserID, entry migration.LedgerEntry) error {
	raw, err := json.Marshal(ledgerRecord{
		Attempts:      entry.Attempts,
		LastAttemptMS: entry.LastAttempt.UnixMilli(),
		Failed:        entry.Failed,
	})
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}
	if err := s.client.Set(ctx, ledgerKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("write ledger entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID id.UserID) error {
	if err := s.client.Del(ctx, ledgerKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear ledger entry: %w", err)
	}
	return nil
}

func ledgerKey(userID id.UserID) string {
	return ledgerKeyPrefix + userID.String()
}
