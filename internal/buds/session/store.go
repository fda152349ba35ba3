package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoSession is returned when no refresh token is stored for a user.
	ErrNoSession = errors.New("session: not found")

	// ErrUnavailable is returned when Redis cannot be reached. Callers must
	// fail closed on it: reject, never admit.
	ErrUnavailable = errors.New("session: store unavailable")
)

// Store holds each user's current refresh token and session version counter
// in Redis. It is the only cross-request state the auth core reads or
// writes; the single-session policy falls out of its overwrite semantics.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewStore wraps the given Redis client. prefix namespaces all keys so the
// instance can share a database with other services.
func NewStore(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) refreshKey(userID int) string {
	return s.prefix + ":refresh:" + strconv.Itoa(userID)
}

func (s *Store) versionKey(userID int) string {
	return s.prefix + ":version:" + strconv.Itoa(userID)
}

// SetRefreshToken unconditionally overwrites the stored refresh token.
// Overwriting is what invalidates the previous session's refresh token.
func (s *Store) SetRefreshToken(ctx context.Context, userID int, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.refreshKey(userID), token, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// GetRefreshToken returns the live refresh token for a user, or ErrNoSession
// when none is stored (never set, expired, or deleted on logout).
func (s *Store) GetRefreshToken(ctx context.Context, userID int) (string, error) {
	val, err := s.rdb.Get(ctx, s.refreshKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", unavailable(err)
	}
	return val, nil
}

// DeleteRefreshToken removes the stored refresh token. Deleting an absent
// key is a no-op success.
func (s *Store) DeleteRefreshToken(ctx context.Context, userID int) error {
	if err := s.rdb.Del(ctx, s.refreshKey(userID)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// GetVersion returns the user's current session version, 0 if never set.
func (s *Store) GetVersion(ctx context.Context, userID int) (int64, error) {
	val, err := s.rdb.Get(ctx, s.versionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, unavailable(err)
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session: corrupt version counter %q: %w", val, err)
	}
	return n, nil
}

// BumpVersion atomically increments the user's session version and returns
// the new value. INCR keeps this safe under concurrent logins from the same
// user, so no issued version is ever reused.
func (s *Store) BumpVersion(ctx context.Context, userID int) (int64, error) {
	n, err := s.rdb.Incr(ctx, s.versionKey(userID)).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

// DeleteAll clears every key under this store's prefix. Administrative and
// test use only.
func (s *Store) DeleteAll(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return unavailable(err)
		}
	}
	if err := iter.Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
