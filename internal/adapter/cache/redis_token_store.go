package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gauss2302/jobhub/internal/domain"
	"github.com/gauss2302/jobhub/internal/repository"
)

// RedisTokenStore implements RefreshTokenStore. Only a SHA-256 hash of the
// refresh token ever touches Redis; the raw token lives client-side.
//
// Key layout:
//
//	refresh_token:user:<id>:web            state for the browser session
//	refresh_token:user:<id>:device:<dev>   state for a named device
//	token_hash:<hash>                      reverse index hash -> state key
//	blacklist:<hash>                       rotated-out tokens, TTL-bounded
type RedisTokenStore struct {
	client redis.UniversalClient
}

var _ repository.RefreshTokenStore = (*RedisTokenStore)(nil)

// NewRedisTokenStore constructs a Redis-backed refresh-token store.
func NewRedisTokenStore(client redis.UniversalClient) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func stateKey(userID int64, deviceID string) string {
	if deviceID == "" {
		return fmt.Sprintf("refresh_token:user:%d:web", userID)
	}
	return fmt.Sprintf("refresh_token:user:%d:device:%s", userID, deviceID)
}

// Store records the hash of a freshly issued refresh token. Any previous
// token for the same user/device slot is replaced.
func (s *RedisTokenStore) Store(ctx context.Context, userID int64, deviceID, token string, ttl time.Duration) error {
	hash := hashToken(token)
	now := time.Now().UTC()
	state := domain.RefreshTokenState{
		TokenHash: hash,
		UserID:    userID,
		DeviceID:  deviceID,
		CreatedAt: now,
		LastUsed:  now,
		IsActive:  true,
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal token state: %w", err)
	}

	key := stateKey(userID, deviceID)

	// Drop the reverse index of the token being replaced, if any.
	if prev, err := s.load(ctx, key); err != nil {
		return err
	} else if prev != nil {
		if err := s.client.Del(ctx, "token_hash:"+prev.TokenHash).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("drop stale index: %w", err)
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, payload, ttl)
	pipe.Set(ctx, "token_hash:"+hash, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist token state: %w", err)
	}
	return nil
}

// IsActive reports whether token is the current refresh token for the
// user/device slot. A match refreshes the last-used timestamp.
func (s *RedisTokenStore) IsActive(ctx context.Context, userID int64, deviceID, token string) (bool, error) {
	key := stateKey(userID, deviceID)
	state, err := s.load(ctx, key)
	if err != nil {
		return false, err
	}
	if state == nil || !state.IsActive || state.TokenHash != hashToken(token) {
		return false, nil
	}

	state.LastUsed = time.Now().UTC()
	payload, err := json.Marshal(state)
	if err != nil {
		return false, fmt.Errorf("marshal token state: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, redis.KeepTTL).Err(); err != nil {
		return false, fmt.Errorf("touch token state: %w", err)
	}
	return true, nil
}

// Revoke removes the tracked token for one user/device slot.
func (s *RedisTokenStore) Revoke(ctx context.Context, userID int64, deviceID string) error {
	key := stateKey(userID, deviceID)
	state, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	keys := []string{key}
	if state != nil {
		keys = append(keys, "token_hash:"+state.TokenHash)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAll removes every tracked refresh token for a user and returns how
// many sessions were dropped.
func (s *RedisTokenStore) RevokeAll(ctx context.Context, userID int64) (int, error) {
	pattern := fmt.Sprintf("refresh_token:user:%d:*", userID)
	var (
		cursor  uint64
		revoked int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return revoked, fmt.Errorf("scan tokens: %w", err)
		}
		for _, key := range keys {
			state, err := s.load(ctx, key)
			if err != nil {
				return revoked, err
			}
			del := []string{key}
			if state != nil {
				del = append(del, "token_hash:"+state.TokenHash)
			}
			if err := s.client.Del(ctx, del...).Err(); err != nil && err != redis.Nil {
				return revoked, fmt.Errorf("revoke token: %w", err)
			}
			revoked++
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return revoked, nil
}

// Blacklist marks a rotated-out token as unusable for the remainder of its
// lifetime.
func (s *RedisTokenStore) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, "blacklist:"+hashToken(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token was rotated out or revoked.
func (s *RedisTokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, "blacklist:"+hashToken(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

func (s *RedisTokenStore) load(ctx context.Context, key string) (*domain.RefreshTokenState, error) {
	bytes, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load token state: %w", err)
	}
	var state domain.RefreshTokenState
	if err := json.Unmarshal(bytes, &state); err != nil {
		return nil, fmt.Errorf("decode token state: %w", err)
	}
	return &state, nil
}
