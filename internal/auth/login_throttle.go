package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrLoginRateLimited = errors.New("too many login attempts, try again later")
	ErrLoginLocked      = errors.New("account temporarily locked")
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// LoginThrottle limits login attempts per ip+username and locks a username
// after repeated failures. Redis outages fail open.
type LoginThrottle struct {
	redis         redis.UniversalClient
	ratePerHour   int
	lockThreshold int
	lockTTL       time.Duration
	now           func() time.Time
}

func NewLoginThrottle(client redis.UniversalClient, ratePerHour, lockThreshold int, lockTTL time.Duration) *LoginThrottle {
	return &LoginThrottle{
		redis:         client,
		ratePerHour:   ratePerHour,
		lockThreshold: lockThreshold,
		lockTTL:       lockTTL,
		now:           time.Now,
	}
}

// Allow counts an attempt and returns ErrLoginRateLimited or ErrLoginLocked when it must be refused.
func (t *LoginThrottle) Allow(ctx context.Context, ip, username string) error {
	name := normalizeUsername(username)

	rateKey := "rate:login:" + ip + ":" + name + ":" + t.now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, t.redis, rateKey, time.Hour)
	if err != nil {
		count = 0
	}
	if count > int64(t.ratePerHour) {
		return ErrLoginRateLimited
	}

	if ttl, _ := t.redis.TTL(ctx, lockKey(name)).Result(); ttl > 0 {
		return ErrLoginLocked
	}
	return nil
}

// Failed records a failed attempt and locks the username once the threshold is reached.
func (t *LoginThrottle) Failed(ctx context.Context, username string) error {
	name := normalizeUsername(username)
	count, err := incrWithTTL(ctx, t.redis, failKey(name), t.lockTTL)
	if err != nil {
		return err
	}
	if count >= int64(t.lockThreshold) {
		return t.redis.Set(ctx, lockKey(name), "1", t.lockTTL).Err()
	}
	return nil
}

// Succeeded clears the failure counter.
func (t *LoginThrottle) Succeeded(ctx context.Context, username string) {
	_ = t.redis.Del(ctx, failKey(normalizeUsername(username))).Err()
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func lockKey(name string) string { return "lock:login:" + name }
func failKey(name string) string { return "lock:login:fail:" + name }
