package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	failureLimit  = 5
	failureWindow = 10 * time.Minute
)

// Throttle counts failed logins per account in redis. An account with five
// failures inside the window is blocked until the key expires.
type Throttle struct {
	rdb *redis.Client
}

func NewThrottle(rdb *redis.Client) *Throttle {
	return &Throttle{rdb: rdb}
}

func (t *Throttle) Blocked(ctx context.Context, login string) (bool, error) {
	n, err := t.rdb.Get(ctx, key(login)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= failureLimit, nil
}

func (t *Throttle) RecordFailure(ctx context.Context, login string) error {
	k := key(login)
	n, err := t.rdb.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return t.rdb.Expire(ctx, k, failureWindow).Err()
	}
	return nil
}

func (t *Throttle) Reset(ctx context.Context, login string) error {
	return t.rdb.Del(ctx, key(login)).Err()
}

func key(login string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(login))
}
