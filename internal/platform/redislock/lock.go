package redislock

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/campussim-backend/internal/logger"
)

// TickLock guards against concurrent scheduler invocations. The core's
// window pending-to-complete transition is not an atomic claim, so the
// single-instance guarantee has to come from outside the tick; this is
// that guard.
type TickLock struct {
	log   *logger.Logger
	rdb   *goredis.Client
	key   string
	ttl   time.Duration
	token string
}

func NewTickLock(baseLog *logger.Logger, addr, key string, ttl time.Duration) (*TickLock, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if key == "" {
		key = "campussim:tick"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &TickLock{
		log: baseLog.With("platform", "redislock.TickLock"),
		rdb: rdb,
		key: key,
		ttl: ttl,
	}, nil
}

// Acquire attempts to take the lock. It returns false without error when
// another instance holds it.
func (l *TickLock) Acquire(ctx context.Context) (bool, error) {
	token := fmt.Sprintf("%d", time.Now().UnixNano())
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire tick lock: %w", err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release drops the lock if this instance still holds it.
func (l *TickLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	// Delete only our own token, so an expired-and-reacquired lock is
	// never released from under its new holder.
	const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
	err := l.rdb.Eval(ctx, script, []string{l.key}, l.token).Err()
	l.token = ""
	if err != nil && err != goredis.Nil {
		return fmt.Errorf("release tick lock: %w", err)
	}
	return nil
}

func (l *TickLock) Close() error {
	return l.rdb.Close()
}
