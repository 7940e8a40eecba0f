package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another holder owns the key.
var ErrLockHeld = errors.New("lock is held by another owner")

// Only the owner token may delete the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out expiring, owner-checked locks.
type Locker struct {
	rdb    redis.Cmdable
	prefix string
}

func NewLocker(rdb redis.Cmdable, prefix string) *Locker {
	return &Locker{rdb: rdb, prefix: prefix}
}

// Lock is a held lock. Release is safe to call more than once.
type Lock struct {
	rdb   redis.Cmdable
	key   string
	token string
}

// Acquire takes key for ttl or returns ErrLockHeld.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return &Lock{rdb: l.rdb, key: fullKey, token: token}, nil
}

func (lk *Lock) Release(ctx context.Context) error {
	if lk == nil {
		return nil
	}
	return releaseScript.Run(ctx, lk.rdb, []string{lk.key}, lk.token).Err()
}
