package redis

import (
	"context"
	"errors"
	"time"

	"userbot/internal/codec"
	"userbot/internal/repository"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces session keys
const KeyPrefix = "userbot:session:"

// SessionRepo implements repository.SessionRepository on a single redis key
type SessionRepo struct {
	rdb redis.Cmdable
	key string
	now func() time.Time
}

// NewSessionRepo creates a new session repository for the named session
func NewSessionRepo(rdb redis.Cmdable, name string) *SessionRepo {
	return &SessionRepo{rdb: rdb, key: KeyPrefix + name, now: time.Now}
}

// Location returns the redis key
func (r *SessionRepo) Location() string {
	return "redis:" + r.key
}

// Load returns the stored session blob
func (r *SessionRepo) Load(ctx context.Context) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return codec.Open(data)
}

// Save stores the session blob without expiry. SET replaces the value
// atomically.
func (r *SessionRepo) Save(ctx context.Context, blob []byte) error {
	data, err := codec.Seal(blob, r.now())
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key, data, 0).Err()
}
