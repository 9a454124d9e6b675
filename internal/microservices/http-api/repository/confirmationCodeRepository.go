package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConfirmationCodeRepository keeps at most one pending confirmation code hash per user.
type ConfirmationCodeRepository interface {
	// Save stores hash for the user, replacing any earlier code.
	Save(ctx context.Context, userID, hash string, ttl time.Duration) error
	// Get returns the pending hash or ErrNotFound.
	Get(ctx context.Context, userID string) (string, error)
	// Consume deletes the code only if it still holds hash. It returns ErrNotFound
	// when the code was already used, rotated or expired.
	Consume(ctx context.Context, userID, hash string) error
}

// compare-and-delete keeps a code single use across concurrent exchanges
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type CodeRedisRepo struct {
	client *redis.Client
}

func NewCodeRedisRepo(client *redis.Client) *CodeRedisRepo {
	return &CodeRedisRepo{client: client}
}

func codeKey(userID string) string {
	return fmt.Sprintf("confirmation:user:%s", userID)
}

func (r *CodeRedisRepo) Save(ctx context.Context, userID, hash string, ttl time.Duration) error {
	return r.client.Set(ctx, codeKey(userID), hash, ttl).Err()
}

func (r *CodeRedisRepo) Get(ctx context.Context, userID string) (string, error) {
	hash, err := r.client.Get(ctx, codeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (r *CodeRedisRepo) Consume(ctx context.Context, userID, hash string) error {
	deleted, err := consumeScript.Run(ctx, r.client, []string{codeKey(userID)}, hash).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
