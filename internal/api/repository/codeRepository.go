package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeRepository stores bcrypt hashes of confirmation codes. The TTL is the
// expiry authority; re-saving overwrites, so at most one code is live per
// user at any time.
type CodeRepository interface {
	Save(ctx context.Context, userID, codeHash string) error
	// Get returns the stored hash, or "" when no live code exists.
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type codeRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCodeRepository(client *redis.Client, ttl time.Duration) CodeRepository {
	return &codeRepository{client: client, ttl: ttl}
}

func codeKey(userID string) string {
	return fmt.Sprintf("confirmation_code:user:%s", userID)
}

func (r *codeRepository) Save(ctx context.Context, userID, codeHash string) error {
	if err := r.client.Set(ctx, codeKey(userID), codeHash, r.ttl).Err(); err != nil {
		return fmt.Errorf("save confirmation code: %w", err)
	}
	return nil
}

func (r *codeRepository) Get(ctx context.Context, userID string) (string, error) {
	hash, err := r.client.Get(ctx, codeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get confirmation code: %w", err)
	}
	return hash, nil
}

func (r *codeRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, codeKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete confirmation code: %w", err)
	}
	return nil
}
