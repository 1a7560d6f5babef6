package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeTTL   = 15 * time.Minute
	keyPrefix = "verify:"
)

var (
	ErrCodeMismatch = errors.New("verification code does not match")
	ErrCodeNotFound = errors.New("no verification code pending for this email")
)

// Store keeps pending email verification codes in redis with a TTL, so
// codes survive process restarts and expire without a sweeper.
type Store struct {
	redis *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{redis: rdb}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue creates a fresh 6-digit code for the email, replacing any
// previous one, and returns it.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, keyPrefix+email, code, codeTTL).Err(); err != nil {
		return "", err
	}

	return code, nil
}

// Verify consumes the pending code for the email. A successful match
// deletes the code so it cannot be replayed.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.redis.Get(ctx, keyPrefix+email).Result()
	if err == redis.Nil {
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}

	if stored != code {
		return ErrCodeMismatch
	}

	return s.redis.Del(ctx, keyPrefix+email).Err()
}
