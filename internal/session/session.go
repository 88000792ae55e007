package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Store - сессии: токен из cookie -> user id
type Store interface {
	Create(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

const DefaultTTL = 24 * time.Hour

func newToken() string {
	return uuid.NewString()
}
