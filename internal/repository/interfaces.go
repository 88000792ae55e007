package repository

import (
	"context"
	"errors"

	"github.com/kitbuilder587/breachsearch/internal/domain"
)

// ProfileRepository - хранилище профилей (JSON-документы с балансом поисков)
type ProfileRepository interface {
	GetOrCreateByEmail(ctx context.Context, email string, freeSearches int) (*domain.User, *domain.Profile, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	// ConsumeSearchCredit атомарно увеличивает usedSearches на amount
	ConsumeSearchCredit(ctx context.Context, userID string, amount int) error
	AddCredits(ctx context.Context, userID string, amount int) error
}

// IsPermissionDenied - стор отказал по правам (RLS / grant)
func IsPermissionDenied(err error) bool {
	return errors.Is(err, domain.ErrPermissionDenied)
}
