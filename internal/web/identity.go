package web

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/domain"
	"github.com/kitbuilder587/breachsearch/internal/service"
)

type ctxKey int

const (
	visitorKey ctxKey = iota
	userKey
)

func withVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey, id)
}

func visitorFrom(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey).(string)
	return id
}

func withUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

func userFrom(ctx context.Context) string {
	id, _ := ctx.Value(userKey).(string)
	return id
}

// sessionIdentity читает профиль заново при каждом обращении,
// поэтому остаток после списания виден сразу
type sessionIdentity struct {
	accounts service.AccountService
	logger   *zap.Logger
}

func (i *sessionIdentity) Current(ctx context.Context) (*domain.User, *domain.Profile) {
	userID := userFrom(ctx)
	if userID == "" {
		return nil, nil
	}

	user, profile, err := i.accounts.Current(ctx, userID)
	if err == nil {
		return user, profile
	}

	i.logger.Warn("failed to load profile",
		zap.String("user_id", userID),
		zap.Error(err),
	)
	if user == nil {
		// сессии без пользователя в сторе больше нет; сбой стора - не выход из аккаунта
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		user = &domain.User{ID: userID}
	}
	return user, nil
}
