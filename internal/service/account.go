package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/domain"
	"github.com/kitbuilder587/breachsearch/internal/repository"
)

type AccountService interface {
	SignIn(ctx context.Context, email string) (*domain.User, error)
	Current(ctx context.Context, userID string) (*domain.User, *domain.Profile, error)
	TopUp(ctx context.Context, email string, amount int) (*domain.Profile, error)
}

type accountService struct {
	repo         repository.ProfileRepository
	freeSearches int
	logger       *zap.Logger
}

func NewAccountService(repo repository.ProfileRepository, freeSearches int, logger *zap.Logger) AccountService {
	return &accountService{
		repo:         repo,
		freeSearches: freeSearches,
		logger:       logger,
	}
}

func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// SignIn заводит профиль при первом входе
func (s *accountService) SignIn(ctx context.Context, email string) (*domain.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, profile, err := s.repo.GetOrCreateByEmail(ctx, email, s.freeSearches)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	s.logger.Info("user signed in",
		zap.String("user_id", user.ID),
		zap.Float64("remaining", domain.ComputeRemaining(profile)),
	)
	return user, nil
}

func (s *accountService) Current(ctx context.Context, userID string) (*domain.User, *domain.Profile, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return user, nil, err
	}
	return user, profile, nil
}

func (s *accountService) TopUp(ctx context.Context, email string, amount int) (*domain.Profile, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, _, err := s.repo.GetOrCreateByEmail(ctx, email, s.freeSearches)
	if err != nil {
		return nil, fmt.Errorf("top up: %w", err)
	}
	if err := s.repo.AddCredits(ctx, user.ID, amount); err != nil {
		return nil, fmt.Errorf("top up: %w", err)
	}

	profile, err := s.repo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("credits added",
		zap.String("user_id", user.ID),
		zap.Int("amount", amount),
	)
	return profile, nil
}
