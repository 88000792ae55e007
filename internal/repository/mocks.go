package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kitbuilder587/breachsearch/internal/domain"
)

type ConsumeCall struct {
	UserID string
	Amount int
}

type MockProfileRepository struct {
	mu       sync.RWMutex
	users    map[string]*domain.User // key: user ID
	profiles map[string]*domain.Profile
	byEmail  map[string]string

	// ConsumeErr возвращается из ConsumeSearchCredit вместо списания
	ConsumeErr   error
	ConsumeCalls []ConsumeCall
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		users:    make(map[string]*domain.User),
		profiles: make(map[string]*domain.Profile),
		byEmail:  make(map[string]string),
	}
}

// Seed кладет готовый профиль, удобно в тестах
func (m *MockProfileRepository) Seed(user *domain.User, profile *domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.ID] = user
	m.byEmail[strings.ToLower(user.Email)] = user.ID
	profile.UserID = user.ID
	m.profiles[user.ID] = profile
}

func (m *MockProfileRepository) GetOrCreateByEmail(ctx context.Context, email string, freeSearches int) (*domain.User, *domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, domain.ErrInvalidEmail
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byEmail[email]; ok {
		p := *m.profiles[id]
		return m.users[id], &p, nil
	}

	now := time.Now()
	user := &domain.User{ID: uuid.NewString(), Email: email, CreatedAt: now}
	profile := &domain.Profile{
		UserID:       user.ID,
		Email:        email,
		Plan:         domain.PlanFree,
		FreeSearches: freeSearches,
		UpdatedAt:    now,
	}
	m.users[user.ID] = user
	m.profiles[user.ID] = profile
	m.byEmail[email] = user.ID

	p := *profile
	return user, &p, nil
}

func (m *MockProfileRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProfileRepository) ConsumeSearchCredit(ctx context.Context, userID string, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ConsumeCalls = append(m.ConsumeCalls, ConsumeCall{UserID: userID, Amount: amount})

	if m.ConsumeErr != nil {
		return m.ConsumeErr
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	p, ok := m.profiles[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	p.UsedSearches += amount
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockProfileRepository) AddCredits(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	p.PurchasedSearches += amount
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockProfileRepository) Calls() []ConsumeCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ConsumeCall, len(m.ConsumeCalls))
	copy(out, m.ConsumeCalls)
	return out
}
