package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/breachsearch/internal/domain"
)

type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetOrCreateByEmail(ctx context.Context, email string, freeSearches int) (*domain.User, *domain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, domain.ErrInvalidEmail
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var user domain.User
	err = tx.QueryRow(ctx, `
        INSERT INTO users (id, email)
        VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
        RETURNING id, email, created_at
    `, uuid.NewString(), email).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, nil, classify("upsert user", err)
	}

	doc, err := json.Marshal(domain.Profile{
		UserID:       user.ID,
		Email:        user.Email,
		Plan:         domain.PlanFree,
		FreeSearches: freeSearches,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal profile: %w", err)
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO profiles (user_id, doc)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO NOTHING
    `, user.ID, doc)
	if err != nil {
		return nil, nil, classify("create profile", err)
	}

	profile, err := scanProfile(tx.QueryRow(ctx, `SELECT doc, updated_at FROM profiles WHERE user_id = $1`, user.ID))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	profile.UserID = user.ID
	return &user, profile, nil
}

func (r *ProfileRepo) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, email, created_at FROM users WHERE id = $1`, userID,
	).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify("get user", err)
	}
	return &user, nil
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := scanProfile(r.db.Pool.QueryRow(ctx,
		`SELECT doc, updated_at FROM profiles WHERE user_id = $1`, userID,
	))
	if err != nil {
		return nil, err
	}
	profile.UserID = userID
	return profile, nil
}

// ConsumeSearchCredit - инкремент на стороне базы, гонок между вкладками нет
func (r *ProfileRepo) ConsumeSearchCredit(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	return r.incrementCounter(ctx, "consume search credit", "usedSearches", userID, amount)
}

func (r *ProfileRepo) AddCredits(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	return r.incrementCounter(ctx, "add credits", "purchasedSearches", userID, amount)
}

func (r *ProfileRepo) incrementCounter(ctx context.Context, op, field, userID string, amount int) error {
	query := `
        UPDATE profiles
        SET doc = jsonb_set(doc, ARRAY[$3::text], to_jsonb(COALESCE((doc->>$3::text)::int, 0) + $2::int)),
            updated_at = NOW()
        WHERE user_id = $1
    `

	result, err := r.db.Pool.Exec(ctx, query, userID, amount, field)
	if err != nil {
		return classify(op, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		doc       []byte
		updatedAt time.Time
	)
	if err := row.Scan(&doc, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify("get profile", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	profile.UpdatedAt = updatedAt
	return &profile, nil
}
