package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines user data access
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByReferralCode(ctx context.Context, code string) (*User, error)
	SetPremium(ctx context.Context, id uuid.UUID, expires time.Time) error
	SetPremiumTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, expires time.Time) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, campus_id, name, email, phone, password_hash, role,
	is_verified, is_banned, is_premium, premium_expires, referral_code,
	created_at, updated_at
`

func (r *repository) Create(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, campus_id, name, email, phone, password_hash, role,
			is_verified, is_banned, is_premium, premium_expires, referral_code,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		u.ID, u.CampusID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role,
		u.IsVerified, u.IsBanned, u.IsPremium, u.PremiumExpires, u.ReferralCode,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByReferralCode(ctx context.Context, code string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) SetPremium(ctx context.Context, id uuid.UUID, expires time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_premium = true, premium_expires = $2, updated_at = NOW()
		WHERE id = $1
	`, id, expires)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *repository) SetPremiumTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, expires time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE users SET is_premium = true, premium_expires = $2, updated_at = NOW()
		WHERE id = $1
	`, id, expires)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *repository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_banned = $2, updated_at = NOW() WHERE id = $1
	`, id, banned)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *repository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_verified = $2, updated_at = NOW() WHERE id = $1
	`, id, verified)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
