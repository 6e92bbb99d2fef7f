package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, r *Referral) error
	GetPendingByReferred(ctx context.Context, referredID uuid.UUID) (*Referral, error)
	CompleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	MarkExpired(ctx context.Context, id uuid.UUID) error
	StatsForUser(ctx context.Context, referrerID uuid.UUID) (*Stats, error)
	TopReferrers(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) Create(ctx context.Context, ref *Referral) error {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	ref.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO referrals (id, referrer_id, referred_id, code, status, reward, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ref.ID, ref.ReferrerID, ref.ReferredID, ref.Code, ref.Status, ref.Reward, ref.ExpiresAt, ref.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyReferred
		}
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

func (r *sqlxRepository) GetPendingByReferred(ctx context.Context, referredID uuid.UUID) (*Referral, error) {
	var ref Referral
	err := r.db.GetContext(ctx, &ref, `
		SELECT id, referrer_id, referred_id, code, status, reward, expires_at, rewarded_at, created_at
		FROM referrals
		WHERE referred_id = $1 AND status = $2`, referredID, StatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, fmt.Errorf("get pending referral: %w", err)
	}
	return &ref, nil
}

func (r *sqlxRepository) CompleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE referrals SET status = $1, rewarded_at = now()
		WHERE id = $2 AND status = $3`,
		StatusCompleted, id, StatusPending)
	if err != nil {
		return fmt.Errorf("complete referral: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete referral: %w", err)
	}
	if rows == 0 {
		return ErrReferralNotFound
	}
	return nil
}

func (r *sqlxRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE referrals SET status = $1 WHERE id = $2 AND status = $3`,
		StatusExpired, id, StatusPending)
	if err != nil {
		return fmt.Errorf("expire referral: %w", err)
	}
	return nil
}

func (r *sqlxRepository) StatsForUser(ctx context.Context, referrerID uuid.UUID) (*Stats, error) {
	var s Stats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
			COUNT(*) FILTER (WHERE status = 'PENDING') AS pending,
			COALESCE(SUM(reward) FILTER (WHERE status = 'COMPLETED'), 0) AS total_earned
		FROM referrals WHERE referrer_id = $1`, referrerID)
	if err != nil {
		return nil, fmt.Errorf("referral stats: %w", err)
	}
	return &s, nil
}

func (r *sqlxRepository) TopReferrers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows := []struct {
		ReferrerID uuid.UUID `db:"referrer_id"`
		Completed  int64     `db:"completed"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT referrer_id, COUNT(*) AS completed
		FROM referrals WHERE status = 'COMPLETED'
		GROUP BY referrer_id
		ORDER BY completed DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top referrers: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{UserID: row.ReferrerID, Completed: row.Completed})
	}
	return entries, nil
}
