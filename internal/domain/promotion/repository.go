package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateBusinessAdTx(ctx context.Context, tx *sqlx.Tx, ad *BusinessAd) error
	ListActiveBusinessAds(ctx context.Context) ([]BusinessAd, error)
	CreateEventTx(ctx context.Context, tx *sqlx.Tx, e *Event) error
	ListUpcomingEvents(ctx context.Context) ([]Event, error)
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) CreateBusinessAdTx(ctx context.Context, tx *sqlx.Tx, ad *BusinessAd) error {
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	ad.CreatedAt = time.Now()

	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO business_ads (id, user_id, title, image_url, target_url, months, amount, starts_at, ends_at, created_at)
		VALUES (:id, :user_id, :title, :image_url, :target_url, :months, :amount, :starts_at, :ends_at, :created_at)`, ad)
	if err != nil {
		return fmt.Errorf("insert business ad: %w", err)
	}
	return nil
}

func (r *sqlxRepository) ListActiveBusinessAds(ctx context.Context) ([]BusinessAd, error) {
	ads := []BusinessAd{}
	err := r.db.SelectContext(ctx, &ads, `
		SELECT id, user_id, title, image_url, target_url, months, amount, starts_at, ends_at, created_at
		FROM business_ads
		WHERE ends_at > now()
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list business ads: %w", err)
	}
	return ads, nil
}

func (r *sqlxRepository) CreateEventTx(ctx context.Context, tx *sqlx.Tx, e *Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()

	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO events (id, user_id, title, description, tier, amount, event_date, created_at)
		VALUES (:id, :user_id, :title, :description, :tier, :amount, :event_date, :created_at)`, e)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *sqlxRepository) ListUpcomingEvents(ctx context.Context) ([]Event, error) {
	events := []Event{}
	err := r.db.SelectContext(ctx, &events, `
		SELECT id, user_id, title, description, tier, amount, event_date, created_at
		FROM events
		WHERE event_date > now()
		ORDER BY event_date`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
