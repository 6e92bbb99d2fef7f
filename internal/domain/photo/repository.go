package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, p *Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]Photo, error)
	CountByListing(ctx context.Context, listingID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

const photoColumns = `id, listing_id, key, thumb_key, url, thumbnail_url, content_type, width, height, sort_order, created_at`

func (r *sqlxRepository) Create(ctx context.Context, p *Photo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO listing_photos (id, listing_id, key, thumb_key, url, thumbnail_url, content_type, width, height, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.ListingID, p.Key, p.ThumbKey, p.URL, p.ThumbnailURL,
		p.ContentType, p.Width, p.Height, p.SortOrder, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

func (r *sqlxRepository) GetByID(ctx context.Context, id uuid.UUID) (*Photo, error) {
	var p Photo
	err := r.db.GetContext(ctx, &p, `SELECT `+photoColumns+` FROM listing_photos WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return &p, nil
}

func (r *sqlxRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]Photo, error) {
	photos := []Photo{}
	err := r.db.SelectContext(ctx, &photos,
		`SELECT `+photoColumns+` FROM listing_photos WHERE listing_id = $1 ORDER BY sort_order, created_at`,
		listingID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

func (r *sqlxRepository) CountByListing(ctx context.Context, listingID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM listing_photos WHERE listing_id = $1`, listingID)
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return count, nil
}

func (r *sqlxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listing_photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
