package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, l *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	List(ctx context.Context, filter Filter) ([]Listing, int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SetFeaturedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, until time.Time) error
	SetContactUnlockedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	MarkSoldTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

const listingColumns = `id, user_id, campus_id, title, description, category, price,
	condition, location, is_available, is_featured, featured_until,
	contact_unlocked, views, sold_at, created_at, updated_at`

func (r *sqlxRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, l *Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.IsAvailable = true

	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO listings (id, user_id, campus_id, title, description, category, price,
			condition, location, is_available, is_featured, featured_until,
			contact_unlocked, views, sold_at, created_at, updated_at)
		VALUES (:id, :user_id, :campus_id, :title, :description, :category, :price,
			:condition, :location, :is_available, :is_featured, :featured_until,
			:contact_unlocked, :views, :sold_at, :created_at, :updated_at)`, l)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *sqlxRepository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var l Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

func (r *sqlxRepository) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Listing, error) {
	var l Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("lock listing: %w", err)
	}
	return &l, nil
}

func (r *sqlxRepository) Update(ctx context.Context, l *Listing) error {
	l.UpdatedAt = time.Now()
	result, err := r.db.NamedExecContext(ctx, `
		UPDATE listings SET
			title = :title, description = :description, price = :price,
			condition = :condition, location = :location, updated_at = :updated_at
		WHERE id = :id`, l)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return requireRow(result)
}

func (r *sqlxRepository) List(ctx context.Context, filter Filter) ([]Listing, int64, error) {
	filter.Normalize()

	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeUnavailable {
		where = append(where, "is_available = TRUE")
	}
	if filter.CampusID.Valid {
		where = append(where, "campus_id = "+arg(filter.CampusID.UUID))
	}
	if filter.UserID.Valid {
		where = append(where, "user_id = "+arg(filter.UserID.UUID))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.Condition != "" {
		where = append(where, "condition = "+arg(filter.Condition))
	}
	if filter.MinPrice > 0 {
		where = append(where, "price >= "+arg(filter.MinPrice))
	}
	if filter.MaxPrice > 0 {
		where = append(where, "price <= "+arg(filter.MaxPrice))
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if filter.FeaturedOnly {
		where = append(where, "is_featured = TRUE AND featured_until > now()")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM listings"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	order := "created_at DESC"
	switch filter.Sort {
	case "price_asc":
		order = "price ASC"
	case "price_desc":
		order = "price DESC"
	case "popular":
		order = "views DESC"
	}

	// Sponsored listings surface first while their window is active.
	query := fmt.Sprintf(
		`SELECT %s FROM listings%s
		ORDER BY (is_featured AND featured_until > now()) DESC, %s
		LIMIT %s OFFSET %s`,
		listingColumns, clause, order,
		arg(filter.PerPage), arg((filter.Page-1)*filter.PerPage),
	)

	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	return listings, total, nil
}

func (r *sqlxRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE listings SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (r *sqlxRepository) SetFeaturedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, until time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE listings SET is_featured = TRUE, featured_until = $1, updated_at = now()
		WHERE id = $2`, until, id)
	if err != nil {
		return fmt.Errorf("set featured: %w", err)
	}
	return requireRow(result)
}

func (r *sqlxRepository) SetContactUnlockedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE listings SET contact_unlocked = TRUE, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set contact unlocked: %w", err)
	}
	return requireRow(result)
}

func (r *sqlxRepository) MarkSoldTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE listings SET is_available = FALSE, sold_at = now(), updated_at = now()
		WHERE id = $1 AND sold_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("mark sold: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark sold: %w", err)
	}
	if rows == 0 {
		return ErrAlreadySold
	}
	return nil
}

func (r *sqlxRepository) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE listings SET is_available = $1, updated_at = now() WHERE id = $2`,
		available, id)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrListingNotFound
	}
	return nil
}
