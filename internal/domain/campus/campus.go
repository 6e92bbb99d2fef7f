// Package campus manages the campuses listings are scoped to.
package campus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrCampusNotFound = errors.New("campus not found")

type Campus struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Repository interface {
	List(ctx context.Context) ([]Campus, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Campus, error)
	Create(ctx context.Context, c *Campus) error
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) List(ctx context.Context) ([]Campus, error) {
	campuses := []Campus{}
	err := r.db.SelectContext(ctx, &campuses,
		`SELECT id, name, city, created_at FROM campuses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}

func (r *sqlxRepository) GetByID(ctx context.Context, id uuid.UUID) (*Campus, error) {
	var c Campus
	err := r.db.GetContext(ctx, &c,
		`SELECT id, name, city, created_at FROM campuses WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampusNotFound
		}
		return nil, fmt.Errorf("get campus: %w", err)
	}
	return &c, nil
}

func (r *sqlxRepository) Create(ctx context.Context, c *Campus) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO campuses (id, name, city, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.City, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert campus: %w", err)
	}
	return nil
}
