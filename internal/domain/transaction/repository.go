package transaction

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

// Repository persists fee transactions. The ledger is append-only:
// rows are inserted and at most flipped from PENDING to COMPLETED.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, t *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, int64, error)
	MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	PendingForListingTx(ctx context.Context, tx *sqlx.Tx, listingID uuid.UUID, typ Type) (*Transaction, error)
	ExistsForUserListing(ctx context.Context, userID, listingID uuid.UUID, typ Type) (bool, error)
	Summary(ctx context.Context) (*Summary, error)
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, status, commission_rate,
	listing_id, order_id, event_id, business_ad_id, description, created_at`

const insertTransaction = `
	INSERT INTO transactions (id, user_id, type, amount, status, commission_rate,
		listing_id, order_id, event_id, business_ad_id, description, created_at)
	VALUES (:id, :user_id, :type, :amount, :status, :commission_rate,
		:listing_id, :order_id, :event_id, :business_ad_id, :description, :created_at)`

func prepare(t *Transaction) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
}

func (r *sqlxRepository) Create(ctx context.Context, t *Transaction) error {
	prepare(t)
	if _, err := r.db.NamedExecContext(ctx, insertTransaction, t); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *sqlxRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, t *Transaction) error {
	prepare(t)
	if _, err := tx.NamedExecContext(ctx, insertTransaction, t); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *sqlxRepository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var t Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (r *sqlxRepository) List(ctx context.Context, filter ListFilter) ([]Transaction, int64, error) {
	filter.Normalize()

	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID.Valid {
		where = append(where, "user_id = "+arg(filter.UserID.UUID))
	}
	if filter.Type != "" {
		where = append(where, "type = "+arg(filter.Type))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}
	if filter.ListingID.Valid {
		where = append(where, "listing_id = "+arg(filter.ListingID.UUID))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM transactions"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM transactions%s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		transactionColumns, clause,
		arg(filter.PerPage), arg((filter.Page-1)*filter.PerPage),
	)

	transactions := []Transaction{}
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, total, nil
}

func (r *sqlxRepository) MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE transactions SET status = $1 WHERE id = $2 AND status = $3`,
		StatusCompleted, id, StatusPending)
	if err != nil {
		return fmt.Errorf("complete transaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete transaction: %w", err)
	}
	if rows == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *sqlxRepository) PendingForListingTx(ctx context.Context, tx *sqlx.Tx, listingID uuid.UUID, typ Type) (*Transaction, error) {
	var t Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE listing_id = $1 AND type = $2 AND status = $3
		ORDER BY created_at DESC LIMIT 1 FOR UPDATE`
	if err := tx.GetContext(ctx, &t, query, listingID, typ, StatusPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("pending transaction for listing: %w", err)
	}
	return &t, nil
}

func (r *sqlxRepository) ExistsForUserListing(ctx context.Context, userID, listingID uuid.UUID, typ Type) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND listing_id = $2 AND type = $3 AND status = $4
		)`, userID, listingID, typ, StatusCompleted)
	if err != nil {
		return false, fmt.Errorf("transaction exists check: %w", err)
	}
	return exists, nil
}

func (r *sqlxRepository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	query := `
		SELECT
			COUNT(*) AS total_count,
			COALESCE(SUM(amount), 0) AS total_amount,
			COUNT(*) FILTER (WHERE status = 'PENDING') AS pending_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING'), 0) AS pending_amount,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'COMPLETED'), 0) AS revenue_total
		FROM transactions`
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return nil, fmt.Errorf("transaction summary: %w", err)
	}
	return &s, nil
}
