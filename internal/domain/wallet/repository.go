package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists wallets and their ledger. Balance mutations lock
// the wallet row, check sufficiency, update the balance and append the
// ledger entry inside one database transaction.
type Repository interface {
	EnsureWallet(ctx context.Context, userID uuid.UUID) error
	EnsureWalletTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Wallet, error)

	Credit(ctx context.Context, userID uuid.UUID, amount int64, op Operation, description string, ref Ref) (int64, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int64, description string, ref Ref) (int64, error)

	// Tx variants compose into an external transaction so a debit and
	// the fee record it pays for commit together.
	CreditTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, op Operation, description string, ref Ref) (int64, error)
	DebitTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref Ref) (int64, error)

	ListEntries(ctx context.Context, userID uuid.UUID, page, perPage int) ([]Entry, int64, error)
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

const ensureWalletQuery = `
	INSERT INTO user_wallets (id, user_id, balance, created_at, updated_at)
	VALUES ($1, $2, 0, now(), now())
	ON CONFLICT (user_id) DO NOTHING`

func (r *sqlxRepository) EnsureWallet(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, ensureWalletQuery, uuid.New(), userID)
	if err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}
	return nil
}

func (r *sqlxRepository) EnsureWalletTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, ensureWalletQuery, uuid.New(), userID)
	if err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}
	return nil
}

func (r *sqlxRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	var w Wallet
	err := r.db.GetContext(ctx, &w, `
		SELECT id, user_id, balance, created_at, updated_at
		FROM user_wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

func (r *sqlxRepository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int64, error) {
	if err := r.EnsureWalletTx(ctx, tx, userID); err != nil {
		return 0, err
	}

	var balance int64
	err := tx.GetContext(ctx, &balance,
		`SELECT balance FROM user_wallets WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		return 0, fmt.Errorf("lock wallet: %w", err)
	}
	return balance, nil
}

// applyTx mutates a locked wallet balance and appends the matching
// ledger entry. delta is signed; the stored amount is its magnitude.
func (r *sqlxRepository) applyTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64, op Operation, description string, ref Ref) (int64, error) {
	balance, err := r.lockWallet(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	next := balance + delta
	if next < 0 {
		return 0, ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_wallets SET balance = $1, updated_at = now() WHERE user_id = $2`,
		next, userID); err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, user_id, operation, amount, balance_after, reference_id, reference_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), userID, op, amount, next, ref.ID, ref.Type, description, time.Now()); err != nil {
		return 0, fmt.Errorf("insert ledger entry: %w", err)
	}

	return next, nil
}

func (r *sqlxRepository) apply(ctx context.Context, userID uuid.UUID, delta int64, op Operation, description string, ref Ref) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	balance, err := r.applyTx(ctx, tx, userID, delta, op, description, ref)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return balance, nil
}

func (r *sqlxRepository) Credit(ctx context.Context, userID uuid.UUID, amount int64, op Operation, description string, ref Ref) (int64, error) {
	return r.apply(ctx, userID, amount, op, description, ref)
}

func (r *sqlxRepository) Debit(ctx context.Context, userID uuid.UUID, amount int64, description string, ref Ref) (int64, error) {
	return r.apply(ctx, userID, -amount, OperationDebit, description, ref)
}

func (r *sqlxRepository) CreditTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, op Operation, description string, ref Ref) (int64, error) {
	return r.applyTx(ctx, tx, userID, amount, op, description, ref)
}

func (r *sqlxRepository) DebitTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref Ref) (int64, error) {
	return r.applyTx(ctx, tx, userID, -amount, OperationDebit, description, ref)
}

func (r *sqlxRepository) ListEntries(ctx context.Context, userID uuid.UUID, page, perPage int) ([]Entry, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM wallet_transactions WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	entries := []Entry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, operation, amount, balance_after, reference_id, reference_type, description, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, total, nil
}
