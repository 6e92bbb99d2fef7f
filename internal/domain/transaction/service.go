package transaction

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
)

// Service exposes the fee ledger to handlers and to other domain
// services that record fees inside their own database transactions.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FromFee builds a ledger row from a priced fee component. Callers set
// the relevant reference id (listing, order, event, ad) before
// recording.
func FromFee(userID uuid.UUID, fee pricing.Fee) *Transaction {
	t := &Transaction{
		UserID:      userID,
		Type:        fee.Type,
		Amount:      fee.Amount,
		Status:      fee.Status,
		Description: fee.Description,
	}
	if fee.Rate > 0 {
		t.CommissionRate = sql.NullFloat64{Float64: fee.Rate, Valid: true}
	}
	return t
}

// RecordTx inserts a ledger row inside an existing database
// transaction, so fee recording commits or rolls back together with
// the wallet debit and the triggering write.
func (s *Service) RecordTx(ctx context.Context, tx *sqlx.Tx, t *Transaction) error {
	return s.repo.CreateTx(ctx, tx, t)
}

// SettleCommissionTx flips the pending high-value commission for a
// listing to COMPLETED. Returns ErrTransactionNotFound when the listing
// carries no pending commission.
func (s *Service) SettleCommissionTx(ctx context.Context, tx *sqlx.Tx, listingID uuid.UUID) (*Transaction, error) {
	t, err := s.repo.PendingForListingTx(ctx, tx, listingID, TypeHighValueCommission)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkCompletedTx(ctx, tx, t.ID); err != nil {
		return nil, err
	}
	t.Status = StatusCompleted
	return t, nil
}

// HasRecorded reports whether the user already has a completed
// transaction of the given type against a listing, used for unlock
// idempotency.
func (s *Service) HasRecorded(ctx context.Context, userID, listingID uuid.UUID, typ Type) (bool, error) {
	return s.repo.ExistsForUserListing(ctx, userID, listingID, typ)
}

// ListForUser returns the caller's own transaction history.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Transaction, int64, error) {
	filter.UserID = uuid.NullUUID{UUID: userID, Valid: true}
	return s.repo.List(ctx, filter)
}

// Search lists transactions across all users. Admin only; the handler
// enforces the role.
func (s *Service) Search(ctx context.Context, filter ListFilter) ([]Transaction, int64, error) {
	return s.repo.List(ctx, filter)
}

// Get returns a transaction if it belongs to the caller or the caller
// is an admin.
func (s *Service) Get(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && t.UserID != callerID {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}

// Summary aggregates ledger totals for the admin dashboard.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}
