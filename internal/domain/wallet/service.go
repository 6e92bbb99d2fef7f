package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureWallet creates a zero-balance wallet for a new user if one
// does not exist yet. Called at registration.
func (s *Service) EnsureWallet(ctx context.Context, userID uuid.UUID) error {
	return s.repo.EnsureWallet(ctx, userID)
}

func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	if err := s.repo.EnsureWallet(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}

// AddMoney credits a wallet top-up. Single top-ups are capped.
func (s *Service) AddMoney(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount > pricing.MaxTopUp {
		return 0, ErrTopUpLimit
	}

	balance, err := s.repo.Credit(ctx, userID, amount, OperationCredit, "Wallet top-up", Ref{})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("amount", amount).
		Int64("balance", balance).
		Msg("wallet top-up applied")
	return balance, nil
}

// ChargeTx debits a fee from the wallet inside the caller's database
// transaction. ref links the ledger entry to the fee transaction it
// pays for.
func (s *Service) ChargeTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref uuid.UUID) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.repo.DebitTx(ctx, tx, userID, amount, description, TransactionRef(ref))
}

// RewardTx credits a wallet inside the caller's transaction, used for
// referral rewards.
func (s *Service) RewardTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref uuid.UUID) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.repo.CreditTx(ctx, tx, userID, amount, OperationCredit, description, TransactionRef(ref))
}

// Refund returns a previously debited amount, referencing the fee
// transaction being reversed.
func (s *Service) Refund(ctx context.Context, userID uuid.UUID, amount int64, description string, ref uuid.UUID) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	balance, err := s.repo.Credit(ctx, userID, amount, OperationRefund, description, TransactionRef(ref))
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("amount", amount).
		Msg("wallet refund applied")
	return balance, nil
}

// Apply executes a standalone ledger operation. CREDIT is subject to
// the top-up cap; DEBIT fails on insufficient balance. ref optionally
// links the entry to the record that caused it.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, op Operation, amount int64, description string, ref Ref) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	switch op {
	case OperationCredit:
		if amount > pricing.MaxTopUp {
			return 0, ErrTopUpLimit
		}
		return s.repo.Credit(ctx, userID, amount, OperationCredit, description, ref)
	case OperationRefund:
		return s.repo.Credit(ctx, userID, amount, OperationRefund, description, ref)
	case OperationDebit:
		return s.repo.Debit(ctx, userID, amount, description, ref)
	default:
		return 0, ErrInvalidAmount
	}
}

func (s *Service) History(ctx context.Context, userID uuid.UUID, page, perPage int) ([]Entry, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.repo.ListEntries(ctx, userID, page, perPage)
}
