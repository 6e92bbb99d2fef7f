package wallet

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Operation classifies a wallet ledger entry.
type Operation string

const (
	OperationCredit Operation = "CREDIT"
	OperationDebit  Operation = "DEBIT"
	OperationRefund Operation = "REFUND"
)

// Reference type labels for ledger entries.
const (
	RefTypeTransaction = "TRANSACTION"
	RefTypeOrder       = "ORDER"
	RefTypeListing     = "LISTING"
)

// Ref loosely links a ledger entry to the record that caused it.
type Ref struct {
	ID   uuid.NullUUID
	Type sql.NullString
}

// TransactionRef points a ledger entry at the fee transaction it pays
// for or reverses.
func TransactionRef(id uuid.UUID) Ref {
	return Ref{
		ID:   uuid.NullUUID{UUID: id, Valid: true},
		Type: sql.NullString{String: RefTypeTransaction, Valid: true},
	}
}

// Wallet is a user's balance row. The balance is the single source of
// truth; ledger entries carry snapshots for auditability.
type Wallet struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Entry is an append-only ledger row. Amount is always positive; the
// operation carries the sign. BalanceAfter snapshots the wallet balance
// immediately after the entry was applied.
type Entry struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	UserID        uuid.UUID      `db:"user_id" json:"user_id"`
	Operation     Operation      `db:"operation" json:"operation"`
	Amount        int64          `db:"amount" json:"amount"`
	BalanceAfter  int64          `db:"balance_after" json:"balance_after"`
	ReferenceID   uuid.NullUUID  `db:"reference_id" json:"reference_id,omitempty"`
	ReferenceType sql.NullString `db:"reference_type" json:"reference_type,omitempty"`
	Description   string         `db:"description" json:"description"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
