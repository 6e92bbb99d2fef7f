package wallet

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// fakeRepository keeps wallets in memory and mirrors the repository's
// sufficiency rule.
type fakeRepository struct {
	balances map[uuid.UUID]int64
	entries  []Entry
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{balances: map[uuid.UUID]int64{}}
}

func (f *fakeRepository) EnsureWallet(_ context.Context, userID uuid.UUID) error {
	if _, ok := f.balances[userID]; !ok {
		f.balances[userID] = 0
	}
	return nil
}

func (f *fakeRepository) EnsureWalletTx(ctx context.Context, _ *sqlx.Tx, userID uuid.UUID) error {
	return f.EnsureWallet(ctx, userID)
}

func (f *fakeRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*Wallet, error) {
	balance, ok := f.balances[userID]
	if !ok {
		return nil, ErrWalletNotFound
	}
	return &Wallet{UserID: userID, Balance: balance}, nil
}

func (f *fakeRepository) apply(userID uuid.UUID, delta int64, op Operation, description string, ref Ref) (int64, error) {
	next := f.balances[userID] + delta
	if next < 0 {
		return 0, ErrInsufficientFunds
	}
	f.balances[userID] = next

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	f.entries = append(f.entries, Entry{
		UserID:        userID,
		Operation:     op,
		Amount:        amount,
		BalanceAfter:  next,
		ReferenceID:   ref.ID,
		ReferenceType: ref.Type,
		Description:   description,
	})
	return next, nil
}

func (f *fakeRepository) Credit(_ context.Context, userID uuid.UUID, amount int64, op Operation, description string, ref Ref) (int64, error) {
	return f.apply(userID, amount, op, description, ref)
}

func (f *fakeRepository) Debit(_ context.Context, userID uuid.UUID, amount int64, description string, ref Ref) (int64, error) {
	return f.apply(userID, -amount, OperationDebit, description, ref)
}

func (f *fakeRepository) CreditTx(_ context.Context, _ *sqlx.Tx, userID uuid.UUID, amount int64, op Operation, description string, ref Ref) (int64, error) {
	return f.apply(userID, amount, op, description, ref)
}

func (f *fakeRepository) DebitTx(_ context.Context, _ *sqlx.Tx, userID uuid.UUID, amount int64, description string, ref Ref) (int64, error) {
	return f.apply(userID, -amount, OperationDebit, description, ref)
}

func (f *fakeRepository) ListEntries(_ context.Context, userID uuid.UUID, page, perPage int) ([]Entry, int64, error) {
	var out []Entry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func TestAddMoney(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()

	t.Run("valid top-up", func(t *testing.T) {
		balance, err := svc.AddMoney(ctx, userID, 500)
		if err != nil {
			t.Fatalf("AddMoney: %v", err)
		}
		if balance != 500 {
			t.Errorf("balance = %d, want 500", balance)
		}
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		if _, err := svc.AddMoney(ctx, userID, 0); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("err = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		if _, err := svc.AddMoney(ctx, userID, -10); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("err = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("top-up above cap rejected", func(t *testing.T) {
		if _, err := svc.AddMoney(ctx, userID, 50001); !errors.Is(err, ErrTopUpLimit) {
			t.Errorf("err = %v, want ErrTopUpLimit", err)
		}
	})

	t.Run("top-up at cap accepted", func(t *testing.T) {
		if _, err := svc.AddMoney(ctx, userID, 50000); err != nil {
			t.Errorf("AddMoney at cap: %v", err)
		}
	})
}

func TestChargeTx(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()
	ref := uuid.New()

	if _, err := svc.AddMoney(ctx, userID, 100); err != nil {
		t.Fatalf("AddMoney: %v", err)
	}

	t.Run("charge reduces balance", func(t *testing.T) {
		balance, err := svc.ChargeTx(ctx, nil, userID, 25, "Sponsored listing", ref)
		if err != nil {
			t.Fatalf("ChargeTx: %v", err)
		}
		if balance != 75 {
			t.Errorf("balance = %d, want 75", balance)
		}
	})

	t.Run("insufficient balance leaves wallet untouched", func(t *testing.T) {
		_, err := svc.ChargeTx(ctx, nil, userID, 1000, "Business ad", ref)
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("err = %v, want ErrInsufficientFunds", err)
		}
		w, err := svc.Balance(ctx, userID)
		if err != nil {
			t.Fatalf("Balance: %v", err)
		}
		if w.Balance != 75 {
			t.Errorf("balance = %d, want 75", w.Balance)
		}
	})

	t.Run("ledger entries carry balance snapshots", func(t *testing.T) {
		entries, _, err := svc.History(ctx, userID, 1, 20)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Operation != OperationCredit || entries[0].BalanceAfter != 100 {
			t.Errorf("credit entry: %+v", entries[0])
		}
		if entries[1].Operation != OperationDebit || entries[1].Amount != 25 || entries[1].BalanceAfter != 75 {
			t.Errorf("debit entry: %+v", entries[1])
		}
	})
}

func TestApply(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()

	t.Run("credit", func(t *testing.T) {
		balance, err := svc.Apply(ctx, userID, OperationCredit, 200, "manual credit", Ref{})
		if err != nil {
			t.Fatalf("Apply credit: %v", err)
		}
		if balance != 200 {
			t.Errorf("balance = %d, want 200", balance)
		}
	})

	t.Run("credit above cap rejected", func(t *testing.T) {
		if _, err := svc.Apply(ctx, userID, OperationCredit, 50001, "", Ref{}); !errors.Is(err, ErrTopUpLimit) {
			t.Errorf("err = %v, want ErrTopUpLimit", err)
		}
	})

	t.Run("debit", func(t *testing.T) {
		balance, err := svc.Apply(ctx, userID, OperationDebit, 50, "manual debit", Ref{})
		if err != nil {
			t.Fatalf("Apply debit: %v", err)
		}
		if balance != 150 {
			t.Errorf("balance = %d, want 150", balance)
		}
	})

	t.Run("overdraft rejected", func(t *testing.T) {
		if _, err := svc.Apply(ctx, userID, OperationDebit, 151, "", Ref{}); !errors.Is(err, ErrInsufficientFunds) {
			t.Errorf("err = %v, want ErrInsufficientFunds", err)
		}
	})

	t.Run("unknown operation rejected", func(t *testing.T) {
		if _, err := svc.Apply(ctx, userID, Operation("TRANSFER"), 10, "", Ref{}); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("err = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("reference lands on the ledger entry", func(t *testing.T) {
		orderID := uuid.New()
		ref := Ref{
			ID:   uuid.NullUUID{UUID: orderID, Valid: true},
			Type: sql.NullString{String: RefTypeOrder, Valid: true},
		}
		if _, err := svc.Apply(ctx, userID, OperationDebit, 10, "order payment", ref); err != nil {
			t.Fatalf("Apply with reference: %v", err)
		}

		entries, _, err := svc.History(ctx, userID, 1, 20)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		last := entries[len(entries)-1]
		if !last.ReferenceID.Valid || last.ReferenceID.UUID != orderID {
			t.Errorf("reference_id = %+v, want %s", last.ReferenceID, orderID)
		}
		if !last.ReferenceType.Valid || last.ReferenceType.String != RefTypeOrder {
			t.Errorf("reference_type = %+v, want %s", last.ReferenceType, RefTypeOrder)
		}
	})
}

func TestRefund(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()
	ref := uuid.New()

	if _, err := svc.AddMoney(ctx, userID, 100); err != nil {
		t.Fatalf("AddMoney: %v", err)
	}
	if _, err := svc.ChargeTx(ctx, nil, userID, 40, "Event partnership", ref); err != nil {
		t.Fatalf("ChargeTx: %v", err)
	}

	balance, err := svc.Refund(ctx, userID, 40, "Event partnership refund", ref)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if balance != 100 {
		t.Errorf("balance = %d, want 100", balance)
	}

	entries, _, err := svc.History(ctx, userID, 1, 20)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	last := entries[len(entries)-1]
	if last.Operation != OperationRefund || !last.ReferenceID.Valid || last.ReferenceID.UUID != ref {
		t.Errorf("refund entry: %+v", last)
	}
	if !last.ReferenceType.Valid || last.ReferenceType.String != RefTypeTransaction {
		t.Errorf("reference_type = %+v, want %s", last.ReferenceType, RefTypeTransaction)
	}
}

func TestEnsureWallet(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	ctx := context.Background()

	if err := svc.EnsureWallet(ctx, userID); err != nil {
		t.Fatalf("EnsureWallet: %v", err)
	}
	w, err := svc.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if w.Balance != 0 {
		t.Errorf("balance = %d, want 0", w.Balance)
	}

	// Idempotent: a second call must not reset an existing balance.
	if _, err := svc.AddMoney(ctx, userID, 100); err != nil {
		t.Fatalf("AddMoney: %v", err)
	}
	if err := svc.EnsureWallet(ctx, userID); err != nil {
		t.Fatalf("EnsureWallet: %v", err)
	}
	w, _ = svc.Balance(ctx, userID)
	if w.Balance != 100 {
		t.Errorf("balance = %d, want 100", w.Balance)
	}
}
