package listing

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
)

// --- fakes ---

type fakeRunner struct{}

func (fakeRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fakeListingRepo struct {
	listings map[uuid.UUID]*Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[uuid.UUID]*Listing{}}
}

func (f *fakeListingRepo) CreateTx(_ context.Context, _ *sqlx.Tx, l *Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.IsAvailable = true
	f.listings[l.ID] = l
	return nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (*Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) GetByIDForUpdateTx(ctx context.Context, _ *sqlx.Tx, id uuid.UUID) (*Listing, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeListingRepo) Update(_ context.Context, l *Listing) error {
	if _, ok := f.listings[l.ID]; !ok {
		return ErrListingNotFound
	}
	cp := *l
	f.listings[l.ID] = &cp
	return nil
}

func (f *fakeListingRepo) List(_ context.Context, _ Filter) ([]Listing, int64, error) {
	var out []Listing
	for _, l := range f.listings {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeListingRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	if l, ok := f.listings[id]; ok {
		l.Views++
	}
	return nil
}

func (f *fakeListingRepo) SetFeaturedTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID, until time.Time) error {
	l, ok := f.listings[id]
	if !ok {
		return ErrListingNotFound
	}
	l.IsFeatured = true
	l.FeaturedUntil = sql.NullTime{Time: until, Valid: true}
	return nil
}

func (f *fakeListingRepo) SetContactUnlockedTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	l, ok := f.listings[id]
	if !ok {
		return ErrListingNotFound
	}
	l.ContactUnlocked = true
	return nil
}

func (f *fakeListingRepo) MarkSoldTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	l, ok := f.listings[id]
	if !ok {
		return ErrListingNotFound
	}
	if l.SoldAt.Valid {
		return ErrAlreadySold
	}
	l.IsAvailable = false
	l.SoldAt = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}

func (f *fakeListingRepo) SetAvailable(_ context.Context, id uuid.UUID, available bool) error {
	l, ok := f.listings[id]
	if !ok {
		return ErrListingNotFound
	}
	l.IsAvailable = available
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(context.Context, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByReferralCode(context.Context, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) SetPremium(context.Context, uuid.UUID, time.Time) error { return nil }
func (f *fakeUserRepo) SetPremiumTx(context.Context, *sqlx.Tx, uuid.UUID, time.Time) error {
	return nil
}
func (f *fakeUserRepo) SetBanned(context.Context, uuid.UUID, bool) error       { return nil }
func (f *fakeUserRepo) SetVerified(context.Context, uuid.UUID, bool) error     { return nil }

type fakeTxnRepo struct {
	rows []*transaction.Transaction
}

func (f *fakeTxnRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	return f.CreateTx(ctx, nil, t)
}

func (f *fakeTxnRepo) CreateTx(_ context.Context, _ *sqlx.Tx, t *transaction.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.rows = append(f.rows, t)
	return nil
}

func (f *fakeTxnRepo) GetByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	for _, t := range f.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, transaction.ErrTransactionNotFound
}

func (f *fakeTxnRepo) List(context.Context, transaction.ListFilter) ([]transaction.Transaction, int64, error) {
	var out []transaction.Transaction
	for _, t := range f.rows {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTxnRepo) MarkCompletedTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID) error {
	for _, t := range f.rows {
		if t.ID == id {
			if t.Status != transaction.StatusPending {
				return transaction.ErrNotPending
			}
			t.Status = transaction.StatusCompleted
			return nil
		}
	}
	return transaction.ErrTransactionNotFound
}

func (f *fakeTxnRepo) PendingForListingTx(_ context.Context, _ *sqlx.Tx, listingID uuid.UUID, typ transaction.Type) (*transaction.Transaction, error) {
	for _, t := range f.rows {
		if t.ListingID.Valid && t.ListingID.UUID == listingID && t.Type == typ && t.Status == transaction.StatusPending {
			return t, nil
		}
	}
	return nil, transaction.ErrTransactionNotFound
}

func (f *fakeTxnRepo) ExistsForUserListing(_ context.Context, userID, listingID uuid.UUID, typ transaction.Type) (bool, error) {
	for _, t := range f.rows {
		if t.UserID == userID && t.ListingID.Valid && t.ListingID.UUID == listingID &&
			t.Type == typ && t.Status == transaction.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTxnRepo) Summary(context.Context) (*transaction.Summary, error) {
	return &transaction.Summary{}, nil
}

func (f *fakeTxnRepo) forListing(listingID uuid.UUID) []*transaction.Transaction {
	var out []*transaction.Transaction
	for _, t := range f.rows {
		if t.ListingID.Valid && t.ListingID.UUID == listingID {
			out = append(out, t)
		}
	}
	return out
}

type fakeWalletRepo struct {
	balances map[uuid.UUID]int64
}

func (f *fakeWalletRepo) EnsureWallet(_ context.Context, userID uuid.UUID) error {
	if _, ok := f.balances[userID]; !ok {
		f.balances[userID] = 0
	}
	return nil
}

func (f *fakeWalletRepo) EnsureWalletTx(ctx context.Context, _ *sqlx.Tx, userID uuid.UUID) error {
	return f.EnsureWallet(ctx, userID)
}

func (f *fakeWalletRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	return &wallet.Wallet{UserID: userID, Balance: f.balances[userID]}, nil
}

func (f *fakeWalletRepo) apply(userID uuid.UUID, delta int64) (int64, error) {
	next := f.balances[userID] + delta
	if next < 0 {
		return 0, wallet.ErrInsufficientFunds
	}
	f.balances[userID] = next
	return next, nil
}

func (f *fakeWalletRepo) Credit(_ context.Context, userID uuid.UUID, amount int64, _ wallet.Operation, _ string, _ wallet.Ref) (int64, error) {
	return f.apply(userID, amount)
}

func (f *fakeWalletRepo) Debit(_ context.Context, userID uuid.UUID, amount int64, _ string, _ wallet.Ref) (int64, error) {
	return f.apply(userID, -amount)
}

func (f *fakeWalletRepo) CreditTx(_ context.Context, _ *sqlx.Tx, userID uuid.UUID, amount int64, _ wallet.Operation, _ string, _ wallet.Ref) (int64, error) {
	return f.apply(userID, amount)
}

func (f *fakeWalletRepo) DebitTx(_ context.Context, _ *sqlx.Tx, userID uuid.UUID, amount int64, _ string, _ wallet.Ref) (int64, error) {
	return f.apply(userID, -amount)
}

func (f *fakeWalletRepo) ListEntries(context.Context, uuid.UUID, int, int) ([]wallet.Entry, int64, error) {
	return nil, 0, nil
}

// --- fixture ---

type fixture struct {
	svc      *Service
	listings *fakeListingRepo
	users    *fakeUserRepo
	txns     *fakeTxnRepo
	wallets  *fakeWalletRepo
}

func newFixture() *fixture {
	listings := newFakeListingRepo()
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	txns := &fakeTxnRepo{}
	wallets := &fakeWalletRepo{balances: map[uuid.UUID]int64{}}

	svc := NewService(listings, users,
		transaction.NewService(txns), wallet.NewService(wallets), fakeRunner{})

	return &fixture{svc: svc, listings: listings, users: users, txns: txns, wallets: wallets}
}

func (f *fixture) addUser(premium bool, balance int64) uuid.UUID {
	u := &user.User{
		ID:       uuid.New(),
		CampusID: uuid.New(),
		Phone:    "+7700120" + uuid.NewString()[:4],
		Email:    uuid.NewString()[:8] + "@campus.test",
	}
	if premium {
		u.IsPremium = true
		u.PremiumExpires = sql.NullTime{Time: time.Now().Add(15 * 24 * time.Hour), Valid: true}
	}
	f.users.users[u.ID] = u
	f.wallets.balances[u.ID] = balance
	return u.ID
}

// --- tests ---

func TestCreateRegularListing(t *testing.T) {
	f := newFixture()
	sellerID := f.addUser(false, 100)

	resp, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
		Title:    "Calculus II notes",
		Category: "NOTES_HANDWRITTEN",
		Price:    150,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := f.txns.forListing(resp.Listing.ID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(rows))
	}
	if rows[0].Type != transaction.TypeListingFee || rows[0].Amount != 10 || rows[0].Status != transaction.StatusCompleted {
		t.Errorf("unexpected transaction: %+v", rows[0])
	}
	if resp.TotalCharged != 10 {
		t.Errorf("TotalCharged = %d, want 10", resp.TotalCharged)
	}
	if f.wallets.balances[sellerID] != 90 {
		t.Errorf("balance = %d, want 90", f.wallets.balances[sellerID])
	}
}

func TestCreateHighValueServiceListing(t *testing.T) {
	f := newFixture()
	sellerID := f.addUser(false, 100)

	resp, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
		Title:    "Math tutoring, 10 sessions",
		Category: "SERVICES_TUTORING",
		Price:    6000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := f.txns.forListing(resp.Listing.ID)
	if len(rows) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(rows))
	}

	byType := map[transaction.Type]*transaction.Transaction{}
	for _, row := range rows {
		byType[row.Type] = row
	}

	if tr := byType[transaction.TypeListingFee]; tr == nil || tr.Amount != 10 || tr.Status != transaction.StatusCompleted {
		t.Errorf("listing fee row: %+v", tr)
	}
	if tr := byType[transaction.TypeServiceMarketplace]; tr == nil || tr.Amount != 15 || tr.Status != transaction.StatusCompleted {
		t.Errorf("service fee row: %+v", tr)
	}
	tr := byType[transaction.TypeHighValueCommission]
	if tr == nil || tr.Amount != 120 || tr.Status != transaction.StatusPending {
		t.Fatalf("commission row: %+v", tr)
	}
	if !tr.CommissionRate.Valid || tr.CommissionRate.Float64 != 2 {
		t.Errorf("commission rate: %+v", tr.CommissionRate)
	}

	// Pending commission is not charged upfront.
	if resp.TotalCharged != 25 {
		t.Errorf("TotalCharged = %d, want 25", resp.TotalCharged)
	}
	if f.wallets.balances[sellerID] != 75 {
		t.Errorf("balance = %d, want 75", f.wallets.balances[sellerID])
	}
}

func TestCreatePremiumWaivesBaseFeeOnly(t *testing.T) {
	f := newFixture()
	sellerID := f.addUser(true, 100)

	resp, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
		Title:    "Essay proofreading",
		Category: "SERVICES_TUTORING",
		Price:    200,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !resp.FeeWaived {
		t.Error("FeeWaived should be true for premium seller")
	}

	rows := f.txns.forListing(resp.Listing.ID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(rows))
	}
	if rows[0].Type != transaction.TypeServiceMarketplace || rows[0].Amount != 15 {
		t.Errorf("unexpected transaction: %+v", rows[0])
	}
	if f.wallets.balances[sellerID] != 85 {
		t.Errorf("balance = %d, want 85", f.wallets.balances[sellerID])
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	f := newFixture()
	sellerID := f.addUser(false, 100)

	_, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
		Title:    "Mystery box",
		Category: "NOT_A_CATEGORY",
		Price:    50,
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestCreateInsufficientFunds(t *testing.T) {
	f := newFixture()
	sellerID := f.addUser(false, 5)

	_, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
		Title:    "Desk lamp",
		Category: "MISC",
		Price:    50,
	})
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestUnlockContact(t *testing.T) {
	f := newFixture()
	sellerID := f.addUser(false, 100)

	resp, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
		Title:    "Bike",
		Category: "MISC",
		Price:    300,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	listingID := resp.Listing.ID

	t.Run("regular buyer pays the unlock fee", func(t *testing.T) {
		buyerID := f.addUser(false, 20)
		contact, err := f.svc.UnlockContact(context.Background(), listingID, buyerID)
		if err != nil {
			t.Fatalf("UnlockContact: %v", err)
		}
		if contact.Charged != 5 {
			t.Errorf("Charged = %d, want 5", contact.Charged)
		}
		if contact.Phone == "" {
			t.Error("contact phone should be revealed")
		}
		if f.wallets.balances[buyerID] != 15 {
			t.Errorf("balance = %d, want 15", f.wallets.balances[buyerID])
		}
	})

	t.Run("second unlock by the same buyer is free", func(t *testing.T) {
		buyerID := f.addUser(false, 20)
		if _, err := f.svc.UnlockContact(context.Background(), listingID, buyerID); err != nil {
			t.Fatalf("first unlock: %v", err)
		}
		contact, err := f.svc.UnlockContact(context.Background(), listingID, buyerID)
		if err != nil {
			t.Fatalf("second unlock: %v", err)
		}
		if contact.Charged != 0 {
			t.Errorf("Charged = %d, want 0", contact.Charged)
		}
		if f.wallets.balances[buyerID] != 15 {
			t.Errorf("balance = %d, want 15", f.wallets.balances[buyerID])
		}
	})

	t.Run("premium buyer unlocks for free", func(t *testing.T) {
		buyerID := f.addUser(true, 20)
		contact, err := f.svc.UnlockContact(context.Background(), listingID, buyerID)
		if err != nil {
			t.Fatalf("UnlockContact: %v", err)
		}
		if contact.Charged != 0 {
			t.Errorf("Charged = %d, want 0", contact.Charged)
		}
		if f.wallets.balances[buyerID] != 20 {
			t.Errorf("balance = %d, want 20", f.wallets.balances[buyerID])
		}
	})

	t.Run("owner sees own contact without charge", func(t *testing.T) {
		contact, err := f.svc.UnlockContact(context.Background(), listingID, sellerID)
		if err != nil {
			t.Fatalf("UnlockContact: %v", err)
		}
		if !contact.OwnListing || contact.Charged != 0 {
			t.Errorf("unexpected contact response: %+v", contact)
		}
	})
}

func TestSponsor(t *testing.T) {
	f := newFixture()
	sellerID := f.addUser(false, 100)

	resp, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
		Title:    "Dorm fridge",
		Category: "MISC",
		Price:    900,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	listingID := resp.Listing.ID

	sponsored, err := f.svc.Sponsor(context.Background(), listingID, sellerID)
	if err != nil {
		t.Fatalf("Sponsor: %v", err)
	}
	if sponsored.Charged != 25 {
		t.Errorf("Charged = %d, want 25", sponsored.Charged)
	}
	if !sponsored.Listing.IsFeatured {
		t.Error("listing should be featured")
	}

	t.Run("already sponsored refused", func(t *testing.T) {
		if _, err := f.svc.Sponsor(context.Background(), listingID, sellerID); !errors.Is(err, ErrAlreadySponsored) {
			t.Errorf("err = %v, want ErrAlreadySponsored", err)
		}
	})

	t.Run("premium seller pays the discounted fee", func(t *testing.T) {
		premiumID := f.addUser(true, 100)
		created, err := f.svc.Create(context.Background(), premiumID, CreateRequest{
			Title:    "Mini speaker",
			Category: "MISC",
			Price:    400,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		sponsored, err := f.svc.Sponsor(context.Background(), created.Listing.ID, premiumID)
		if err != nil {
			t.Fatalf("Sponsor: %v", err)
		}
		if sponsored.Charged != 15 {
			t.Errorf("Charged = %d, want 15", sponsored.Charged)
		}
	})

	t.Run("non-owner cannot sponsor", func(t *testing.T) {
		otherID := f.addUser(false, 100)
		if _, err := f.svc.Sponsor(context.Background(), listingID, otherID); !errors.Is(err, ErrNotOwner) {
			t.Errorf("err = %v, want ErrNotOwner", err)
		}
	})
}

func TestMarkSold(t *testing.T) {
	f := newFixture()

	t.Run("settles the pending commission", func(t *testing.T) {
		sellerID := f.addUser(false, 1000)
		created, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
			Title:    "Gaming laptop",
			Category: "ELECTRONICS_LAPTOPS",
			Price:    30000,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		balanceBefore := f.wallets.balances[sellerID]
		sold, err := f.svc.MarkSold(context.Background(), created.Listing.ID, sellerID)
		if err != nil {
			t.Fatalf("MarkSold: %v", err)
		}
		if sold.Commission == nil {
			t.Fatal("expected a settled commission")
		}
		if sold.Commission.Status != transaction.StatusCompleted {
			t.Errorf("commission status = %s, want COMPLETED", sold.Commission.Status)
		}
		// 4% of 30000
		if sold.Commission.Amount != 1200 {
			t.Errorf("commission amount = %d, want 1200", sold.Commission.Amount)
		}
		if got := balanceBefore - f.wallets.balances[sellerID]; got != 1200 {
			t.Errorf("wallet debited %d, want 1200", got)
		}
	})

	t.Run("no commission for low-value listings", func(t *testing.T) {
		sellerID := f.addUser(false, 100)
		created, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
			Title:    "Textbook",
			Category: "MISC",
			Price:    200,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		sold, err := f.svc.MarkSold(context.Background(), created.Listing.ID, sellerID)
		if err != nil {
			t.Fatalf("MarkSold: %v", err)
		}
		if sold.Commission != nil {
			t.Errorf("unexpected commission: %+v", sold.Commission)
		}
	})

	t.Run("double sell refused", func(t *testing.T) {
		sellerID := f.addUser(false, 100)
		created, err := f.svc.Create(context.Background(), sellerID, CreateRequest{
			Title:    "Chair",
			Category: "MISC",
			Price:    80,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := f.svc.MarkSold(context.Background(), created.Listing.ID, sellerID); err != nil {
			t.Fatalf("first MarkSold: %v", err)
		}
		if _, err := f.svc.MarkSold(context.Background(), created.Listing.ID, sellerID); !errors.Is(err, ErrAlreadySold) {
			t.Errorf("err = %v, want ErrAlreadySold", err)
		}
	})
}
