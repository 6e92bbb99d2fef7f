package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
)

type fakeRunner struct{}

func (fakeRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fakeStoreRepo struct {
	products map[uuid.UUID]*Product
	orders   []*Order
}

func (f *fakeStoreRepo) ListProducts(_ context.Context, campusID uuid.UUID, activeOnly bool) ([]Product, error) {
	var out []Product
	for _, p := range f.products {
		if activeOnly && !p.IsActive {
			continue
		}
		if campusID != uuid.Nil && p.CampusID != campusID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStoreRepo) GetProduct(_ context.Context, id uuid.UUID) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (f *fakeStoreRepo) GetProductForUpdateTx(ctx context.Context, _ *sqlx.Tx, id uuid.UUID) (*Product, error) {
	return f.GetProduct(ctx, id)
}

func (f *fakeStoreRepo) CreateProduct(_ context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.IsActive = true
	f.products[p.ID] = p
	return nil
}

func (f *fakeStoreRepo) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	p, ok := f.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Stock = stock
	return nil
}

func (f *fakeStoreRepo) DecrementStockTx(_ context.Context, _ *sqlx.Tx, id uuid.UUID, qty int) error {
	p, ok := f.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Stock -= qty
	return nil
}

func (f *fakeStoreRepo) CreateOrderTx(_ context.Context, _ *sqlx.Tx, o *Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeStoreRepo) ListOrders(_ context.Context, userID uuid.UUID) ([]Order, error) {
	var out []Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

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

func (f *fakeTxnRepo) GetByID(context.Context, uuid.UUID) (*transaction.Transaction, error) {
	return nil, transaction.ErrTransactionNotFound
}

func (f *fakeTxnRepo) List(context.Context, transaction.ListFilter) ([]transaction.Transaction, int64, error) {
	return nil, 0, nil
}

func (f *fakeTxnRepo) MarkCompletedTx(context.Context, *sqlx.Tx, uuid.UUID) error { return nil }

func (f *fakeTxnRepo) PendingForListingTx(context.Context, *sqlx.Tx, uuid.UUID, transaction.Type) (*transaction.Transaction, error) {
	return nil, transaction.ErrTransactionNotFound
}

func (f *fakeTxnRepo) ExistsForUserListing(context.Context, uuid.UUID, uuid.UUID, transaction.Type) (bool, error) {
	return false, nil
}

func (f *fakeTxnRepo) Summary(context.Context) (*transaction.Summary, error) {
	return &transaction.Summary{}, nil
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

func newTestStore() (*Service, *fakeStoreRepo, *fakeTxnRepo, *fakeWalletRepo) {
	repo := &fakeStoreRepo{products: map[uuid.UUID]*Product{}}
	txns := &fakeTxnRepo{}
	wallets := &fakeWalletRepo{balances: map[uuid.UUID]int64{}}
	svc := NewService(repo, transaction.NewService(txns), wallet.NewService(wallets), fakeRunner{})
	return svc, repo, txns, wallets
}

func addProduct(repo *fakeStoreRepo, name string, price int64, stock int) uuid.UUID {
	p := &Product{ID: uuid.New(), Name: name, Price: price, Stock: stock, IsActive: true}
	repo.products[p.ID] = p
	return p.ID
}

func TestPlaceOrder(t *testing.T) {
	svc, repo, txns, wallets := newTestStore()
	ctx := context.Background()

	hoodieID := addProduct(repo, "Campus Hoodie", 45, 10)
	mugID := addProduct(repo, "Campus Mug", 12, 5)

	buyerID := uuid.New()
	campusID := uuid.New()
	wallets.balances[buyerID] = 200

	resp, err := svc.PlaceOrder(ctx, buyerID, PlaceOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: hoodieID, Quantity: 2},
			{ProductID: mugID, Quantity: 3},
		},
		CampusID:        campusID,
		ShippingAddress: "Hostel B, Room 214",
		Notes:           "leave at reception",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// 2*45 + 3*12
	if resp.Charged != 126 {
		t.Errorf("Charged = %d, want 126", resp.Charged)
	}
	if wallets.balances[buyerID] != 74 {
		t.Errorf("balance = %d, want 74", wallets.balances[buyerID])
	}
	if repo.products[hoodieID].Stock != 8 || repo.products[mugID].Stock != 2 {
		t.Errorf("stock not decremented: hoodie %d, mug %d",
			repo.products[hoodieID].Stock, repo.products[mugID].Stock)
	}
	if len(txns.rows) != 1 || txns.rows[0].Type != transaction.TypeCampusStorePurchase || txns.rows[0].Amount != 126 {
		t.Errorf("unexpected transactions: %+v", txns.rows)
	}
	if !txns.rows[0].OrderID.Valid || txns.rows[0].OrderID.UUID != resp.Order.ID {
		t.Error("transaction should reference the order")
	}
	if resp.TransactionID != txns.rows[0].ID {
		t.Errorf("TransactionID = %s, want %s", resp.TransactionID, txns.rows[0].ID)
	}

	order := resp.Order
	if order.OrderNumber == "" {
		t.Error("order number missing")
	}
	if order.Status != OrderStatusCompleted {
		t.Errorf("status = %s, want %s", order.Status, OrderStatusCompleted)
	}
	if order.CampusID != campusID {
		t.Errorf("campus_id = %s, want %s", order.CampusID, campusID)
	}
	if order.ShippingAddress != "Hostel B, Room 214" || order.Notes != "leave at reception" {
		t.Errorf("delivery details not carried: %+v", order)
	}
}

func TestOrderNumbersDistinct(t *testing.T) {
	a, b := newOrderNumber(), newOrderNumber()
	if a == b {
		t.Errorf("order numbers collide: %s", a)
	}
	if !strings.HasPrefix(a, "ORD-") {
		t.Errorf("order number %s missing ORD- prefix", a)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	svc, repo, _, wallets := newTestStore()
	ctx := context.Background()

	scarfID := addProduct(repo, "Campus Scarf", 20, 1)
	buyerID := uuid.New()
	wallets.balances[buyerID] = 500

	_, err := svc.PlaceOrder(ctx, buyerID, PlaceOrderRequest{
		Items: []OrderItemRequest{{ProductID: scarfID, Quantity: 3}},
	})

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if stockErr.Product != "Campus Scarf" || stockErr.Requested != 3 || stockErr.Available != 1 {
		t.Errorf("stock error: %+v", stockErr)
	}
	if wallets.balances[buyerID] != 500 {
		t.Errorf("balance = %d, want 500 (no charge)", wallets.balances[buyerID])
	}
}

func TestPlaceOrderInsufficientFunds(t *testing.T) {
	svc, repo, _, wallets := newTestStore()
	ctx := context.Background()

	deskID := addProduct(repo, "Desk Organizer", 80, 4)
	buyerID := uuid.New()
	wallets.balances[buyerID] = 50

	_, err := svc.PlaceOrder(ctx, buyerID, PlaceOrderRequest{
		Items: []OrderItemRequest{{ProductID: deskID, Quantity: 1}},
	})
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestPlaceOrderEmpty(t *testing.T) {
	svc, _, _, _ := newTestStore()
	if _, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{}); !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("err = %v, want ErrEmptyOrder", err)
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, _, _, wallets := newTestStore()
	buyerID := uuid.New()
	wallets.balances[buyerID] = 100

	_, err := svc.PlaceOrder(context.Background(), buyerID, PlaceOrderRequest{
		Items: []OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
