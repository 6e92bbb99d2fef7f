// Package store runs the campus merchandise shop: admin-managed
// products with tracked stock, paid from the buyer's wallet.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/database"
)

type Service struct {
	repo    Repository
	txns    *transaction.Service
	wallets *wallet.Service
	runner  database.Runner
}

func NewService(repo Repository, txns *transaction.Service, wallets *wallet.Service, runner database.Runner) *Service {
	return &Service{repo: repo, txns: txns, wallets: wallets, runner: runner}
}

// ListProducts lists active products, optionally scoped to a campus
// (uuid.Nil means all campuses).
func (s *Service) ListProducts(ctx context.Context, campusID uuid.UUID) ([]Product, error) {
	return s.repo.ListProducts(ctx, campusID, true)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// PlaceOrder locks every ordered product, checks stock, decrements it
// and charges the order total, all in one transaction. Any line with
// insufficient stock aborts the whole order.
func (s *Service) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		CampusID:        req.CampusID,
		Status:          OrderStatusCompleted,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}
	resp := &OrderResponse{}

	err := s.runner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		for _, item := range req.Items {
			p, err := s.repo.GetProductForUpdateTx(ctx, tx, item.ProductID)
			if err != nil {
				return err
			}
			if !p.IsActive {
				return ErrProductNotFound
			}
			if p.Stock < item.Quantity {
				return &InsufficientStockError{
					Product:   p.Name,
					Requested: item.Quantity,
					Available: p.Stock,
				}
			}

			if err := s.repo.DecrementStockTx(ctx, tx, p.ID, item.Quantity); err != nil {
				return err
			}

			order.Items = append(order.Items, OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  item.Quantity,
			})
			order.Total += p.Price * int64(item.Quantity)
		}

		if err := s.repo.CreateOrderTx(ctx, tx, order); err != nil {
			return err
		}

		fee := pricing.Fee{
			Type:        transaction.TypeCampusStorePurchase,
			Amount:      order.Total,
			Status:      transaction.StatusCompleted,
			Description: "Campus store order",
		}
		t := transaction.FromFee(userID, fee)
		t.OrderID = uuid.NullUUID{UUID: order.ID, Valid: true}
		if err := s.txns.RecordTx(ctx, tx, t); err != nil {
			return err
		}
		resp.TransactionID = t.ID

		balance, err := s.wallets.ChargeTx(ctx, tx, userID, order.Total, fee.Description, t.ID)
		if err != nil {
			return err
		}
		resp.Balance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Order = order
	resp.Charged = order.Total

	log.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int64("total", order.Total).
		Int("items", len(order.Items)).
		Msg("store order placed")
	return resp, nil
}

func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return s.repo.ListOrders(ctx, userID)
}

// CreateProduct adds a product to the shop. Admin only; the handler
// enforces the role.
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	p := &Product{
		CampusID:    req.CampusID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetStock replaces a product's stock count. Admin only.
func (s *Service) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return s.repo.SetStock(ctx, id, stock)
}
