package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	ListProducts(ctx context.Context, campusID uuid.UUID, activeOnly bool) ([]Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	DecrementStockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, qty int) error
	CreateOrderTx(ctx context.Context, tx *sqlx.Tx, o *Order) error
	ListOrders(ctx context.Context, userID uuid.UUID) ([]Order, error)
}

type sqlxRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

const productColumns = `id, campus_id, name, description, price, stock, image_url, is_active, created_at, updated_at`

func (r *sqlxRepository) ListProducts(ctx context.Context, campusID uuid.UUID, activeOnly bool) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE TRUE`
	args := []interface{}{}
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	if campusID != uuid.Nil {
		args = append(args, campusID)
		query += fmt.Sprintf(` AND campus_id = $%d`, len(args))
	}
	query += ` ORDER BY name`

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *sqlxRepository) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *sqlxRepository) GetProductForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Product, error) {
	var p Product
	err := tx.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return &p, nil
}

func (r *sqlxRepository) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.IsActive = true

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO products (id, campus_id, name, description, price, stock, image_url, is_active, created_at, updated_at)
		VALUES (:id, :campus_id, :name, :description, :price, :stock, :image_url, :is_active, :created_at, :updated_at)`, p)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *sqlxRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`, stock, id)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *sqlxRepository) DecrementStockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, qty int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2`, qty, id)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}

func (r *sqlxRepository) CreateOrderTx(ctx context.Context, tx *sqlx.Tx, o *Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, user_id, campus_id, total, status, shipping_address, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.OrderNumber, o.UserID, o.CampusID, o.Total, o.Status,
		o.ShippingAddress, o.Notes, o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = o.ID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *sqlxRepository) ListOrders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT id, order_number, user_id, campus_id, total, status, shipping_address, notes, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range orders {
		items := []OrderItem{}
		err := r.db.SelectContext(ctx, &items, `
			SELECT id, order_id, product_id, name, price, quantity
			FROM order_items WHERE order_id = $1`, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		orders[i].Items = items
	}
	return orders, nil
}
