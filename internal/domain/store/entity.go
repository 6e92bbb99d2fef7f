package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks an order's lifecycle. Orders are paid from the
// wallet at checkout, so they start out completed.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Product is campus-store merchandise with tracked stock.
type Product struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CampusID    uuid.UUID `db:"campus_id" json:"campus_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       int64     `db:"price" json:"price"`
	Stock       int       `db:"stock" json:"stock"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Order struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	OrderNumber     string      `db:"order_number" json:"order_number"`
	UserID          uuid.UUID   `db:"user_id" json:"user_id"`
	CampusID        uuid.UUID   `db:"campus_id" json:"campus_id"`
	Total           int64       `db:"total" json:"total"`
	Status          OrderStatus `db:"status" json:"status"`
	ShippingAddress string      `db:"shipping_address" json:"shipping_address,omitempty"`
	Notes           string      `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// newOrderNumber yields a human-readable order reference, unique
// enough for support lookups; the id stays the real key.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.NewString()[:8]))
}

// OrderItem snapshots product name and price at purchase time.
type OrderItem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Price     int64     `db:"price" json:"price"`
	Quantity  int       `db:"quantity" json:"quantity"`
}
