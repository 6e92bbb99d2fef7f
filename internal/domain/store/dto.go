package store

import "github.com/google/uuid"

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1,lte=50"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,max=20,dive"`
	CampusID        uuid.UUID          `json:"campus_id" validate:"required"`
	ShippingAddress string             `json:"shipping_address" validate:"omitempty,max=500"`
	Notes           string             `json:"notes" validate:"omitempty,max=1000"`
}

type OrderResponse struct {
	Order         *Order    `json:"order"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Charged       int64     `json:"charged"`
	Balance       int64     `json:"balance"`
}

type CreateProductRequest struct {
	CampusID    uuid.UUID `json:"campus_id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Price       int64     `json:"price" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
}
