package listing

import (
	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
)

type CreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Condition   string `json:"condition" validate:"omitempty,condition"`
	Location    string `json:"location" validate:"max=200"`
}

type UpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	Condition   *string `json:"condition" validate:"omitempty,condition"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
}

// FeeLine itemizes one fee component charged or scheduled during a
// paid action.
type FeeLine struct {
	Type           transaction.Type   `json:"type"`
	Amount         int64              `json:"amount"`
	Status         transaction.Status `json:"status"`
	CommissionRate float64            `json:"commission_rate,omitempty"`
	TransactionID  uuid.UUID          `json:"transaction_id"`
}

// CreateResponse returns the new listing with its itemized fees.
type CreateResponse struct {
	Listing      *Listing  `json:"listing"`
	Fees         []FeeLine `json:"fees"`
	TotalCharged int64     `json:"total_charged"`
	FeeWaived    bool      `json:"fee_waived"`
	Balance      int64     `json:"balance"`
}

// ContactResponse reveals the seller's contact details after an
// unlock.
type ContactResponse struct {
	OwnListing bool   `json:"own_listing,omitempty"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Charged    int64  `json:"charged"`
}

// SponsorResponse reports the sponsored window and what it cost.
type SponsorResponse struct {
	Listing *Listing `json:"listing"`
	Charged int64    `json:"charged"`
	Balance int64    `json:"balance"`
}

// SoldResponse reports commission settlement on sale.
type SoldResponse struct {
	Listing    *Listing                 `json:"listing"`
	Commission *transaction.Transaction `json:"commission,omitempty"`
}

type Filter struct {
	CampusID     uuid.NullUUID
	UserID       uuid.NullUUID
	Category     string
	Query        string
	MinPrice     int64
	MaxPrice     int64
	Condition    string
	FeaturedOnly bool
	// IncludeUnavailable lets owners and admins see sold/removed rows.
	IncludeUnavailable bool
	Sort               string
	Page               int
	PerPage            int
}

func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	switch f.Sort {
	case "price_asc", "price_desc", "popular", "newest":
	default:
		f.Sort = "newest"
	}
}
