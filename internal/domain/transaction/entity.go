package transaction

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/pricing"
)

// Type classifies a platform fee transaction. The definition lives in
// the pricing package so pricing can describe fees without importing
// this package; the alias keeps transaction.Type as the public name.
type Type = pricing.Type

const (
	TypeListingFee          = pricing.TypeListingFee
	TypeServiceMarketplace  = pricing.TypeServiceMarketplace
	TypeHighValueCommission = pricing.TypeHighValueCommission
	TypeContactUnlock       = pricing.TypeContactUnlock
	TypePremiumSubscription = pricing.TypePremiumSubscription
	TypeSponsoredListing    = pricing.TypeSponsoredListing
	TypeBusinessAd          = pricing.TypeBusinessAd
	TypeEventPartnership    = pricing.TypeEventPartnership
	TypeCampusStorePurchase = pricing.TypeCampusStorePurchase
)

// Status represents transaction status
type Status = pricing.Status

const (
	StatusPending   = pricing.StatusPending
	StatusCompleted = pricing.StatusCompleted
	StatusFailed    = pricing.StatusFailed
)

// Transaction is an append-only fee record. One row per fee component;
// the only permitted mutation is PENDING -> COMPLETED.
type Transaction struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	Type   Type   `db:"type" json:"type"`
	Amount int64  `db:"amount" json:"amount"`
	Status Status `db:"status" json:"status"`

	// CommissionRate is the percentage applied for HIGH_VALUE_COMMISSION rows.
	CommissionRate sql.NullFloat64 `db:"commission_rate" json:"commission_rate,omitempty"`

	ListingID    uuid.NullUUID `db:"listing_id" json:"listing_id,omitempty"`
	OrderID      uuid.NullUUID `db:"order_id" json:"order_id,omitempty"`
	EventID      uuid.NullUUID `db:"event_id" json:"event_id,omitempty"`
	BusinessAdID uuid.NullUUID `db:"business_ad_id" json:"business_ad_id,omitempty"`

	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// IsValidType reports whether t is a known transaction type.
func IsValidType(t Type) bool {
	switch t {
	case TypeListingFee, TypeServiceMarketplace, TypeHighValueCommission,
		TypeContactUnlock, TypePremiumSubscription, TypeSponsoredListing,
		TypeBusinessAd, TypeEventPartnership, TypeCampusStorePurchase:
		return true
	}
	return false
}
