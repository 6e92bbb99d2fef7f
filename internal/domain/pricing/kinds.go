package pricing

// Type classifies a platform fee transaction.
type Type string

const (
	TypeListingFee          Type = "LISTING_FEE"
	TypeServiceMarketplace  Type = "SERVICE_MARKETPLACE_FEE"
	TypeHighValueCommission Type = "HIGH_VALUE_COMMISSION"
	TypeContactUnlock       Type = "CONTACT_UNLOCK"
	TypePremiumSubscription Type = "PREMIUM_SUBSCRIPTION"
	TypeSponsoredListing    Type = "SPONSORED_LISTING"
	TypeBusinessAd          Type = "BUSINESS_AD"
	TypeEventPartnership    Type = "EVENT_PARTNERSHIP"
	TypeCampusStorePurchase Type = "CAMPUS_STORE_PURCHASE"
)

// Status represents transaction status
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)
