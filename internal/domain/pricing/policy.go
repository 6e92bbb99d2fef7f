// Package pricing holds the fee schedule for the marketplace. Every fee
// the platform charges is decided here; callers record the resulting
// fees and debit wallets, they never compute amounts themselves.
package pricing

import (
	"fmt"
)

// Fee schedule, in wallet currency units.
const (
	ListingBaseFee        int64 = 10
	ServiceMarketplaceFee int64 = 15
	ContactUnlockFee      int64 = 5
	SubscriptionFee       int64 = 99
	SubscriptionDays            = 30
	SponsorFeeRegular     int64 = 25
	SponsorFeePremium     int64 = 15
	SponsorDays                 = 30
	BusinessAdMonthlyFee  int64 = 199

	// MaxTopUp is the largest single wallet top-up the platform accepts.
	MaxTopUp int64 = 50000

	// Referral rewards credit the referrer once the referred user makes
	// their first listing inside the validity window.
	ReferralReward int64 = 50
	ReferralDays         = 30
)

// Event partnership tiers.
const (
	EventTierBronze   = "bronze"
	EventTierSilver   = "silver"
	EventTierGold     = "gold"
	EventTierPlatinum = "platinum"
)

var eventTierFees = map[string]int64{
	EventTierBronze:   500,
	EventTierSilver:   1500,
	EventTierGold:     3000,
	EventTierPlatinum: 5000,
}

// Fee describes a single fee component to be recorded and charged.
type Fee struct {
	Type   Type
	Amount int64
	Status Status

	// Rate is the commission percentage, set only for
	// HIGH_VALUE_COMMISSION fees.
	Rate float64

	Description string
}

// CommissionRate returns the high-value commission percentage for a
// listing price. Tiers are strictly greater-than: a price of exactly
// 5000 carries no commission.
func CommissionRate(price int64) float64 {
	switch {
	case price > 50000:
		return 5
	case price > 20000:
		return 4
	case price > 10000:
		return 3
	case price > 5000:
		return 2
	default:
		return 0
	}
}

// CommissionAmount computes the commission owed on price using integer
// arithmetic, truncating fractional units.
func CommissionAmount(price int64, rate float64) int64 {
	return price * int64(rate) / 100
}

// ListingFees returns the fee components due when a listing is created.
// Premium sellers have the base fee waived; the service marketplace fee
// and the high-value commission are never waived. Commission fees are
// recorded PENDING and settle when the item is marked sold; everything
// else settles immediately.
func ListingFees(price int64, isService, premiumActive bool) []Fee {
	var fees []Fee

	if !premiumActive {
		fees = append(fees, Fee{
			Type:        TypeListingFee,
			Amount:      ListingBaseFee,
			Status:      StatusCompleted,
			Description: "Listing fee",
		})
	}

	if isService {
		fees = append(fees, Fee{
			Type:        TypeServiceMarketplace,
			Amount:      ServiceMarketplaceFee,
			Status:      StatusCompleted,
			Description: "Service marketplace fee",
		})
	}

	if rate := CommissionRate(price); rate > 0 {
		fees = append(fees, Fee{
			Type:        TypeHighValueCommission,
			Amount:      CommissionAmount(price, rate),
			Status:      StatusPending,
			Rate:        rate,
			Description: fmt.Sprintf("High-value commission (%.0f%%)", rate),
		})
	}

	return fees
}

// UpfrontTotal sums the fee components that are charged at creation
// time. Pending commissions are settled on sale, not upfront.
func UpfrontTotal(fees []Fee) int64 {
	var total int64
	for _, f := range fees {
		if f.Status == StatusCompleted {
			total += f.Amount
		}
	}
	return total
}

// UnlockFee returns the contact unlock fee and whether it is charged at
// all. Premium buyers unlock contacts for free.
func UnlockFee(premiumActive bool) (Fee, bool) {
	if premiumActive {
		return Fee{}, false
	}
	return Fee{
		Type:        TypeContactUnlock,
		Amount:      ContactUnlockFee,
		Status:      StatusCompleted,
		Description: "Contact unlock",
	}, true
}

// PremiumFee returns the subscription fee component.
func PremiumFee() Fee {
	return Fee{
		Type:        TypePremiumSubscription,
		Amount:      SubscriptionFee,
		Status:      StatusCompleted,
		Description: fmt.Sprintf("Premium subscription (%d days)", SubscriptionDays),
	}
}

// SponsorFee returns the sponsored-listing fee, discounted for premium
// sellers.
func SponsorFee(premiumActive bool) Fee {
	amount := SponsorFeeRegular
	if premiumActive {
		amount = SponsorFeePremium
	}
	return Fee{
		Type:        TypeSponsoredListing,
		Amount:      amount,
		Status:      StatusCompleted,
		Description: fmt.Sprintf("Sponsored listing (%d days)", SponsorDays),
	}
}

// BusinessAdFee returns the fee for a business ad running the given
// number of whole months.
func BusinessAdFee(months int) Fee {
	return Fee{
		Type:        TypeBusinessAd,
		Amount:      BusinessAdMonthlyFee * int64(months),
		Status:      StatusCompleted,
		Description: fmt.Sprintf("Business ad (%d months)", months),
	}
}

// EventPartnershipFee returns the fee for an event partnership tier.
// ok is false for unknown tiers.
func EventPartnershipFee(tier string) (Fee, bool) {
	amount, ok := eventTierFees[tier]
	if !ok {
		return Fee{}, false
	}
	return Fee{
		Type:        TypeEventPartnership,
		Amount:      amount,
		Status:      StatusCompleted,
		Description: fmt.Sprintf("Event partnership (%s)", tier),
	}, true
}

// EventTiers lists the valid partnership tiers.
func EventTiers() []string {
	return []string{EventTierBronze, EventTierSilver, EventTierGold, EventTierPlatinum}
}
