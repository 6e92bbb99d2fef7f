package pricing

import (
	"testing"
)

func TestCommissionRate(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		want  float64
	}{
		{"zero price", 0, 0},
		{"below first tier", 4999, 0},
		{"exactly 5000 is exempt", 5000, 0},
		{"just above 5000", 5001, 2},
		{"exactly 10000 stays in 2% tier", 10000, 2},
		{"just above 10000", 10001, 3},
		{"exactly 20000 stays in 3% tier", 20000, 3},
		{"just above 20000", 20001, 4},
		{"exactly 50000 stays in 4% tier", 50000, 4},
		{"just above 50000", 50001, 5},
		{"very high price", 1000000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommissionRate(tt.price); got != tt.want {
				t.Errorf("CommissionRate(%d) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		price int64
		rate  float64
		want  int64
	}{
		{6000, 2, 120},
		{15000, 3, 450},
		{25000, 4, 1000},
		{60000, 5, 3000},
		{5001, 2, 100}, // truncates, not rounds
	}

	for _, tt := range tests {
		if got := CommissionAmount(tt.price, tt.rate); got != tt.want {
			t.Errorf("CommissionAmount(%d, %v) = %d, want %d", tt.price, tt.rate, got, tt.want)
		}
	}
}

func TestListingFees(t *testing.T) {
	t.Run("regular listing, regular user", func(t *testing.T) {
		fees := ListingFees(100, false, false)
		if len(fees) != 1 {
			t.Fatalf("expected 1 fee, got %d", len(fees))
		}
		if fees[0].Type != TypeListingFee || fees[0].Amount != ListingBaseFee {
			t.Errorf("unexpected fee: %+v", fees[0])
		}
	})

	t.Run("premium user pays no base fee", func(t *testing.T) {
		fees := ListingFees(100, false, true)
		if len(fees) != 0 {
			t.Fatalf("expected no fees, got %+v", fees)
		}
	})

	t.Run("service fee is not waived for premium", func(t *testing.T) {
		fees := ListingFees(100, true, true)
		if len(fees) != 1 {
			t.Fatalf("expected 1 fee, got %d", len(fees))
		}
		if fees[0].Type != TypeServiceMarketplace || fees[0].Amount != ServiceMarketplaceFee {
			t.Errorf("unexpected fee: %+v", fees[0])
		}
	})

	t.Run("high-value service listing produces three components", func(t *testing.T) {
		fees := ListingFees(6000, true, false)
		if len(fees) != 3 {
			t.Fatalf("expected 3 fees, got %d: %+v", len(fees), fees)
		}

		byType := map[Type]Fee{}
		for _, f := range fees {
			byType[f.Type] = f
		}

		if f := byType[TypeListingFee]; f.Amount != 10 || f.Status != StatusCompleted {
			t.Errorf("listing fee: %+v", f)
		}
		if f := byType[TypeServiceMarketplace]; f.Amount != 15 || f.Status != StatusCompleted {
			t.Errorf("service fee: %+v", f)
		}
		if f := byType[TypeHighValueCommission]; f.Amount != 120 || f.Status != StatusPending || f.Rate != 2 {
			t.Errorf("commission fee: %+v", f)
		}
	})

	t.Run("commission is pending, not charged upfront", func(t *testing.T) {
		fees := ListingFees(60000, false, false)
		if got := UpfrontTotal(fees); got != ListingBaseFee {
			t.Errorf("UpfrontTotal = %d, want %d", got, ListingBaseFee)
		}
	})
}

func TestUnlockFee(t *testing.T) {
	if _, charged := UnlockFee(true); charged {
		t.Error("premium user should not be charged for contact unlock")
	}

	fee, charged := UnlockFee(false)
	if !charged {
		t.Fatal("regular user should be charged for contact unlock")
	}
	if fee.Amount != ContactUnlockFee || fee.Type != TypeContactUnlock {
		t.Errorf("unexpected fee: %+v", fee)
	}
}

func TestSponsorFee(t *testing.T) {
	if fee := SponsorFee(false); fee.Amount != SponsorFeeRegular {
		t.Errorf("regular sponsor fee = %d, want %d", fee.Amount, SponsorFeeRegular)
	}
	if fee := SponsorFee(true); fee.Amount != SponsorFeePremium {
		t.Errorf("premium sponsor fee = %d, want %d", fee.Amount, SponsorFeePremium)
	}
}

func TestBusinessAdFee(t *testing.T) {
	if fee := BusinessAdFee(3); fee.Amount != 597 {
		t.Errorf("BusinessAdFee(3) = %d, want 597", fee.Amount)
	}
}

func TestEventPartnershipFee(t *testing.T) {
	tiers := map[string]int64{
		"bronze":   500,
		"silver":   1500,
		"gold":     3000,
		"platinum": 5000,
	}
	for tier, want := range tiers {
		fee, ok := EventPartnershipFee(tier)
		if !ok {
			t.Errorf("tier %q not recognized", tier)
			continue
		}
		if fee.Amount != want {
			t.Errorf("tier %q fee = %d, want %d", tier, fee.Amount, want)
		}
	}

	if _, ok := EventPartnershipFee("diamond"); ok {
		t.Error("unknown tier should not be accepted")
	}
}
