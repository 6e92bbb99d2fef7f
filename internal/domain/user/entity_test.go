package user

import (
	"database/sql"
	"testing"
	"time"
)

func TestPremiumActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		isPremium       bool
		expires         sql.NullTime
		want            bool
	}{
		{
			name:      "active premium with future expiry",
			isPremium: true,
			expires:   sql.NullTime{Time: now.Add(24 * time.Hour), Valid: true},
			want:      true,
		},
		{
			name:      "premium with lapsed expiry",
			isPremium: true,
			expires:   sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
			want:      false,
		},
		{
			name:      "premium flag set but no expiry",
			isPremium: true,
			expires:   sql.NullTime{},
			want:      false,
		},
		{
			name:      "not premium with future expiry",
			isPremium: false,
			expires:   sql.NullTime{Time: now.Add(24 * time.Hour), Valid: true},
			want:      false,
		},
		{
			name:      "expiry exactly now",
			isPremium: true,
			expires:   sql.NullTime{Time: now, Valid: true},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{IsPremium: tt.isPremium, PremiumExpires: tt.expires}
			if got := u.PremiumActiveAt(now); got != tt.want {
				t.Fatalf("PremiumActiveAt = %v, want %v", got, tt.want)
			}
		})
	}
}
