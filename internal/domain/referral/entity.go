package referral

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusExpired   Status = "EXPIRED"
)

// Referral links a referrer to a user who signed up with their code.
// The reward credits once the referred user creates their first
// listing before the referral expires.
type Referral struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	ReferrerID uuid.UUID    `db:"referrer_id" json:"referrer_id"`
	ReferredID uuid.UUID    `db:"referred_id" json:"referred_id"`
	Code       string       `db:"code" json:"code"`
	Status     Status       `db:"status" json:"status"`
	Reward     int64        `db:"reward" json:"reward"`
	ExpiresAt  time.Time    `db:"expires_at" json:"expires_at"`
	RewardedAt sql.NullTime `db:"rewarded_at" json:"rewarded_at,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// Stats summarizes a user's referral performance.
type Stats struct {
	Code        string `json:"code"`
	Total       int64  `db:"total" json:"total"`
	Completed   int64  `db:"completed" json:"completed"`
	Pending     int64  `db:"pending" json:"pending"`
	TotalEarned int64  `db:"total_earned" json:"total_earned"`
}

// LeaderboardEntry ranks referrers by completed referrals.
type LeaderboardEntry struct {
	UserID    uuid.UUID `json:"user_id"`
	Completed int64     `json:"completed"`
}
