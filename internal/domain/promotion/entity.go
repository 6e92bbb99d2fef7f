package promotion

import (
	"time"

	"github.com/google/uuid"
)

// BusinessAd is a paid banner from a local business, billed per month.
type BusinessAd struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	ImageURL  string    `db:"image_url" json:"image_url,omitempty"`
	TargetURL string    `db:"target_url" json:"target_url"`
	Months    int       `db:"months" json:"months"`
	Amount    int64     `db:"amount" json:"amount"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Event is a sponsored campus event, priced by partnership tier.
type Event struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Tier        string    `db:"tier" json:"tier"`
	Amount      int64     `db:"amount" json:"amount"`
	EventDate   time.Time `db:"event_date" json:"event_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
