package listing

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Condition describes the physical state of a listed item.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

type Listing struct {
	ID       uuid.UUID `db:"id" json:"id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	CampusID uuid.UUID `db:"campus_id" json:"campus_id"`

	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
	Price       int64  `db:"price" json:"price"`
	Condition   string `db:"condition" json:"condition,omitempty"`
	Location    string `db:"location" json:"location,omitempty"`

	IsAvailable     bool         `db:"is_available" json:"is_available"`
	IsFeatured      bool         `db:"is_featured" json:"is_featured"`
	FeaturedUntil   sql.NullTime `db:"featured_until" json:"featured_until,omitempty"`
	ContactUnlocked bool         `db:"contact_unlocked" json:"contact_unlocked"`
	Views           int64        `db:"views" json:"views"`
	SoldAt          sql.NullTime `db:"sold_at" json:"sold_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FeaturedActiveAt reports whether the listing's sponsored window
// covers t.
func (l *Listing) FeaturedActiveAt(t time.Time) bool {
	return l.IsFeatured && l.FeaturedUntil.Valid && l.FeaturedUntil.Time.After(t)
}
