package photo

import (
	"time"

	"github.com/google/uuid"
)

// Photo is an image attached to a listing, stored with a generated
// thumbnail.
type Photo struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ListingID    uuid.UUID `db:"listing_id" json:"listing_id"`
	Key          string    `db:"key" json:"-"`
	ThumbKey     string    `db:"thumb_key" json:"-"`
	URL          string    `db:"url" json:"url"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	ContentType  string    `db:"content_type" json:"content_type"`
	Width        int       `db:"width" json:"width"`
	Height       int       `db:"height" json:"height"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
