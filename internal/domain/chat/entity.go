package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Room is a buyer/seller conversation about a single listing. The
// buyer is always the user who opened the conversation.
type Room struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	ListingID          uuid.UUID      `db:"listing_id" json:"listing_id"`
	BuyerID            uuid.UUID      `db:"buyer_id" json:"buyer_id"`
	SellerID           uuid.UUID      `db:"seller_id" json:"seller_id"`
	LastMessageAt      sql.NullTime   `db:"last_message_at" json:"last_message_at,omitempty"`
	LastMessagePreview sql.NullString `db:"last_message_preview" json:"last_message_preview,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// HasParticipant reports whether the user belongs to this room.
func (r *Room) HasParticipant(userID uuid.UUID) bool {
	return r.BuyerID == userID || r.SellerID == userID
}

// OtherParticipant returns the counterparty for a given member.
func (r *Room) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if r.BuyerID == userID {
		return r.SellerID
	}
	return r.BuyerID
}

type Message struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	RoomID    uuid.UUID    `db:"room_id" json:"room_id"`
	SenderID  uuid.UUID    `db:"sender_id" json:"sender_id"`
	Content   string       `db:"content" json:"content"`
	IsRead    bool         `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
