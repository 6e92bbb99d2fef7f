package chat

import (
	"time"

	"github.com/google/uuid"
)

type StartConversationRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type RoomResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ListingID          uuid.UUID  `json:"listing_id"`
	OtherUserID        uuid.UUID  `json:"other_user_id"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	LastMessagePreview string     `json:"last_message_preview,omitempty"`
	UnreadCount        int        `json:"unread_count"`
	CreatedAt          time.Time  `json:"created_at"`
}

func newRoomResponse(room *Room, viewerID uuid.UUID, unread int) *RoomResponse {
	resp := &RoomResponse{
		ID:          room.ID,
		ListingID:   room.ListingID,
		OtherUserID: room.OtherParticipant(viewerID),
		UnreadCount: unread,
		CreatedAt:   room.CreatedAt,
	}
	if room.LastMessageAt.Valid {
		t := room.LastMessageAt.Time
		resp.LastMessageAt = &t
	}
	if room.LastMessagePreview.Valid {
		resp.LastMessagePreview = room.LastMessagePreview.String
	}
	return resp
}

// RoomWithUnread pairs a room with the viewer's unread count.
type RoomWithUnread struct {
	Room        *Room
	UnreadCount int
}
