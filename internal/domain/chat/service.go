package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
)

// ListingSource is the slice of the listing repository chat needs.
type ListingSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
}

type Service struct {
	repo     Repository
	listings ListingSource
	hub      *Hub
}

func NewService(repo Repository, listings ListingSource, hub *Hub) *Service {
	return &Service{repo: repo, listings: listings, hub: hub}
}

// StartConversation opens (or returns the existing) room between the
// caller and a listing's seller.
func (s *Service) StartConversation(ctx context.Context, buyerID, listingID uuid.UUID) (*Room, error) {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.UserID == buyerID {
		return nil, ErrChatWithSelf
	}
	if !l.IsAvailable {
		return nil, ErrListingGone
	}

	if room, err := s.repo.FindRoom(ctx, listingID, buyerID); err == nil {
		return room, nil
	} else if err != ErrRoomNotFound {
		return nil, err
	}

	room := &Room{
		ID:        uuid.New(),
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  l.UserID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, userID uuid.UUID) ([]*RoomWithUnread, error) {
	return s.repo.ListRoomsForUser(ctx, userID)
}

func (s *Service) GetMessages(ctx context.Context, userID, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, ErrNotRoomMember
	}
	return s.repo.ListMessages(ctx, roomID, limit, offset)
}

func (s *Service) SendMessage(ctx context.Context, senderID, roomID uuid.UUID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(senderID) {
		return nil, ErrNotRoomMember
	}

	msg := &Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(roomID, &WSEvent{
			Type:     EventNewMessage,
			RoomID:   roomID,
			SenderID: senderID,
			Message:  msg,
		})
	}
	return msg, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, roomID uuid.UUID) error {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(userID) {
		return ErrNotRoomMember
	}
	return s.repo.MarkRead(ctx, roomID, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
