package chat

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
)

type fakeRepo struct {
	rooms    map[uuid.UUID]*Room
	messages []*Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rooms: make(map[uuid.UUID]*Room)}
}

func (f *fakeRepo) CreateRoom(_ context.Context, room *Room) error {
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRepo) GetRoom(_ context.Context, id uuid.UUID) (*Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeRepo) FindRoom(_ context.Context, listingID, buyerID uuid.UUID) (*Room, error) {
	for _, room := range f.rooms {
		if room.ListingID == listingID && room.BuyerID == buyerID {
			return room, nil
		}
	}
	return nil, ErrRoomNotFound
}

func (f *fakeRepo) ListRoomsForUser(_ context.Context, userID uuid.UUID) ([]*RoomWithUnread, error) {
	var out []*RoomWithUnread
	for _, room := range f.rooms {
		if room.HasParticipant(userID) {
			unread := 0
			for _, m := range f.messages {
				if m.RoomID == room.ID && m.SenderID != userID && !m.IsRead {
					unread++
				}
			}
			out = append(out, &RoomWithUnread{Room: room, UnreadCount: unread})
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateMessage(_ context.Context, msg *Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeRepo) ListMessages(_ context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	var out []*Message
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, roomID, readerID uuid.UUID) error {
	for _, m := range f.messages {
		if m.RoomID == roomID && m.SenderID != readerID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, m := range f.messages {
		room, ok := f.rooms[m.RoomID]
		if ok && room.HasParticipant(userID) && m.SenderID != userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeListings struct {
	listings map[uuid.UUID]*listing.Listing
}

func (f *fakeListings) GetByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, listing.ErrListingNotFound
	}
	return l, nil
}

func newFixture() (*Service, *fakeRepo, *fakeListings) {
	repo := newFakeRepo()
	listings := &fakeListings{listings: make(map[uuid.UUID]*listing.Listing)}
	return NewService(repo, listings, nil), repo, listings
}

func addListing(listings *fakeListings, sellerID uuid.UUID, available bool) uuid.UUID {
	id := uuid.New()
	listings.listings[id] = &listing.Listing{
		ID:          id,
		UserID:      sellerID,
		Title:       "Physics textbook",
		IsAvailable: available,
		CreatedAt:   time.Now(),
	}
	return id
}

func TestStartConversation(t *testing.T) {
	svc, _, listings := newFixture()
	ctx := context.Background()

	seller := uuid.New()
	buyer := uuid.New()
	listingID := addListing(listings, seller, true)

	room, err := svc.StartConversation(ctx, buyer, listingID)
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	if room.BuyerID != buyer || room.SellerID != seller {
		t.Errorf("room participants = %s/%s, want %s/%s", room.BuyerID, room.SellerID, buyer, seller)
	}

	again, err := svc.StartConversation(ctx, buyer, listingID)
	if err != nil {
		t.Fatalf("second StartConversation: %v", err)
	}
	if again.ID != room.ID {
		t.Error("expected the existing room, got a new one")
	}
}

func TestStartConversationOwnListing(t *testing.T) {
	svc, _, listings := newFixture()
	seller := uuid.New()
	listingID := addListing(listings, seller, true)

	if _, err := svc.StartConversation(context.Background(), seller, listingID); err != ErrChatWithSelf {
		t.Errorf("err = %v, want ErrChatWithSelf", err)
	}
}

func TestStartConversationUnavailableListing(t *testing.T) {
	svc, _, listings := newFixture()
	listingID := addListing(listings, uuid.New(), false)

	if _, err := svc.StartConversation(context.Background(), uuid.New(), listingID); err != ErrListingGone {
		t.Errorf("err = %v, want ErrListingGone", err)
	}
}

func TestSendMessage(t *testing.T) {
	svc, repo, listings := newFixture()
	ctx := context.Background()

	seller := uuid.New()
	buyer := uuid.New()
	listingID := addListing(listings, seller, true)
	room, _ := svc.StartConversation(ctx, buyer, listingID)

	msg, err := svc.SendMessage(ctx, buyer, room.ID, "  is this still available?  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.Content != "is this still available?" {
		t.Errorf("content = %q, not trimmed", msg.Content)
	}

	if _, err := svc.SendMessage(ctx, buyer, room.ID, "   "); err != ErrEmptyMessage {
		t.Errorf("blank message err = %v, want ErrEmptyMessage", err)
	}

	stranger := uuid.New()
	if _, err := svc.SendMessage(ctx, stranger, room.ID, "hi"); err != ErrNotRoomMember {
		t.Errorf("stranger err = %v, want ErrNotRoomMember", err)
	}

	if count, _ := repo.CountUnread(ctx, seller); count != 1 {
		t.Errorf("seller unread = %d, want 1", count)
	}
}

func TestMarkRead(t *testing.T) {
	svc, _, listings := newFixture()
	ctx := context.Background()

	seller := uuid.New()
	buyer := uuid.New()
	listingID := addListing(listings, seller, true)
	room, _ := svc.StartConversation(ctx, buyer, listingID)

	svc.SendMessage(ctx, buyer, room.ID, "ping")
	svc.SendMessage(ctx, buyer, room.ID, "ping again")

	if count, _ := svc.UnreadCount(ctx, seller); count != 2 {
		t.Fatalf("unread before read = %d, want 2", count)
	}

	if err := svc.MarkRead(ctx, seller, room.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if count, _ := svc.UnreadCount(ctx, seller); count != 0 {
		t.Errorf("unread after read = %d, want 0", count)
	}

	if err := svc.MarkRead(ctx, uuid.New(), room.ID); err != ErrNotRoomMember {
		t.Errorf("stranger MarkRead err = %v, want ErrNotRoomMember", err)
	}
}
