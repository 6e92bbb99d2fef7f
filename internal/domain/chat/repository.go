package chat

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	FindRoom(ctx context.Context, listingID, buyerID uuid.UUID) (*Room, error)
	ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]*RoomWithUnread, error)

	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error)
	MarkRead(ctx context.Context, roomID, readerID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO chat_rooms (id, listing_id, buyer_id, seller_id, created_at)
		VALUES (:id, :listing_id, :buyer_id, :seller_id, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, room)
	return err
}

func (r *repository) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.GetContext(ctx, &room, `SELECT * FROM chat_rooms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) FindRoom(ctx context.Context, listingID, buyerID uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.GetContext(ctx, &room, `
		SELECT * FROM chat_rooms WHERE listing_id = $1 AND buyer_id = $2`, listingID, buyerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]*RoomWithUnread, error) {
	rows := []struct {
		Room
		Unread int `db:"unread"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT r.*,
		       (SELECT COUNT(*) FROM chat_messages m
		        WHERE m.room_id = r.id AND m.sender_id <> $1 AND NOT m.is_read) AS unread
		FROM chat_rooms r
		WHERE r.buyer_id = $1 OR r.seller_id = $1
		ORDER BY COALESCE(r.last_message_at, r.created_at) DESC`, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*RoomWithUnread, len(rows))
	for i := range rows {
		room := rows[i].Room
		out[i] = &RoomWithUnread{Room: &room, UnreadCount: rows[i].Unread}
	}
	return out, nil
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO chat_messages (id, room_id, sender_id, content, is_read, created_at)
		VALUES (:id, :room_id, :sender_id, :content, :is_read, :created_at)`, msg)
	if err != nil {
		return err
	}

	preview := msg.Content
	if len(preview) > 80 {
		preview = preview[:80]
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE chat_rooms SET last_message_at = $1, last_message_preview = $2 WHERE id = $3`,
		msg.CreatedAt, preview, msg.RoomID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	messages := []*Message{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, roomID, limit, offset)
	return messages, err
}

func (r *repository) MarkRead(ctx context.Context, roomID, readerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE chat_messages
		SET is_read = TRUE, read_at = $1
		WHERE room_id = $2 AND sender_id <> $3 AND NOT is_read`,
		time.Now(), roomID, readerID)
	return err
}

func (r *repository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM chat_messages m
		JOIN chat_rooms r ON r.id = m.room_id
		WHERE (r.buyer_id = $1 OR r.seller_id = $1)
		  AND m.sender_id <> $1 AND NOT m.is_read`, userID)
	return count, err
}
