package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/middleware"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/response"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/validator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

type Handler struct {
	service     *Service
	hub         *Hub
	rateLimiter *RateLimiter
	upgrader    websocket.Upgrader
}

// RateLimiter caps message throughput per user. Without Redis it
// fails open.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  30,
		window: time.Minute,
	}
}

func (rl *RateLimiter) Allow(userID uuid.UUID) bool {
	if rl.redis == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:chat:%s", userID)
	ctx := context.Background()

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}
	return count <= int64(rl.limit)
}

func NewHandler(service *Service, hub *Hub, redisClient *redis.Client, allowedOrigins []string) *Handler {
	return &Handler{
		service:     service,
		hub:         hub,
		rateLimiter: NewRateLimiter(redisClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Warn().Str("origin", origin).Msg("websocket origin rejected")
				return false
			},
		},
	}
}

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	room, err := h.service.StartConversation(r.Context(), userID, req.ListingID)
	if err != nil {
		switch err {
		case ErrChatWithSelf:
			response.BadRequest(w, "cannot start a chat about your own listing")
		case ErrListingGone:
			response.Conflict(w, "listing is no longer available")
		case listing.ErrListingNotFound:
			response.NotFound(w, "listing not found")
		default:
			h.writeChatError(w, err)
		}
		return
	}

	response.Created(w, newRoomResponse(room, userID, 0))
}

func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	rooms, err := h.service.ListRooms(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("list chat rooms failed")
		response.InternalError(w)
		return
	}

	items := make([]*RoomResponse, len(rooms))
	for i, room := range rooms {
		items[i] = newRoomResponse(room.Room, userID, room.UnreadCount)
	}
	response.OK(w, items)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid room id")
		return
	}

	limit, offset := 50, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	userID := middleware.GetUserID(r.Context())
	messages, err := h.service.GetMessages(r.Context(), userID, roomID, limit, offset)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	response.OK(w, messages)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid room id")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if !h.rateLimiter.Allow(userID) {
		response.Error(w, http.StatusTooManyRequests, "rate_limit_exceeded", "too many messages, slow down")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, roomID, req.Content)
	if err != nil {
		if err == ErrEmptyMessage {
			response.BadRequest(w, "message content is empty")
			return
		}
		h.writeChatError(w, err)
		return
	}

	response.Created(w, msg)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid room id")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.MarkRead(r.Context(), userID, roomID); err != nil {
		h.writeChatError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})

	h.hub.BroadcastToRoom(roomID, &WSEvent{Type: EventRead, RoomID: roomID, SenderID: userID})
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	count, _ := h.service.UnreadCount(r.Context(), userID)
	response.OK(w, map[string]int{"unread_count": count})
}

// WebSocket upgrades the connection and subscribes the client to all
// of its rooms.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Connection{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)

	rooms, _ := h.service.ListRooms(r.Context(), userID)
	for _, room := range rooms {
		h.hub.SubscribeToRoom(room.Room.ID, userID)
	}

	go h.wsReader(client)
	go h.wsWriter(client)
}

func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", client.UserID.String()).Msg("websocket read error")
			}
			break
		}

		if !h.rateLimiter.Allow(client.UserID) {
			continue
		}

		var event struct {
			Type   string    `json:"type"`
			RoomID uuid.UUID `json:"room_id"`
		}
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}

		switch event.Type {
		case "typing":
			h.hub.BroadcastToRoom(event.RoomID, &WSEvent{
				Type:     EventTyping,
				RoomID:   event.RoomID,
				SenderID: client.UserID,
			})
		case "read":
			_ = h.service.MarkRead(context.Background(), client.UserID, event.RoomID)
			h.hub.BroadcastToRoom(event.RoomID, &WSEvent{
				Type:     EventRead,
				RoomID:   event.RoomID,
				SenderID: client.UserID,
			})
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	switch err {
	case ErrRoomNotFound:
		response.NotFound(w, "chat room not found")
	case ErrNotRoomMember:
		response.Forbidden(w, "you are not a member of this chat")
	default:
		log.Error().Err(err).Msg("chat request failed")
		response.InternalError(w)
	}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/rooms", h.StartConversation)
		r.Get("/rooms", h.ListRooms)
		r.Get("/rooms/{id}/messages", h.GetMessages)
		r.Post("/rooms/{id}/messages", h.SendMessage)
		r.Post("/rooms/{id}/read", h.MarkRead)
		r.Get("/unread", h.UnreadCount)
		r.Get("/ws", h.WebSocket)
	})
	return r
}
