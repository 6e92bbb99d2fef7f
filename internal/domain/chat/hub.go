package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventNewMessage EventType = "new_message"
	EventTyping     EventType = "typing"
	EventRead       EventType = "read"
)

const (
	roomChannelPrefix = "chat:room:"
	presenceKey       = "chat:presence:online"
	presenceChannel   = "chat:presence"
)

// WSEvent is the envelope sent over the WebSocket.
type WSEvent struct {
	Type     EventType `json:"type"`
	RoomID   uuid.UUID `json:"room_id,omitempty"`
	SenderID uuid.UUID `json:"sender_id,omitempty"`
	Message  *Message  `json:"message,omitempty"`
}

// Connection is one WebSocket client.
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub fans chat events out to connected clients. With Redis attached,
// room events go through Pub/Sub so every API instance sees them;
// without Redis the hub broadcasts to local connections only.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	localRooms  map[uuid.UUID]map[uuid.UUID]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		localRooms:  make(map[uuid.UUID]map[uuid.UUID]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, roomChannelPrefix+"*", presenceChannel)
	}

	return h
}

// Run processes registrations until Shutdown. Call in a goroutine.
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()

			h.publishPresence(conn.UserID, true)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("chat client connected")

		case conn := <-h.unregister:
			lastConn := false
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
					lastConn = true
				}
				for roomID, users := range h.localRooms {
					delete(users, conn.UserID)
					if len(users) == 0 {
						delete(h.localRooms, roomID)
					}
				}
			}
			h.mu.Unlock()

			if lastConn {
				h.publishPresence(conn.UserID, false)
			}
			log.Debug().Str("user_id", conn.UserID.String()).Msg("chat client disconnected")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			if len(msg.Channel) > len(roomChannelPrefix) &&
				msg.Channel[:len(roomChannelPrefix)] == roomChannelPrefix {
				roomID, err := uuid.Parse(msg.Channel[len(roomChannelPrefix):])
				if err != nil {
					continue
				}
				var event WSEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				h.broadcastLocal(roomID, &event)
			}
		}
	}
}

func (h *Hub) broadcastLocal(roomID uuid.UUID, event *WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users, ok := h.localRooms[roomID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	for userID := range users {
		for conn := range h.connections[userID] {
			select {
			case conn.Send <- data:
			default:
				// buffer full, drop for this client
				log.Warn().Str("user_id", userID.String()).Msg("chat send buffer full")
			}
		}
	}
}

func (h *Hub) Register(conn *Connection)   { h.register <- conn }
func (h *Hub) Unregister(conn *Connection) { h.unregister <- conn }

// SubscribeToRoom marks the user as listening to a room on this instance.
func (h *Hub) SubscribeToRoom(roomID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localRooms[roomID] == nil {
		h.localRooms[roomID] = make(map[uuid.UUID]bool)
	}
	h.localRooms[roomID][userID] = true
}

// BroadcastToRoom delivers an event to every room member across all
// instances. Redis failures fall back to local delivery.
func (h *Hub) BroadcastToRoom(roomID uuid.UUID, event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("marshal chat event")
		return
	}

	if h.redis != nil {
		if err := h.redis.Publish(h.ctx, roomChannelPrefix+roomID.String(), data).Err(); err != nil {
			log.Error().Err(err).Str("room_id", roomID.String()).Msg("chat publish failed")
			h.broadcastLocal(roomID, event)
		}
		return
	}

	h.broadcastLocal(roomID, event)
}

func (h *Hub) publishPresence(userID uuid.UUID, online bool) {
	if h.redis == nil {
		return
	}

	ctx := context.Background()
	if online {
		h.redis.SAdd(ctx, presenceKey, userID.String())
		h.redis.Expire(ctx, presenceKey, 5*time.Minute)
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:online", userID))
	} else {
		h.redis.SRem(ctx, presenceKey, userID.String())
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:offline", userID))
	}
}

// IsOnline reports whether the user has an active connection anywhere.
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	if h.redis == nil {
		h.mu.RLock()
		conns, ok := h.connections[userID]
		h.mu.RUnlock()
		return ok && len(conns) > 0
	}
	return h.redis.SIsMember(context.Background(), presenceKey, userID.String()).Val()
}

func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
