package chat

import (
	"context"

	"github.com/rs/zerolog"

	"debatehub/internal/pkg/logx"
)

// MessageRouter fans room messages out through the hub. It holds no state and does not check
// that the sender is a member of the target room.
type MessageRouter struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewMessageRouter builds a MessageRouter over hub.
func NewMessageRouter(hub *Hub) *MessageRouter {
	return &MessageRouter{hub: hub, logger: logx.Component("router")}
}

// Chat relays msg to the whole room, sender included.
func (m *MessageRouter) Chat(_ context.Context, roomID string, msg ChatMessage) int {
	n := m.hub.EmitToScope(roomID, EventChatMessage, msg, nil)
	m.logger.Debug().Str("room_id", roomID).Str("user_id", msg.User.ID).Int("delivered", n).Msg("Chat message relayed.")
	return n
}

// Debate relays msg unmodified to the whole room, sender included.
func (m *MessageRouter) Debate(_ context.Context, roomID string, msg DebateMessage) int {
	n := m.hub.EmitToScope(roomID, EventDebateMessage, msg, nil)
	m.logger.Debug().Str("room_id", roomID).Int("delivered", n).Msg("Debate message relayed.")
	return n
}

// Typing relays a typing indicator to the room, sender excluded.
func (m *MessageRouter) Typing(_ context.Context, s Session, roomID string, payload TypingPayload) int {
	return m.hub.EmitToScope(roomID, EventDebateTyping, payload, s)
}
