/*
Package chat contains the relay core: the room registry, the scope hub used for broadcasts,
the presence coordinator, the message router, and the per-connection client pumps.

This file defines the wire protocol. Every frame, in either direction, is a JSON text message
of the form {"event": "<name>", "data": <payload>}.
*/
package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"

	"debatehub/internal/app/user"
)

// Inbound event names.
const (
	EventJoinRoom      = "join-room"
	EventLeaveRoom     = "leave-room"
	EventChatMessage   = "chat-message"
	EventDebateMessage = "debate-message"
	EventDebateTyping  = "debate-typing"
)

// Outbound-only event names.
const (
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
	EventRoomUsers  = "room-users"
)

// Frame is the envelope of every WebSocket message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outboundFrame is Frame with an unmarshalled payload.
type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// EncodeFrame marshals one outbound frame.
func EncodeFrame(event string, data any) ([]byte, error) {
	return json.Marshal(outboundFrame{Event: event, Data: data})
}

// RoomMessage is the inbound payload of chat-message and debate-message.
type RoomMessage struct {
	RoomID  string          `json:"roomId"`
	Message json.RawMessage `json:"message"`
}

// TypingEvent is the inbound payload of debate-typing.
type TypingEvent struct {
	RoomID   string `json:"roomId"`
	Side     string `json:"side"`
	IsTyping bool   `json:"isTyping"`
}

// TypingPayload is the outbound debate-typing payload; the room id is stripped.
type TypingPayload struct {
	Side     string `json:"side"`
	IsTyping bool   `json:"isTyping"`
}

// ChatUser is the sender stamp attached to every relayed chat message.
type ChatUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ChatMessage is an outbound chat-message: the client's message fields plus the sender.
// A "user" field supplied by the client is always replaced by User.
type ChatMessage struct {
	Fields map[string]json.RawMessage
	User   ChatUser
}

var errMessageNotObject = errors.New("message must be a JSON object")

// NewChatMessage parses the client's message object and stamps it with sender.
// A missing or null message is treated as an empty object.
func NewChatMessage(raw json.RawMessage, sender user.Identity) (ChatMessage, error) {
	msg := ChatMessage{
		Fields: map[string]json.RawMessage{},
		User:   ChatUser{ID: sender.ID, Email: sender.DisplayName},
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return msg, nil
	}
	if trimmed[0] != '{' {
		return ChatMessage{}, errMessageNotObject
	}
	if err := json.Unmarshal(trimmed, &msg.Fields); err != nil {
		return ChatMessage{}, err
	}
	delete(msg.Fields, "user")

	return msg, nil
}

// MarshalJSON writes the client fields in key order followed by "user".
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		if k != "user" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, k := range keys {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.Fields[k])
		buf.WriteByte(',')
	}

	userJSON, err := json.Marshal(m.User)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"user":`)
	buf.Write(userJSON)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// DebateMessage is an outbound debate-message; the client's message is relayed byte for byte.
type DebateMessage struct {
	Message json.RawMessage
}

// MarshalJSON writes the relayed message, or null when none was supplied.
func (m DebateMessage) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(m.Message)) == 0 {
		return []byte("null"), nil
	}
	return m.Message, nil
}
