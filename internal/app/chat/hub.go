package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"debatehub/internal/app/user"
	"debatehub/internal/pkg/logx"
)

// Session is one open connection as seen by the hub and the coordinator.
type Session interface {
	// ID is the unique connection id.
	ID() string

	// Identity is the handshake identity, fixed for the connection's lifetime.
	Identity() user.Identity

	// Send queues an encoded frame without blocking. It reports false when the frame was dropped.
	Send(frame []byte) bool

	// Close releases the session's outbound queue.
	Close()
}

// Hub tracks broadcast scopes: for every room, the sessions subscribed to it.
// It is independent of the Registry; a session may be in a scope without being present
// in the registry and vice versa.
type Hub struct {
	mu sync.RWMutex

	// scopes maps roomID -> connection id -> session.
	scopes map[string]map[string]Session

	// sessions maps connection id -> session for every open connection.
	sessions map[string]Session

	// memberships maps connection id -> set of scopes it is subscribed to.
	memberships map[string]map[string]struct{}

	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		scopes:      make(map[string]map[string]Session),
		sessions:    make(map[string]Session),
		memberships: make(map[string]map[string]struct{}),
		logger:      logx.Component("hub"),
	}
}

// Register records an open session.
func (h *Hub) Register(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[s.ID()] = s
}

// JoinScope subscribes s to roomID's broadcasts. Joining twice is a no-op.
func (h *Hub) JoinScope(s Session, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	scope, ok := h.scopes[roomID]
	if !ok {
		scope = make(map[string]Session)
		h.scopes[roomID] = scope
	}
	scope[s.ID()] = s

	rooms, ok := h.memberships[s.ID()]
	if !ok {
		rooms = make(map[string]struct{})
		h.memberships[s.ID()] = rooms
	}
	rooms[roomID] = struct{}{}
}

// LeaveScope unsubscribes s from roomID.
func (h *Hub) LeaveScope(s Session, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(s.ID(), roomID)
}

func (h *Hub) leaveLocked(connID, roomID string) {
	if scope, ok := h.scopes[roomID]; ok {
		delete(scope, connID)
		if len(scope) == 0 {
			delete(h.scopes, roomID)
		}
	}
	if rooms, ok := h.memberships[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(h.memberships, connID)
		}
	}
}

// Unregister removes s from every scope and forgets it.
func (h *Hub) Unregister(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	connID := s.ID()
	for roomID := range h.memberships[connID] {
		h.leaveLocked(connID, roomID)
	}
	delete(h.sessions, connID)
}

// InScope reports whether s is subscribed to roomID.
func (h *Hub) InScope(s Session, roomID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.scopes[roomID][s.ID()]
	return ok
}

// ScopeSize returns the number of sessions subscribed to roomID.
func (h *Hub) ScopeSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.scopes[roomID])
}

// SessionCount returns the number of registered sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions)
}

// EmitTo sends one event to s alone.
func (h *Hub) EmitTo(s Session, event string, data any) {
	frame, err := EncodeFrame(event, data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to encode frame.")
		return
	}

	if !s.Send(frame) {
		h.logger.Warn().Str("conn_id", s.ID()).Str("event", event).Msg("Send queue full, frame dropped.")
	}
}

// EmitToScope sends one event to every session subscribed to roomID except the excluded one.
// A nil except includes every subscriber. Delivery is best-effort: full queues drop the frame.
func (h *Hub) EmitToScope(roomID, event string, data any, except Session) int {
	frame, err := EncodeFrame(event, data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Str("room_id", roomID).Msg("Failed to encode frame.")
		return 0
	}

	exceptID := ""
	if except != nil {
		exceptID = except.ID()
	}

	h.mu.RLock()
	targets := make([]Session, 0, len(h.scopes[roomID]))
	for connID, s := range h.scopes[roomID] {
		if except != nil && connID == exceptID {
			continue
		}
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if s.Send(frame) {
			delivered++
			continue
		}
		h.logger.Warn().
			Str("conn_id", s.ID()).
			Str("room_id", roomID).
			Str("event", event).
			Msg("Send queue full, frame dropped.")
	}

	return delivered
}

// Shutdown closes every registered session's outbound queue and forgets all scopes.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	sessions := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.scopes = make(map[string]map[string]Session)
	h.sessions = make(map[string]Session)
	h.memberships = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}

	h.logger.Info().Int("sessions", len(sessions)).Msg("Hub shutdown complete.")
}
