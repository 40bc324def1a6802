package chat

import (
	"context"

	"github.com/rs/zerolog"

	"debatehub/internal/pkg/logx"
	"debatehub/internal/pkg/telemetry"
)

// Coordinator applies join, leave and disconnect to the Registry and emits the resulting
// presence notifications. Each registry mutation is atomic; notifications are sent after it.
type Coordinator struct {
	registry *Registry
	hub      *Hub
	metrics  *telemetry.Instruments

	// gateLeave suppresses user-left on leave-room when nothing was removed.
	gateLeave bool

	logger zerolog.Logger
}

// NewCoordinator builds a Coordinator over an existing registry and hub.
func NewCoordinator(registry *Registry, hub *Hub, metrics *telemetry.Instruments, gateLeave bool) *Coordinator {
	return &Coordinator{
		registry:  registry,
		hub:       hub,
		metrics:   metrics,
		gateLeave: gateLeave,
		logger:    logx.Component("presence"),
	}
}

// Join subscribes s to roomID, records its identity as present, tells the rest of the room
// and sends s the ordered list of present display names (including itself).
//
// Subscribing, recording and emitting are separate critical sections. Two connections joining
// the same room at once may each see the other both in room-users and as a user-joined event;
// clients treat the pair idempotently, so this ordering is accepted.
func (c *Coordinator) Join(ctx context.Context, s Session, roomID string) {
	id := s.Identity()

	c.hub.JoinScope(s, roomID)

	result := c.registry.Join(roomID, id.ID, id.DisplayName)
	c.metrics.Joined(ctx, result.Created)

	c.hub.EmitToScope(roomID, EventUserJoined, id.DisplayName, s)
	c.hub.EmitTo(s, EventRoomUsers, result.Users)

	c.logger.Info().
		Str("conn_id", s.ID()).
		Str("user_id", id.ID).
		Str("room_id", roomID).
		Bool("room_created", result.Created).
		Int("room_users", len(result.Users)).
		Msgf("User %s joined room %s", id.DisplayName, roomID)
}

// Leave removes s's identity from roomID, notifies the rest of the room and then
// unsubscribes s. Unless gated, user-left is sent even if s was not present.
func (c *Coordinator) Leave(ctx context.Context, s Session, roomID string) {
	id := s.Identity()

	result := c.registry.Leave(roomID, id.ID)
	if result.Removed {
		c.metrics.Left(ctx, result.Destroyed)
	}

	if result.Removed || !c.gateLeave {
		c.hub.EmitToScope(roomID, EventUserLeft, id.DisplayName, s)
	}

	c.hub.LeaveScope(s, roomID)

	c.logger.Info().
		Str("conn_id", s.ID()).
		Str("user_id", id.ID).
		Str("room_id", roomID).
		Bool("was_present", result.Removed).
		Bool("room_destroyed", result.Destroyed).
		Msgf("User %s left room %s", id.DisplayName, roomID)
}

// Disconnect removes s's identity from every room it is present in. Rooms that still have
// members receive exactly one user-left; emptied rooms are dropped silently.
func (c *Coordinator) Disconnect(ctx context.Context, s Session) {
	id := s.Identity()

	results := c.registry.RemoveUser(id.ID)

	notified := 0
	for _, result := range results {
		if !result.Removed {
			continue
		}
		c.metrics.Left(ctx, result.Destroyed)

		if result.Destroyed {
			c.logger.Debug().Str("room_id", result.RoomID).Msg("Last member disconnected, room removed.")
			continue
		}

		c.hub.EmitToScope(result.RoomID, EventUserLeft, id.DisplayName, s)
		notified++
	}

	c.logger.Info().
		Str("conn_id", s.ID()).
		Str("user_id", id.ID).
		Int("rooms_left", len(results)).
		Int("rooms_notified", notified).
		Msgf("User disconnected: %s", id.DisplayName)
}
