package chat

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"debatehub/internal/pkg/errs"
	"debatehub/internal/pkg/logx"
	"debatehub/internal/pkg/telemetry"
)

// HandlerFunc handles one inbound event for a session. A non-nil error means the event
// was dropped.
type HandlerFunc func(ctx context.Context, s Session, data json.RawMessage) *errs.CustomError

// Options configures a Service.
type Options struct {
	// GateLeaveNotifications suppresses user-left on leave-room when the user was not present.
	GateLeaveNotifications bool

	// Metrics may be nil.
	Metrics *telemetry.Instruments
}

// Service owns the relay state for one process and binds it to connection lifecycles.
type Service struct {
	Registry *Registry
	Hub      *Hub
	Presence *Coordinator
	Messages *MessageRouter

	metrics  *telemetry.Instruments
	handlers map[string]HandlerFunc
	logger   zerolog.Logger
}

// NewService constructs a Service with a fresh registry and hub.
func NewService(opts Options) *Service {
	registry := NewRegistry()
	hub := NewHub()

	svc := &Service{
		Registry: registry,
		Hub:      hub,
		Presence: NewCoordinator(registry, hub, opts.Metrics, opts.GateLeaveNotifications),
		Messages: NewMessageRouter(hub),
		metrics:  opts.Metrics,
		logger:   logx.Component("service"),
	}

	svc.handlers = map[string]HandlerFunc{
		EventJoinRoom:      svc.handleJoinRoom,
		EventLeaveRoom:     svc.handleLeaveRoom,
		EventChatMessage:   svc.handleChatMessage,
		EventDebateMessage: svc.handleDebateMessage,
		EventDebateTyping:  svc.handleDebateTyping,
	}

	return svc
}

// Handlers returns the inbound event names the service accepts.
func (svc *Service) Handlers() []string {
	names := make([]string, 0, len(svc.handlers))
	for name := range svc.handlers {
		names = append(names, name)
	}
	return names
}

// Open registers a newly connected session.
func (svc *Service) Open(ctx context.Context, s Session) {
	svc.Hub.Register(s)
	svc.metrics.ConnectionOpened(ctx)

	id := s.Identity()
	svc.logger.Info().
		Str("conn_id", s.ID()).
		Str("user_id", id.ID).
		Msgf("User connected: %s", id.DisplayName)
}

// Close runs the disconnect protocol for s and drops it from every scope.
// Callers must invoke it exactly once per session.
func (svc *Service) Close(ctx context.Context, s Session) {
	svc.Presence.Disconnect(ctx, s)
	svc.Hub.Unregister(s)
	svc.metrics.ConnectionClosed(ctx)
}

// Dispatch routes one inbound frame to its handler.
func (svc *Service) Dispatch(ctx context.Context, s Session, frame Frame) *errs.CustomError {
	handler, ok := svc.handlers[frame.Event]
	if !ok {
		svc.metrics.EventDropped(ctx, frame.Event, "unsupported")
		return errs.NewError(errs.ErrUnsupportedEvent, frame.Event)
	}

	svc.metrics.EventReceived(ctx, frame.Event)

	if customErr := handler(ctx, s, frame.Data); customErr != nil {
		svc.metrics.EventDropped(ctx, frame.Event, "invalid_payload")
		return customErr
	}
	return nil
}

// Shutdown closes every open session.
func (svc *Service) Shutdown() {
	svc.Hub.Shutdown()
}

// decodeRoomID parses a bare JSON string room id.
func decodeRoomID(event string, data json.RawMessage) (string, *errs.CustomError) {
	var roomID string
	if err := json.Unmarshal(data, &roomID); err != nil {
		return "", errs.NewError(errs.ErrInvalidEventPayload, event)
	}
	if roomID == "" {
		return "", errs.NewError(errs.ErrMissingRoomID, event)
	}
	return roomID, nil
}

func (svc *Service) handleJoinRoom(ctx context.Context, s Session, data json.RawMessage) *errs.CustomError {
	roomID, customErr := decodeRoomID(EventJoinRoom, data)
	if customErr != nil {
		return customErr
	}

	svc.Presence.Join(ctx, s, roomID)
	return nil
}

func (svc *Service) handleLeaveRoom(ctx context.Context, s Session, data json.RawMessage) *errs.CustomError {
	roomID, customErr := decodeRoomID(EventLeaveRoom, data)
	if customErr != nil {
		return customErr
	}

	svc.Presence.Leave(ctx, s, roomID)
	return nil
}

func (svc *Service) decodeRoomMessage(event string, data json.RawMessage) (RoomMessage, *errs.CustomError) {
	var in RoomMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return RoomMessage{}, errs.NewError(errs.ErrInvalidEventPayload, event)
	}
	if in.RoomID == "" {
		return RoomMessage{}, errs.NewError(errs.ErrMissingRoomID, event)
	}
	return in, nil
}

func (svc *Service) handleChatMessage(ctx context.Context, s Session, data json.RawMessage) *errs.CustomError {
	in, customErr := svc.decodeRoomMessage(EventChatMessage, data)
	if customErr != nil {
		return customErr
	}

	msg, err := NewChatMessage(in.Message, s.Identity())
	if err != nil {
		return errs.NewError(errs.ErrInvalidEventPayload, EventChatMessage)
	}

	svc.Messages.Chat(ctx, in.RoomID, msg)
	return nil
}

func (svc *Service) handleDebateMessage(ctx context.Context, _ Session, data json.RawMessage) *errs.CustomError {
	in, customErr := svc.decodeRoomMessage(EventDebateMessage, data)
	if customErr != nil {
		return customErr
	}

	svc.Messages.Debate(ctx, in.RoomID, DebateMessage{Message: in.Message})
	return nil
}

func (svc *Service) handleDebateTyping(ctx context.Context, s Session, data json.RawMessage) *errs.CustomError {
	var in TypingEvent
	if err := json.Unmarshal(data, &in); err != nil {
		return errs.NewError(errs.ErrInvalidEventPayload, EventDebateTyping)
	}
	if in.RoomID == "" {
		return errs.NewError(errs.ErrMissingRoomID, EventDebateTyping)
	}

	svc.Messages.Typing(ctx, s, in.RoomID, TypingPayload{Side: in.Side, IsTyping: in.IsTyping})
	return nil
}
