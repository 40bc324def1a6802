package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"debatehub/internal/app/user"
	"debatehub/internal/pkg/errs"
	"debatehub/internal/pkg/logx"
	"debatehub/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// EventLimits is the per-connection inbound token bucket.
type EventLimits struct {
	Rate  float64
	Burst int
}

// Client is one WebSocket connection. It implements Session.
type Client struct {
	id       string
	conn     *websocket.Conn
	identity user.Identity
	service  *Service
	limiter  *rate.Limiter

	// mu guards closed and the close of send.
	mu     sync.RWMutex
	closed bool
	send   chan []byte

	logger zerolog.Logger
}

// NewClient wraps an upgraded connection. The client is not registered until ReadPump runs.
func NewClient(service *Service, conn *websocket.Conn, identity user.Identity, limits EventLimits) *Client {
	id := randx.ConnectionID()

	limit := rate.Inf
	if limits.Rate > 0 {
		limit = rate.Limit(limits.Rate)
	}

	return &Client{
		id:       id,
		conn:     conn,
		identity: identity,
		service:  service,
		limiter:  rate.NewLimiter(limit, max(limits.Burst, 1)),
		send:     make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().
			Str("component", "client").
			Str("conn_id", id).
			Str("user_id", identity.ID).
			Logger(),
	}
}

// ID implements Session.
func (c *Client) ID() string { return c.id }

// Identity implements Session.
func (c *Client) Identity() user.Identity { return c.identity }

// Send implements Session. It never blocks.
func (c *Client) Send(frame []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close implements Session. WritePump flushes a close frame once the queue is closed.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump registers the client with the service and reads frames until the connection
// ends, then runs the disconnect protocol exactly once.
func (c *Client) ReadPump(ctx context.Context) {
	c.service.Open(ctx, c)
	defer c.cleanupOnDisconnect(ctx)

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			}
			return
		}

		c.processInbound(ctx, data)
	}
}

func (c *Client) cleanupOnDisconnect(ctx context.Context) {
	c.service.Close(ctx, c)
	c.Close()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// processInbound decodes one frame and dispatches it. Malformed or rejected events are
// logged and dropped; the connection stays open.
func (c *Client) processInbound(ctx context.Context, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.logDropped("", errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	if !c.limiter.Allow() {
		c.service.metrics.EventDropped(ctx, frame.Event, "rate_limited")
		c.logDropped(frame.Event, errs.NewError(errs.ErrRateLimitExceeded))
		return
	}

	if customErr := c.service.Dispatch(ctx, c, frame); customErr != nil {
		c.logDropped(frame.Event, customErr)
	}
}

func (c *Client) logDropped(event string, customErr *errs.CustomError) {
	c.logger.Warn().
		Str("event", event).
		Int("code", customErr.Code).
		Msgf("Inbound event dropped: %s", customErr.Message)
}

// WritePump drains the outbound queue to the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeFrame writes one queued frame, or a close frame when the queue was closed.
// It reports whether WritePump should continue.
func (c *Client) writeFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Warn().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
