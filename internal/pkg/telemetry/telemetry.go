/*
Package telemetry defines the relay's OpenTelemetry metric instruments.

Instruments are created from the global MeterProvider. Init installs an OTLP exporting provider;
without it the instruments are no-ops.
*/
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"debatehub/internal/pkg/logx"
)

const meterName = "debatehub/relay"

// Instruments groups the counters recorded by the relay core.
type Instruments struct {
	eventsReceived metric.Int64Counter
	eventsDropped  metric.Int64Counter
	presenceJoins  metric.Int64Counter
	presenceLeaves metric.Int64Counter
	activeRooms    metric.Int64UpDownCounter
	connections    metric.Int64UpDownCounter
}

// New creates the instruments from the global meter provider.
func New() *Instruments {
	return NewWithProvider(otel.GetMeterProvider())
}

// NewWithProvider creates the instruments from mp.
// An instrument that fails to register is logged and left as a no-op.
func NewWithProvider(mp metric.MeterProvider) *Instruments {
	meter := mp.Meter(meterName)
	ins := &Instruments{}

	var err error
	if ins.eventsReceived, err = meter.Int64Counter("relay.events.received",
		metric.WithDescription("Inbound events accepted for dispatch")); err != nil {
		logx.Error(err, "Failed to create metric", "metric", "relay.events.received")
	}
	if ins.eventsDropped, err = meter.Int64Counter("relay.events.dropped",
		metric.WithDescription("Inbound or outbound events dropped")); err != nil {
		logx.Error(err, "Failed to create metric", "metric", "relay.events.dropped")
	}
	if ins.presenceJoins, err = meter.Int64Counter("relay.presence.joins"); err != nil {
		logx.Error(err, "Failed to create metric", "metric", "relay.presence.joins")
	}
	if ins.presenceLeaves, err = meter.Int64Counter("relay.presence.leaves"); err != nil {
		logx.Error(err, "Failed to create metric", "metric", "relay.presence.leaves")
	}
	if ins.activeRooms, err = meter.Int64UpDownCounter("relay.rooms.active",
		metric.WithDescription("Rooms with at least one present user")); err != nil {
		logx.Error(err, "Failed to create metric", "metric", "relay.rooms.active")
	}
	if ins.connections, err = meter.Int64UpDownCounter("relay.connections.open"); err != nil {
		logx.Error(err, "Failed to create metric", "metric", "relay.connections.open")
	}

	return ins
}

// EventReceived counts one inbound event by name.
func (i *Instruments) EventReceived(ctx context.Context, event string) {
	if i == nil || i.eventsReceived == nil {
		return
	}
	i.eventsReceived.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

// EventDropped counts one dropped event by name and reason.
func (i *Instruments) EventDropped(ctx context.Context, event, reason string) {
	if i == nil || i.eventsDropped == nil {
		return
	}
	i.eventsDropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("reason", reason),
	))
}

// Joined counts a presence join and, when created is set, one more active room.
func (i *Instruments) Joined(ctx context.Context, created bool) {
	if i == nil {
		return
	}
	if i.presenceJoins != nil {
		i.presenceJoins.Add(ctx, 1)
	}
	if created && i.activeRooms != nil {
		i.activeRooms.Add(ctx, 1)
	}
}

// Left counts a presence removal and, when destroyed is set, one less active room.
func (i *Instruments) Left(ctx context.Context, destroyed bool) {
	if i == nil {
		return
	}
	if i.presenceLeaves != nil {
		i.presenceLeaves.Add(ctx, 1)
	}
	if destroyed && i.activeRooms != nil {
		i.activeRooms.Add(ctx, -1)
	}
}

// ConnectionOpened counts one more open WebSocket connection.
func (i *Instruments) ConnectionOpened(ctx context.Context) {
	if i == nil || i.connections == nil {
		return
	}
	i.connections.Add(ctx, 1)
}

// ConnectionClosed counts one less open WebSocket connection.
func (i *Instruments) ConnectionClosed(ctx context.Context) {
	if i == nil || i.connections == nil {
		return
	}
	i.connections.Add(ctx, -1)
}
