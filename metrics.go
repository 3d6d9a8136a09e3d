package snapsocket

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ScottBrooks/snapsocket"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// MetricsMailbox counts socket messages with OpenTelemetry instruments. With
// no meter provider installed the global no-op provider is used.
type MetricsMailbox struct {
	captures   metric.Int64Counter
	rejections metric.Int64Counter
	held       metric.Int64Counter
	releases   metric.Int64Counter
}

// NewMetricsMailbox creates the counters on m, or on the global meter when m
// is nil.
func NewMetricsMailbox(m metric.Meter) (*MetricsMailbox, error) {
	if m == nil {
		m = meter()
	}
	captures, err := m.Int64Counter("snapsocket.captures",
		metric.WithDescription("Objects captured by a socket"))
	if err != nil {
		return nil, err
	}
	rejections, err := m.Int64Counter("snapsocket.rejections",
		metric.WithDescription("Candidates refused by a socket"))
	if err != nil {
		return nil, err
	}
	held, err := m.Int64Counter("snapsocket.held",
		metric.WithDescription("Valid candidates waiting for a hand to let go"))
	if err != nil {
		return nil, err
	}
	releases, err := m.Int64Counter("snapsocket.releases",
		metric.WithDescription("Occupants released by a socket"))
	if err != nil {
		return nil, err
	}
	return &MetricsMailbox{captures: captures, rejections: rejections, held: held, releases: releases}, nil
}

func (mm *MetricsMailbox) Dispatch(msg Message) {
	ctx := context.Background()
	switch m := msg.(type) {
	case SocketCapturedMessage:
		mm.captures.Add(ctx, 1, metric.WithAttributes(
			attribute.Int64("socket", int64(m.Socket))))
	case SocketRejectedMessage:
		if m.Verdict == VerdictHeld {
			mm.held.Add(ctx, 1, metric.WithAttributes(
				attribute.Int64("socket", int64(m.Socket))))
			return
		}
		mm.rejections.Add(ctx, 1, metric.WithAttributes(
			attribute.Int64("socket", int64(m.Socket)),
			attribute.String("verdict", m.Verdict.String())))
	case SocketReleasedMessage:
		mm.releases.Add(ctx, 1, metric.WithAttributes(
			attribute.Int64("socket", int64(m.Socket)),
			attribute.String("reason", m.Reason.String())))
	}
}
