package engine

import (
	"context"
	"time"

	"hexdefense-server/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "hexdefense-server/internal/engine"

// simMetrics - счётчики симуляции. Без установленного SDK глобальный
// meter OTel ничего не делает, так что в тестах это бесплатно.
type simMetrics struct {
	ticks        metric.Int64Counter
	shots        metric.Int64Counter
	deaths       metric.Int64Counter
	spawns       metric.Int64Counter
	leaks        metric.Int64Counter
	tickDuration metric.Float64Histogram
}

func newSimMetrics() *simMetrics {
	m, err := buildSimMetrics(otel.Meter(instrumentationName))
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to no-op simulation metrics")
		m, _ = buildSimMetrics(noop.Meter{})
	}
	return m
}

func buildSimMetrics(meter metric.Meter) (*simMetrics, error) {
	m := &simMetrics{}
	var err error

	if m.ticks, err = meter.Int64Counter("sim.ticks",
		metric.WithDescription("Simulation ticks completed")); err != nil {
		return nil, err
	}
	if m.shots, err = meter.Int64Counter("sim.shots",
		metric.WithDescription("Shots fired")); err != nil {
		return nil, err
	}
	if m.deaths, err = meter.Int64Counter("sim.deaths",
		metric.WithDescription("Entities destroyed at end of tick")); err != nil {
		return nil, err
	}
	if m.spawns, err = meter.Int64Counter("sim.spawns",
		metric.WithDescription("Entities spawned by wave schedule")); err != nil {
		return nil, err
	}
	if m.leaks, err = meter.Int64Counter("sim.leaks",
		metric.WithDescription("Walkers that reached their destination")); err != nil {
		return nil, err
	}
	if m.tickDuration, err = meter.Float64Histogram("sim.tick.duration",
		metric.WithDescription("Wall time of one tick"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *simMetrics) recordTick(rep TickReport) {
	ctx := context.Background()
	m.ticks.Add(ctx, 1)
	for _, s := range rep.Shots {
		m.shots.Add(ctx, 1, metric.WithAttributes(attribute.Bool("killed", s.Killed)))
	}
	if n := len(rep.Destroyed); n > 0 {
		m.deaths.Add(ctx, int64(n))
	}
	m.tickDuration.Record(ctx, float64(rep.Duration)/float64(time.Millisecond))
}

func (m *simMetrics) recordSpawns(n int) {
	if n > 0 {
		m.spawns.Add(context.Background(), int64(n))
	}
}

func (m *simMetrics) recordLeaks(n int) {
	if n > 0 {
		m.leaks.Add(context.Background(), int64(n))
	}
}
