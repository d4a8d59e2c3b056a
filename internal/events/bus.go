package events

import (
	"context"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"go.uber.org/zap"
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// BusPublisher pushes flight events to the bus. Delivery is best-effort:
// publish failures are logged and swallowed, never surfaced to the request
// that triggered them.
type BusPublisher struct {
	producer Producer
	topic    string
	logger   *zap.Logger
}

func NewBusPublisher(producer Producer, topic string, logger *zap.Logger) *BusPublisher {
	return &BusPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *BusPublisher) FlightCreated(ctx context.Context, f *domain.Flight) {
	p.send(ctx, f.Code, BusFlightCreated(f))
}

func (p *BusPublisher) FlightUpdated(ctx context.Context, f *domain.Flight, newStatus string) {
	p.send(ctx, f.Code, BusFlightUpdated(f, newStatus))
}

func (p *BusPublisher) AircraftOrAirlineUpdated(ctx context.Context, f *domain.Flight) {
	p.send(ctx, f.AircraftType, BusAircraftOrAirlineUpdated(f))
}

func (p *BusPublisher) send(ctx context.Context, key string, env *BusEnvelope) {
	if err := p.producer.Publish(ctx, p.topic, key, env); err != nil {
		p.logger.Warn("failed to publish flight event",
			zap.String("event_type", env.EventType),
			zap.String("key", key),
			zap.Error(err))
		return
	}
	p.logger.Info("published flight event",
		zap.String("event_type", env.EventType),
		zap.String("key", key))
}
