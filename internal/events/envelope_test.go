package events

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/stretchr/testify/assert"
)

var departure = time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC)

func sampleFlight() *domain.Flight {
	return &domain.Flight{
		ID:           42,
		Code:         "AF0007",
		Airline:      "Air France",
		Origin:       "EZE",
		Destination:  "CDG",
		Price:        1200.50,
		Currency:     "usd",
		DepartureAt:  departure,
		ArrivalAt:    departure.Add(12 * time.Hour),
		Status:       domain.StatusDelayed,
		AircraftType: "B777",
	}
}

func TestBusFlightCreated(t *testing.T) {
	env := BusFlightCreated(sampleFlight())

	assert.Equal(t, "flights.flight.created", env.EventType)
	assert.Equal(t, "1.0", env.SchemaVersion)

	payload := env.Payload.(FlightCreatedPayload)
	assert.Equal(t, "42", payload.FlightID)
	assert.Equal(t, "AF0007", payload.FlightNumber)
	assert.Equal(t, "EZE", payload.Origin)
	assert.Equal(t, "CDG", payload.Destination)
	assert.Equal(t, "DELAYED", payload.Status)
	assert.Equal(t, 1200.50, payload.Price)
	assert.Equal(t, "USD", payload.Currency)
}

func TestBusEnvelope_WireFormat(t *testing.T) {
	data, err := json.Marshal(BusFlightUpdated(sampleFlight(), "CANCELLED"))
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "flights.flight.updated", decoded["event_type"])
	assert.Equal(t, "1.0", decoded["schema_version"])
	// Bus payload is a structured object, not a re-serialized string.
	payload, ok := decoded["payload"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "CANCELLED", payload["newStatus"])
}

func TestBuilder_FlightCreated_Defaults(t *testing.T) {
	builder := NewBuilder("flights-service", "ARS")

	f := &domain.Flight{ID: 7, Code: "AA991", Origin: "AEP", Destination: "MDZ"}
	env, err := builder.FlightCreated(f, "")

	assert.NoError(t, err)

	var payload map[string]any
	assert.NoError(t, json.Unmarshal([]byte(env.Payload), &payload))
	assert.Equal(t, "ON_TIME", payload["status"])
	assert.Equal(t, "ARS", payload["currency"])
	assert.Equal(t, 0.0, payload["price"])
	assert.Equal(t, "", payload["aircraftModel"])

	assert.Equal(t, "flight:create:AA991:-1", env.IdempotencyKey)
}

func TestBuilder_FlightCreated_Envelope(t *testing.T) {
	builder := NewBuilder("flights-service", "ARS")
	builder.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

	env, err := builder.FlightCreated(sampleFlight(), "corr-abc")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(env.MessageID, "msg-"))
	assert.Equal(t, "flights.flight.created", env.EventType)
	assert.Equal(t, "1.0", env.SchemaVersion)
	assert.Equal(t, "2026-03-10T09:00:00Z", env.OccurredAt)
	assert.Equal(t, "flights-service", env.Producer)
	assert.Equal(t, "corr-abc", env.CorrelationID)
	assert.Equal(t, "flight:create:AF0007:1773325800", env.IdempotencyKey)

	var payload map[string]any
	assert.NoError(t, json.Unmarshal([]byte(env.Payload), &payload))
	assert.Equal(t, "42", payload["flightId"])
	assert.Equal(t, "2026-03-12T14:30:00Z", payload["departureAt"])
	assert.Equal(t, "USD", payload["currency"])
}

func TestBuilder_GeneratesCorrelationID(t *testing.T) {
	builder := NewBuilder("flights-service", "ARS")

	env, err := builder.FlightCreated(sampleFlight(), "")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(env.CorrelationID, "corr-"))
}

func TestBuilder_FlightUpdated_OmitsNullTimestamps(t *testing.T) {
	builder := NewBuilder("flights-service", "ARS")

	f := &domain.Flight{ID: 7, Code: "AA991", Status: domain.StatusCancelled}
	env, err := builder.FlightUpdated(f, "")

	assert.NoError(t, err)

	var payload map[string]any
	assert.NoError(t, json.Unmarshal([]byte(env.Payload), &payload))
	assert.Equal(t, "CANCELLED", payload["newStatus"])
	// Absent timestamps mean absent keys, not null values.
	_, hasDeparture := payload["newDepartureAt"]
	_, hasArrival := payload["newArrivalAt"]
	assert.False(t, hasDeparture)
	assert.False(t, hasArrival)
}

func TestBuilder_FlightUpdated_IdempotencyKeyIncludesPayloadHash(t *testing.T) {
	builder := NewBuilder("flights-service", "ARS")

	f := sampleFlight()
	env1, err := builder.FlightUpdated(f, "")
	assert.NoError(t, err)
	env2, err := builder.FlightUpdated(f, "")
	assert.NoError(t, err)

	prefix := "flight:update:AF0007:1773325800:"
	assert.True(t, strings.HasPrefix(env1.IdempotencyKey, prefix))
	// Same payload, same key; the hash suffix is deterministic.
	assert.Equal(t, env1.IdempotencyKey, env2.IdempotencyKey)

	f.Status = domain.StatusCancelled
	env3, err := builder.FlightUpdated(f, "")
	assert.NoError(t, err)
	assert.NotEqual(t, env1.IdempotencyKey, env3.IdempotencyKey)
}

func TestBusAircraftOrAirlineUpdated(t *testing.T) {
	f := sampleFlight()
	f.AircraftCapacity = 300

	env := BusAircraftOrAirlineUpdated(f)

	assert.Equal(t, "flights.aircraft_or_airline.updated", env.EventType)
	payload := env.Payload.(AircraftOrAirlineUpdatedPayload)
	assert.Equal(t, "Air France", payload.Airline)
	assert.Equal(t, "B777", payload.AircraftID)
	assert.Equal(t, 300, payload.Capacity)
	assert.Nil(t, payload.SeatMapID)
}
