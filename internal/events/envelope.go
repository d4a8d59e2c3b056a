// Package events builds and delivers the outbound flight event envelopes.
// The same domain events travel on two channels with different shapes: the
// Kafka channel carries a structured payload object, the HTTP webhook channel
// carries the payload JSON-serialized as a string inside the envelope.
package events

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/google/uuid"
)

const (
	SchemaVersion = "1.0"

	TypeFlightCreated            = "flights.flight.created"
	TypeFlightUpdated            = "flights.flight.updated"
	TypeAircraftOrAirlineUpdated = "flights.aircraft_or_airline.updated"
)

type BusEnvelope struct {
	EventType     string `json:"event_type"`
	SchemaVersion string `json:"schema_version"`
	Payload       any    `json:"payload"`
}

type FlightCreatedPayload struct {
	FlightID      string  `json:"flightId"`
	FlightNumber  string  `json:"flightNumber"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	AircraftModel string  `json:"aircraftModel"`
	DepartureAt   string  `json:"departureAt"`
	ArrivalAt     string  `json:"arrivalAt"`
	Status        string  `json:"status"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
}

type FlightUpdatedPayload struct {
	FlightID       string `json:"flightId"`
	NewStatus      string `json:"newStatus"`
	NewDepartureAt string `json:"newDepartureAt,omitempty"`
	NewArrivalAt   string `json:"newArrivalAt,omitempty"`
}

type AircraftOrAirlineUpdatedPayload struct {
	Airline    string  `json:"airline"`
	AircraftID string  `json:"aircraftId"`
	Capacity   int     `json:"capacity"`
	SeatMapID  *string `json:"seatMapId"`
}

// BusFlightCreated builds the flights.flight.created bus envelope. Timestamps
// keep their zone offset; status travels as the raw enum literal.
func BusFlightCreated(f *domain.Flight) *BusEnvelope {
	return &BusEnvelope{
		EventType:     TypeFlightCreated,
		SchemaVersion: SchemaVersion,
		Payload: FlightCreatedPayload{
			FlightID:      strconv.FormatInt(f.ID, 10),
			FlightNumber:  f.Code,
			Origin:        up3(f.Origin),
			Destination:   up3(f.Destination),
			AircraftModel: f.AircraftType,
			DepartureAt:   isoOffset(f.DepartureAt),
			ArrivalAt:     isoOffset(f.ArrivalAt),
			Status:        string(f.Status),
			Price:         f.Price,
			Currency:      up3(f.Currency),
		},
	}
}

func BusFlightUpdated(f *domain.Flight, newStatus string) *BusEnvelope {
	return &BusEnvelope{
		EventType:     TypeFlightUpdated,
		SchemaVersion: SchemaVersion,
		Payload: FlightUpdatedPayload{
			FlightID:       strconv.FormatInt(f.ID, 10),
			NewStatus:      newStatus,
			NewDepartureAt: isoOffset(f.DepartureAt),
			NewArrivalAt:   isoOffset(f.ArrivalAt),
		},
	}
}

func BusAircraftOrAirlineUpdated(f *domain.Flight) *BusEnvelope {
	return &BusEnvelope{
		EventType:     TypeAircraftOrAirlineUpdated,
		SchemaVersion: SchemaVersion,
		Payload: AircraftOrAirlineUpdatedPayload{
			Airline:    f.Airline,
			AircraftID: f.AircraftType,
			Capacity:   f.AircraftCapacity,
			SeatMapID:  nil,
		},
	}
}

type HTTPEnvelope struct {
	MessageID      string `json:"messageId"`
	EventType      string `json:"eventType"`
	SchemaVersion  string `json:"schemaVersion"`
	OccurredAt     string `json:"occurredAt"`
	Producer       string `json:"producer"`
	CorrelationID  string `json:"correlationId"`
	IdempotencyKey string `json:"idempotencyKey"`
	Payload        string `json:"payload"`
}

// Builder assembles HTTP envelopes. The clock is injectable for tests.
type Builder struct {
	producer        string
	defaultCurrency string
	now             func() time.Time
}

func NewBuilder(producer, defaultCurrency string) *Builder {
	if defaultCurrency == "" {
		defaultCurrency = "ARS"
	}
	return &Builder{producer: producer, defaultCurrency: defaultCurrency, now: time.Now}
}

func (b *Builder) FlightCreated(f *domain.Flight, correlationID string) (*HTTPEnvelope, error) {
	inner := FlightCreatedPayload{
		FlightID:      strconv.FormatInt(f.ID, 10),
		FlightNumber:  f.Code,
		Origin:        up3(f.Origin),
		Destination:   up3(f.Destination),
		AircraftModel: f.AircraftType,
		DepartureAt:   isoInstant(f.DepartureAt),
		ArrivalAt:     isoInstant(f.ArrivalAt),
		Status:        statusOrDefault(f.Status),
		Price:         f.Price,
		Currency:      currencyOrDefault(f.Currency, b.defaultCurrency),
	}
	payload, err := json.Marshal(inner)
	if err != nil {
		return nil, err
	}
	return b.envelope(TypeFlightCreated, correlationID, CreateIdempotencyKey(f), string(payload)), nil
}

func (b *Builder) FlightUpdated(f *domain.Flight, correlationID string) (*HTTPEnvelope, error) {
	inner := FlightUpdatedPayload{
		FlightID:       strconv.FormatInt(f.ID, 10),
		NewStatus:      statusOrDefault(f.Status),
		NewDepartureAt: isoInstant(f.DepartureAt),
		NewArrivalAt:   isoInstant(f.ArrivalAt),
	}
	payload, err := json.Marshal(inner)
	if err != nil {
		return nil, err
	}
	return b.envelope(TypeFlightUpdated, correlationID, UpdateIdempotencyKey(f, string(payload)), string(payload)), nil
}

func (b *Builder) envelope(eventType, correlationID, idempotencyKey, payload string) *HTTPEnvelope {
	if correlationID == "" {
		correlationID = "corr-" + uuid.NewString()
	}
	return &HTTPEnvelope{
		MessageID:      "msg-" + uuid.NewString(),
		EventType:      eventType,
		SchemaVersion:  SchemaVersion,
		OccurredAt:     b.now().UTC().Format(time.RFC3339),
		Producer:       b.producer,
		CorrelationID:  correlationID,
		IdempotencyKey: idempotencyKey,
		Payload:        payload,
	}
}

// CreateIdempotencyKey is deterministic per (code, departure), matching the
// composite uniqueness of the aggregate.
func CreateIdempotencyKey(f *domain.Flight) string {
	return fmt.Sprintf("flight:create:%s:%d", f.Code, epochOrMinusOne(f.DepartureAt))
}

// UpdateIdempotencyKey additionally folds in a hex hash of the serialized
// inner payload, so distinct updates to the same flight stay distinct.
func UpdateIdempotencyKey(f *domain.Flight, payload string) string {
	h := fnv.New32a()
	h.Write([]byte(payload))
	return fmt.Sprintf("flight:update:%s:%d:%s", f.Code, epochOrMinusOne(f.DepartureAt), strconv.FormatUint(uint64(h.Sum32()), 16))
}

func epochOrMinusOne(t time.Time) int64 {
	if t.IsZero() {
		return -1
	}
	return t.Unix()
}

func isoInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func isoOffset(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func statusOrDefault(s domain.FlightStatus) string {
	if s == "" {
		return string(domain.StatusOnTime)
	}
	return string(s)
}

func currencyOrDefault(currency, def string) string {
	if currency == "" {
		return def
	}
	return up3(currency)
}

func up3(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
