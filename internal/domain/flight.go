package domain

import "time"

type FlightStatus string

const (
	StatusOnTime    FlightStatus = "ON_TIME"
	StatusDelayed   FlightStatus = "DELAYED"
	StatusCancelled FlightStatus = "CANCELLED"
)

// Valid reports whether s is one of the known status literals.
func (s FlightStatus) Valid() bool {
	switch s {
	case StatusOnTime, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}

type Flight struct {
	ID               int64        `json:"id"`
	Code             string       `json:"code"`
	Airline          string       `json:"airline"`
	Origin           string       `json:"origin"`
	Destination      string       `json:"destination"`
	Price            float64      `json:"price"`
	Currency         string       `json:"currency"`
	DepartureAt      time.Time    `json:"departure_at"`
	ArrivalAt        time.Time    `json:"arrival_at"`
	Status           FlightStatus `json:"status"`
	AircraftType     string       `json:"aircraft_type"`
	AircraftCapacity int          `json:"aircraft_capacity"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// FlightUpdate is a partial update: nil fields leave the stored value untouched.
type FlightUpdate struct {
	Code             *string       `json:"code"`
	Airline          *string       `json:"airline"`
	Origin           *string       `json:"origin"`
	Destination      *string       `json:"destination"`
	Price            *float64      `json:"price"`
	Currency         *string       `json:"currency"`
	DepartureAt      *time.Time    `json:"departure_at"`
	ArrivalAt        *time.Time    `json:"arrival_at"`
	Status           *FlightStatus `json:"status"`
	AircraftType     *string       `json:"aircraft_type"`
	AircraftCapacity *int          `json:"aircraft_capacity"`
}

// SearchFilter holds the optional predicates of the flexible search. Absent
// fields impose no constraint.
type SearchFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	Airline     string
	Origin      string
	Destination string
	PriceMin    *float64
	PriceMax    *float64
}

type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return p.Page * p.Size
}

type FlightPage struct {
	Items []Flight `json:"items"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
	Total int64    `json:"total"`
}
