package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByCodeAndDeparture(ctx context.Context, code string, departureAt time.Time) (bool, error)
	FindByCodeAndDeparture(ctx context.Context, code string, departureAt time.Time) (*domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, f *domain.Flight) (*domain.Flight, error)
	Update(ctx context.Context, f *domain.Flight) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	FindByRoute(ctx context.Context, origin, destination string, from, toExclusive time.Time, page domain.PageRequest) (*domain.FlightPage, error)
	Search(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (*domain.FlightPage, error)
}

const flightColumns = `id, code, airline, origin, destination, price, currency, departure_at, arrival_at, status, aircraft_type, aircraft_capacity, created_at, updated_at`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM flight WHERE code=$1)`, code).Scan(&exists)
	return exists, err
}

func (r *PGFlightRepository) ExistsByCodeAndDeparture(ctx context.Context, code string, departureAt time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM flight WHERE code=$1 AND departure_at=$2)`, code, departureAt).Scan(&exists)
	return exists, err
}

func (r *PGFlightRepository) FindByCodeAndDeparture(ctx context.Context, code string, departureAt time.Time) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flight WHERE code=$1 AND departure_at=$2`, code, departureAt)
	return scanFlight(row)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flight WHERE id=$1`, id)
	return scanFlight(row)
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO flight (code, airline, origin, destination, price, currency, departure_at, arrival_at, status, aircraft_type, aircraft_capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING `+flightColumns,
		f.Code, f.Airline, f.Origin, f.Destination, f.Price, f.Currency, f.DepartureAt, f.ArrivalAt, f.Status, f.AircraftType, f.AircraftCapacity)
	return scanFlight(row)
}

func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `UPDATE flight SET code=$2, airline=$3, origin=$4, destination=$5, price=$6, currency=$7, departure_at=$8, arrival_at=$9, status=$10, aircraft_type=$11, aircraft_capacity=$12, updated_at=now()
		WHERE id=$1
		RETURNING `+flightColumns,
		f.ID, f.Code, f.Airline, f.Origin, f.Destination, f.Price, f.Currency, f.DepartureAt, f.ArrivalAt, f.Status, f.AircraftType, f.AircraftCapacity)
	return scanFlight(row)
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flight WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.NotFound("flight not found with id %d", id)
	}
	return nil
}

func (r *PGFlightRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM flight`)
	return err
}

func (r *PGFlightRepository) FindByRoute(ctx context.Context, origin, destination string, from, toExclusive time.Time, page domain.PageRequest) (*domain.FlightPage, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flight WHERE origin=$1 AND destination=$2 AND departure_at >= $3 AND departure_at < $4`,
		origin, destination, from, toExclusive).Scan(&total)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flight
		WHERE origin=$1 AND destination=$2 AND departure_at >= $3 AND departure_at < $4
		ORDER BY departure_at LIMIT $5 OFFSET $6`,
		origin, destination, from, toExclusive, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectFlights(rows)
	if err != nil {
		return nil, err
	}
	return &domain.FlightPage{Items: items, Page: page.Page, Size: page.Size, Total: total}, nil
}

// Search ANDs only the filters that are present; an empty filter matches
// everything.
func (r *PGFlightRepository) Search(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (*domain.FlightPage, error) {
	where := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DateFrom != nil {
		where = append(where, "departure_at >= "+arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		where = append(where, "departure_at < "+arg(*filter.DateTo))
	}
	if filter.Airline != "" {
		where = append(where, "LOWER(airline) LIKE "+arg("%"+strings.ToLower(filter.Airline)+"%"))
	}
	if filter.Origin != "" {
		where = append(where, "origin = "+arg(strings.ToUpper(filter.Origin)))
	}
	if filter.Destination != "" {
		where = append(where, "destination = "+arg(strings.ToUpper(filter.Destination)))
	}
	if filter.PriceMin != nil {
		where = append(where, "price >= "+arg(*filter.PriceMin))
	}
	if filter.PriceMax != nil {
		where = append(where, "price <= "+arg(*filter.PriceMax))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flight WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, err
	}

	dataSQL := `SELECT ` + flightColumns + ` FROM flight WHERE ` + cond +
		` ORDER BY departure_at LIMIT ` + arg(page.Size) + ` OFFSET ` + arg(page.Offset())
	rows, err := r.db.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectFlights(rows)
	if err != nil {
		return nil, err
	}
	return &domain.FlightPage{Items: items, Page: page.Page, Size: page.Size, Total: total}, nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.Code, &f.Airline, &f.Origin, &f.Destination, &f.Price, &f.Currency,
		&f.DepartureAt, &f.ArrivalAt, &f.Status, &f.AircraftType, &f.AircraftCapacity, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.Code, &f.Airline, &f.Origin, &f.Destination, &f.Price, &f.Currency,
			&f.DepartureAt, &f.ArrivalAt, &f.Status, &f.AircraftType, &f.AircraftCapacity, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
