package flights

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/Domenick1991/flightcatalog/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	Create(ctx context.Context, f *domain.Flight, correlationID string) (*domain.Flight, error)
	Update(ctx context.Context, id int64, upd domain.FlightUpdate, correlationID string) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	SearchByRoute(ctx context.Context, origin, destination string, date time.Time, page domain.PageRequest) (*domain.FlightPage, error)
	SearchByRange(ctx context.Context, origin, destination string, from, to time.Time, page domain.PageRequest) (*domain.FlightPage, error)
	Search(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (*domain.FlightPage, error)
}

type Cache interface {
	GetRoutePage(ctx context.Context, origin, destination string, date time.Time, page domain.PageRequest) (*domain.FlightPage, error)
	SetRoutePage(ctx context.Context, origin, destination string, date time.Time, page domain.PageRequest, result *domain.FlightPage) error
	InvalidateRoutes(ctx context.Context) error
}

// BusPublisher is the fire-and-forget channel: implementations swallow their
// own delivery errors.
type BusPublisher interface {
	FlightCreated(ctx context.Context, f *domain.Flight)
	FlightUpdated(ctx context.Context, f *domain.Flight, newStatus string)
	AircraftOrAirlineUpdated(ctx context.Context, f *domain.Flight)
}

// WebhookPublisher is the synchronous channel: its errors propagate to the
// request that triggered the mutation.
type WebhookPublisher interface {
	PublishFlightCreated(ctx context.Context, f *domain.Flight, correlationID string) (string, error)
	PublishFlightUpdated(ctx context.Context, f *domain.Flight, correlationID string) (string, error)
}

// Policy carries the behaviors that varied across schema revisions.
type Policy struct {
	UniqueCode      bool
	AllowPastSearch bool
	DefaultCurrency string
}

type FlightService struct {
	repo    repository.FlightRepository
	cache   Cache
	bus     BusPublisher
	webhook WebhookPublisher
	policy  Policy
	logger  *zap.Logger
	now     func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(
	repo repository.FlightRepository,
	cache Cache,
	bus BusPublisher,
	webhook WebhookPublisher,
	policy Policy,
	logger *zap.Logger,
	opts ...FlightServiceOption,
) *FlightService {
	if policy.DefaultCurrency == "" {
		policy.DefaultCurrency = "ARS"
	}
	service := &FlightService{
		repo:    repo,
		cache:   cache,
		bus:     bus,
		webhook: webhook,
		policy:  policy,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) Create(ctx context.Context, f *domain.Flight, correlationID string) (*domain.Flight, error) {
	if f == nil {
		return nil, domain.BadRequest("request body is required")
	}
	if err := s.validateNew(f); err != nil {
		return nil, err
	}

	f.Origin = strings.ToUpper(f.Origin)
	f.Destination = strings.ToUpper(f.Destination)
	if strings.TrimSpace(f.Currency) == "" {
		f.Currency = s.policy.DefaultCurrency
	}
	f.Currency = strings.ToUpper(f.Currency)

	if s.policy.UniqueCode {
		exists, err := s.repo.ExistsByCode(ctx, f.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.Conflict("a flight with code %s already exists", f.Code)
		}
	}

	exists, err := s.repo.ExistsByCodeAndDeparture(ctx, f.Code, f.DepartureAt)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("a flight with code %s already exists for that departure", f.Code)
	}

	stored, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	if s.bus != nil {
		s.bus.FlightCreated(ctx, stored)
	}
	if s.webhook != nil {
		if _, err := s.webhook.PublishFlightCreated(ctx, stored, correlationID); err != nil {
			return nil, err
		}
	}
	return stored, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, upd domain.FlightUpdate, correlationID string) (*domain.Flight, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.NotFound("flight not found with id %d", id)
	}

	if err := s.validateUpdate(upd); err != nil {
		return nil, err
	}

	// A cancelled flight is immutable, even against a no-op re-cancellation.
	if current.Status == domain.StatusCancelled {
		return nil, domain.Conflict("flight is CANCELLED and cannot be modified")
	}

	keyChanges := (upd.Code != nil && *upd.Code != current.Code) ||
		(upd.DepartureAt != nil && !upd.DepartureAt.Equal(current.DepartureAt))
	if keyChanges {
		newCode := current.Code
		if upd.Code != nil {
			newCode = *upd.Code
		}
		newDeparture := current.DepartureAt
		if upd.DepartureAt != nil {
			newDeparture = *upd.DepartureAt
		}
		clash, err := s.repo.FindByCodeAndDeparture(ctx, newCode, newDeparture)
		if err != nil {
			return nil, err
		}
		if clash != nil && clash.ID != id {
			return nil, domain.Conflict("another flight already uses code %s at that departure", newCode)
		}
	}

	merged := *current
	applyUpdate(&merged, upd)
	aircraftChanged := upd.Airline != nil || upd.AircraftType != nil || upd.AircraftCapacity != nil

	stored, err := s.repo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	if s.bus != nil {
		s.bus.FlightUpdated(ctx, stored, string(stored.Status))
		if aircraftChanged {
			s.bus.AircraftOrAirlineUpdated(ctx, stored)
		}
	}
	if s.webhook != nil {
		if _, err := s.webhook.PublishFlightUpdated(ctx, stored, correlationID); err != nil {
			return nil, err
		}
	}
	return stored, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NotFound("flight not found with id %d", id)
	}
	return f, nil
}

func (s *FlightService) SearchByRoute(ctx context.Context, origin, destination string, date time.Time, page domain.PageRequest) (*domain.FlightPage, error) {
	if origin == "" || destination == "" || date.IsZero() {
		return nil, domain.BadRequest("origin, destination and date are required")
	}
	if len(origin) != 3 || len(destination) != 3 {
		return nil, domain.BadRequest("origin and destination must be 3-letter IATA codes")
	}
	if !s.policy.AllowPastSearch && dateOnly(date).Before(dateOnly(s.now().UTC())) {
		return nil, domain.BadRequest("search date cannot be before today")
	}

	origin = strings.ToUpper(origin)
	destination = strings.ToUpper(destination)

	if s.cache != nil {
		if cached, err := s.cache.GetRoutePage(ctx, origin, destination, date, page); err == nil && cached != nil {
			return cached, nil
		}
	}

	from := startOfDayUTC(date)
	result, err := s.repo.FindByRoute(ctx, origin, destination, from, from.AddDate(0, 0, 1), page)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetRoutePage(ctx, origin, destination, date, page, result)
	}
	return result, nil
}

func (s *FlightService) SearchByRange(ctx context.Context, origin, destination string, from, to time.Time, page domain.PageRequest) (*domain.FlightPage, error) {
	if origin == "" || destination == "" || from.IsZero() || to.IsZero() {
		return nil, domain.BadRequest("origin, destination, from and to are required")
	}
	if len(origin) != 3 || len(destination) != 3 {
		return nil, domain.BadRequest("origin and destination must be 3-letter IATA codes")
	}
	if dateOnly(from).After(dateOnly(to)) {
		return nil, domain.BadRequest("from date cannot be after to date")
	}

	return s.repo.FindByRoute(ctx,
		strings.ToUpper(origin),
		strings.ToUpper(destination),
		startOfDayUTC(from),
		startOfDayUTC(to).AddDate(0, 0, 1),
		page)
}

func (s *FlightService) Search(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (*domain.FlightPage, error) {
	filter.Airline = strings.TrimSpace(filter.Airline)
	filter.Origin = strings.TrimSpace(filter.Origin)
	filter.Destination = strings.TrimSpace(filter.Destination)

	if filter.DateFrom != nil && filter.DateTo != nil && dateOnly(*filter.DateFrom).After(dateOnly(*filter.DateTo)) {
		return nil, domain.BadRequest("from date cannot be after to date")
	}
	if filter.Origin != "" && len(filter.Origin) != 3 {
		return nil, domain.BadRequest("origin must be a 3-letter IATA code")
	}
	if filter.Destination != "" && len(filter.Destination) != 3 {
		return nil, domain.BadRequest("destination must be a 3-letter IATA code")
	}
	if filter.PriceMin != nil && filter.PriceMax != nil && *filter.PriceMin > *filter.PriceMax {
		return nil, domain.BadRequest("price_min cannot be greater than price_max")
	}

	if filter.DateFrom != nil {
		from := startOfDayUTC(*filter.DateFrom)
		filter.DateFrom = &from
	}
	if filter.DateTo != nil {
		// Half-open interval: the whole "to" day is included.
		to := startOfDayUTC(*filter.DateTo).AddDate(0, 0, 1)
		filter.DateTo = &to
	}

	return s.repo.Search(ctx, filter, page)
}

func (s *FlightService) validateNew(f *domain.Flight) error {
	if strings.TrimSpace(f.Code) == "" {
		return domain.BadRequest("code is required")
	}
	if strings.TrimSpace(f.Airline) == "" {
		return domain.BadRequest("airline is required")
	}
	if len(f.Origin) != 3 {
		return domain.BadRequest("origin must be a 3-letter IATA code")
	}
	if len(f.Destination) != 3 {
		return domain.BadRequest("destination must be a 3-letter IATA code")
	}
	if f.Price < 0 {
		return domain.BadRequest("price must be >= 0")
	}
	if f.DepartureAt.IsZero() || f.ArrivalAt.IsZero() {
		return domain.BadRequest("departure and arrival timestamps are required")
	}
	if dateOnly(f.DepartureAt).Before(dateOnly(s.now().UTC())) {
		return domain.BadRequest("departure date cannot be before today")
	}
	if f.Status == "" {
		return domain.BadRequest("status is required")
	}
	if !f.Status.Valid() {
		return domain.BadRequest("unknown flight status %q", f.Status)
	}
	return nil
}

func (s *FlightService) validateUpdate(upd domain.FlightUpdate) error {
	if upd.Code != nil && strings.TrimSpace(*upd.Code) == "" {
		return domain.BadRequest("code cannot be blank")
	}
	if upd.Airline != nil && strings.TrimSpace(*upd.Airline) == "" {
		return domain.BadRequest("airline cannot be blank")
	}
	if upd.Origin != nil && len(*upd.Origin) != 3 {
		return domain.BadRequest("origin must be a 3-letter IATA code")
	}
	if upd.Destination != nil && len(*upd.Destination) != 3 {
		return domain.BadRequest("destination must be a 3-letter IATA code")
	}
	if upd.Price != nil && *upd.Price < 0 {
		return domain.BadRequest("price must be >= 0")
	}
	if upd.DepartureAt != nil && dateOnly(*upd.DepartureAt).Before(dateOnly(s.now().UTC())) {
		return domain.BadRequest("departure date cannot be before today")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return domain.BadRequest("unknown flight status %q", *upd.Status)
	}
	return nil
}

// applyUpdate overwrites only the fields present on the partial update.
func applyUpdate(f *domain.Flight, upd domain.FlightUpdate) {
	if upd.Code != nil {
		f.Code = *upd.Code
	}
	if upd.Airline != nil {
		f.Airline = *upd.Airline
	}
	if upd.Origin != nil {
		f.Origin = strings.ToUpper(*upd.Origin)
	}
	if upd.Destination != nil {
		f.Destination = strings.ToUpper(*upd.Destination)
	}
	if upd.Price != nil {
		f.Price = *upd.Price
	}
	if upd.Currency != nil {
		f.Currency = strings.ToUpper(*upd.Currency)
	}
	if upd.DepartureAt != nil {
		f.DepartureAt = *upd.DepartureAt
	}
	if upd.ArrivalAt != nil {
		f.ArrivalAt = *upd.ArrivalAt
	}
	if upd.Status != nil {
		f.Status = *upd.Status
	}
	if upd.AircraftType != nil {
		f.AircraftType = *upd.AircraftType
	}
	if upd.AircraftCapacity != nil {
		f.AircraftCapacity = *upd.AircraftCapacity
	}
}

func (s *FlightService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRoutes(ctx); err != nil {
		s.logger.Warn("failed to invalidate route cache", zap.Error(err))
	}
}

func startOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return startOfDayUTC(t)
}

var _ FlightUseCase = (*FlightService)(nil)
