package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/Domenick1991/flightcatalog/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const correlationHeader = "X-Correlation-Id"

type CodeAllocator interface {
	NextFlightCode(ctx context.Context, prefix string) (string, error)
}

// EventEmitter re-publishes a stored flight to the HTTP event gateway and
// returns the gateway's raw response body.
type EventEmitter interface {
	PublishFlightCreated(ctx context.Context, f *domain.Flight, correlationID string) (string, error)
	PublishFlightUpdated(ctx context.Context, f *domain.Flight, correlationID string) (string, error)
}

type FlightHandler struct {
	service  flights.FlightUseCase
	codes    CodeAllocator
	emitter  EventEmitter
	pageSize int
}

func NewFlightHandler(service flights.FlightUseCase, codes CodeAllocator, emitter EventEmitter, pageSize int) *FlightHandler {
	if pageSize <= 0 {
		pageSize = 8
	}
	return &FlightHandler{service: service, codes: codes, emitter: emitter, pageSize: pageSize}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.searchByRoute)
	router.POST("", h.create)
	router.GET("/range", h.searchByRange)
	router.GET("/search", h.search)
	router.GET("/codes/next", h.nextCode)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.POST("/:id/events/created", h.emitCreated)
	router.POST("/:id/events/updated", h.emitUpdated)
}

func (h *FlightHandler) create(c *gin.Context) {
	var f domain.Flight
	if err := c.ShouldBindJSON(&f); err != nil {
		writeError(c, domain.BadRequest("invalid request body: %v", err))
		return
	}

	stored, err := h.service.Create(c.Request.Context(), &f, c.GetHeader(correlationHeader))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	f, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	var upd domain.FlightUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		writeError(c, domain.BadRequest("invalid request body: %v", err))
		return
	}

	stored, err := h.service.Update(c.Request.Context(), id, upd, c.GetHeader(correlationHeader))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) searchByRoute(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.SearchByRoute(c.Request.Context(), c.Query("origin"), c.Query("destination"), date, h.page(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) searchByRange(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		writeError(c, err)
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.SearchByRange(c.Request.Context(), c.Query("origin"), c.Query("destination"), from, to, h.page(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) search(c *gin.Context) {
	filter := domain.SearchFilter{
		Airline:     c.Query("airline"),
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
	}

	if v := c.Query("from"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			writeError(c, err)
			return
		}
		filter.DateFrom = &d
	}
	if v := c.Query("to"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			writeError(c, err)
			return
		}
		filter.DateTo = &d
	}
	if v := c.Query("price_min"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, domain.BadRequest("invalid price_min: %s", v))
			return
		}
		filter.PriceMin = &p
	}
	if v := c.Query("price_max"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, domain.BadRequest("invalid price_max: %s", v))
			return
		}
		filter.PriceMax = &p
	}

	result, err := h.service.Search(c.Request.Context(), filter, h.page(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) nextCode(c *gin.Context) {
	code, err := h.codes.NextFlightCode(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

func (h *FlightHandler) emitCreated(c *gin.Context) {
	h.emit(c, h.emitter.PublishFlightCreated)
}

func (h *FlightHandler) emitUpdated(c *gin.Context) {
	h.emit(c, h.emitter.PublishFlightUpdated)
}

func (h *FlightHandler) emit(c *gin.Context, publish func(context.Context, *domain.Flight, string) (string, error)) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	f, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	body, err := publish(c.Request.Context(), f, c.GetHeader(correlationHeader))
	if err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, body)
}

func (h *FlightHandler) page(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil || size <= 0 {
		size = h.pageSize
	}
	if page < 0 {
		page = 0
	}
	return domain.PageRequest{Page: page, Size: size}
}

func flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, domain.BadRequest("invalid flight id"))
		return 0, false
	}
	return id, true
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.BadRequest("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}
