package api

import (
	"net/http"

	"github.com/Domenick1991/flightcatalog/internal/repository"
	"github.com/gin-gonic/gin"
)

// AuxHandler exposes maintenance endpoints used by system tests to reset
// state between runs.
type AuxHandler struct {
	flights   repository.FlightRepository
	sequences repository.SequenceRepository
}

func NewAuxHandler(flights repository.FlightRepository, sequences repository.SequenceRepository) *AuxHandler {
	return &AuxHandler{flights: flights, sequences: sequences}
}

func (h *AuxHandler) Register(router *gin.RouterGroup) {
	router.DELETE("/flights", h.deleteFlights)
	router.DELETE("/airlines", h.deleteSequences)
}

func (h *AuxHandler) deleteFlights(c *gin.Context) {
	if err := h.flights.DeleteAll(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuxHandler) deleteSequences(c *gin.Context) {
	if err := h.sequences.DeleteAll(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
