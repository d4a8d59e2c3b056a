package api

import (
	"net/http"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body of every failed request: a message plus a
// numeric code mirroring the HTTP status.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "an internal error occurred"

	switch domain.KindOf(err) {
	case domain.KindBadRequest:
		status = http.StatusBadRequest
		message = err.Error()
	case domain.KindConflict:
		status = http.StatusConflict
		message = err.Error()
	case domain.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case domain.KindUnauthorized:
		status = http.StatusUnauthorized
		message = err.Error()
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Code: status})
}
