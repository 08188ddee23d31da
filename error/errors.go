package error

import (
	"errors"
	"net/http"

	"github.com/Aum-Ahsan/car-rental-booking/domain"
	"github.com/gin-gonic/gin"
)

// Envelope is the response shape every endpoint answers with.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func ReturnData(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{Success: true, Message: message, Data: data})
}

func ReturnList(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

func ReturnError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{Success: false, Message: message})
}

// ReturnBookingError maps the booking error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a transient store failure.
func ReturnBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCarNotFound()), errors.Is(err, domain.ErrBookingNotFound()):
		ReturnError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCarUnavailable()), errors.Is(err, domain.ErrBookingConflict()):
		ReturnError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange()):
		ReturnError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden()):
		ReturnError(c, http.StatusForbidden, err.Error())
	default:
		ReturnError(c, http.StatusInternalServerError, err.Error())
	}
}
