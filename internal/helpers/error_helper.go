package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/momohgodsfavour/ticketing-api/internal/engine"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithEngineError translates engine sentinels into HTTP statuses so
// handlers never re-implement the taxonomy mapping.
func RespondWithEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrForbidden):
		RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrAlreadyProcessed),
		errors.Is(err, engine.ErrInvalidStateTransition):
		RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrInsufficientBonus),
		errors.Is(err, engine.ErrInvalidRole),
		errors.Is(err, engine.ErrInvalidSeller),
		errors.Is(err, engine.ErrExpired),
		errors.Is(err, engine.ErrOutsidePayoutWindow),
		errors.Is(err, engine.ErrValidation):
		RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrTicketTypeDeleted):
		RespondWithError(c, http.StatusGone, err.Error())
	case errors.Is(err, engine.ErrRetryable):
		RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		RespondWithError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
