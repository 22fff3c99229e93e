package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

var (
	ErrMissingUserHeader  = booking.NewError(booking.KindBadRequest, "header "+UserIDHeader+" is required")
	ErrInvalidUserHeader  = booking.NewError(booking.KindBadRequest, "header "+UserIDHeader+" must be a uuid")
	ErrInvalidPathID      = booking.NewError(booking.KindBadRequest, "path id must be a uuid")
	ErrInvalidQueryParam  = booking.NewError(booking.KindBadRequest, "invalid query parameter")
	ErrInvalidRequestBody = booking.NewError(booking.KindBadRequest, "invalid request body")
	ErrBookingNotInFuture = booking.NewError(booking.KindBadRequest, "start and end must be in the future")
	ErrRequestTimedOut    = errors.New("request timed out")
)

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	switch booking.KindOf(err) {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindBadRequest:
		return http.StatusBadRequest
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// messageOf hides the details of internal failures from clients.
func messageOf(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		return http.StatusText(http.StatusInternalServerError)
	case http.StatusGatewayTimeout:
		return ErrRequestTimedOut.Error()
	default:
		return err.Error()
	}
}

func (r *router) abortWithError(c *gin.Context, err error) {
	status := StatusOf(err)

	if status >= http.StatusInternalServerError {
		r.logger.ErrorContext(c.Request.Context(), logMsgRequestFailed,
			logAttrMethod, c.Request.Method,
			logAttrPath, c.FullPath(),
			logAttrError, err.Error(),
		)
	}

	r.writeJSON(c, status, errorResponse{Error: messageOf(err, status)})
	c.Abort()
}

func badRequest(sentinel *booking.Error, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
