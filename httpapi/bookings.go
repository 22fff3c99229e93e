package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/features/approvebooking"
	"github.com/AntonStoeckl/item-booking-go/features/createbooking"
	"github.com/AntonStoeckl/item-booking-go/features/getbooking"
	"github.com/AntonStoeckl/item-booking-go/features/listbookings"
)

const (
	defaultState = "ALL"
	defaultFrom  = "0"
)

func (r *router) createBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.abortWithError(c, badRequest(ErrInvalidRequestBody, err))
		return
	}

	now := r.now()
	if !req.Start.Time().After(now) || !req.End.Time().After(now) {
		r.abortWithError(c, ErrBookingNotInFuture)
		return
	}

	command := createbooking.BuildCommand(userIDFrom(c), req.ItemID, req.Start.Time(), req.End.Time())

	reservation, err := r.handlers.CreateBooking.Handle(c.Request.Context(), command)
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusCreated, toBookingResponse(reservation))
}

func (r *router) approveBooking(c *gin.Context) {
	reservationID, ok := r.pathID(c, "bookingId")
	if !ok {
		return
	}

	approved, parseErr := strconv.ParseBool(c.Query("approved"))
	if parseErr != nil {
		r.abortWithError(c, badRequest(ErrInvalidQueryParam, parseErr))
		return
	}

	command := approvebooking.BuildCommand(userIDFrom(c), reservationID, approved)

	reservation, err := r.handlers.ApproveBooking.Handle(c.Request.Context(), command)
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusOK, toBookingResponse(reservation))
}

func (r *router) getBooking(c *gin.Context) {
	reservationID, ok := r.pathID(c, "bookingId")
	if !ok {
		return
	}

	reservation, err := r.handlers.GetBooking.Handle(c.Request.Context(), getbooking.BuildQuery(reservationID, userIDFrom(c)))
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusOK, toBookingResponse(reservation))
}

func (r *router) listBookings(viewpoint booking.Viewpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, stateErr := booking.ParseState(c.DefaultQuery("state", defaultState))
		if stateErr != nil {
			r.abortWithError(c, stateErr)
			return
		}

		from, fromErr := strconv.Atoi(c.DefaultQuery("from", defaultFrom))
		if fromErr != nil {
			r.abortWithError(c, badRequest(ErrInvalidQueryParam, fromErr))
			return
		}

		size, sizeErr := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(listbookings.DefaultPageSize)))
		if sizeErr != nil {
			r.abortWithError(c, badRequest(ErrInvalidQueryParam, sizeErr))
			return
		}

		query := listbookings.BuildQuery(userIDFrom(c), viewpoint, state, from, size, r.now())

		reservations, err := r.handlers.ListBookings.Handle(c.Request.Context(), query)
		if err != nil {
			r.abortWithError(c, err)
			return
		}

		r.writeJSON(c, http.StatusOK, toBookingResponses(reservations))
	}
}
