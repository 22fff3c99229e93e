package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/item-booking-go/features/registeruser"
)

func (r *router) registerUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.abortWithError(c, badRequest(ErrInvalidRequestBody, err))
		return
	}

	user, err := r.handlers.RegisterUser.Handle(c.Request.Context(), registeruser.BuildCommand(req.Name, req.Email))
	if err != nil {
		r.abortWithError(c, err)
		return
	}

	r.writeJSON(c, http.StatusCreated, toUserResponse(user))
}
