package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxKeyUserID = "booking.user_id"

// requireUser rejects requests without a valid X-Sharer-User-Id header.
func (r *router) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if raw == "" {
			r.abortWithError(c, ErrMissingUserHeader)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			r.abortWithError(c, ErrInvalidUserHeader)
			return
		}

		c.Set(ctxKeyUserID, userID)
		c.Next()
	}
}

func userIDFrom(c *gin.Context) uuid.UUID {
	return c.MustGet(ctxKeyUserID).(uuid.UUID)
}

func (r *router) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		r.abortWithError(c, ErrInvalidPathID)
		return uuid.Nil, false
	}

	return id, true
}
