package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/ulule/limiter/v3"

	"github.com/AntonStoeckl/item-booking-go/booking"
	"github.com/AntonStoeckl/item-booking-go/features/addcomment"
	"github.com/AntonStoeckl/item-booking-go/features/additem"
	"github.com/AntonStoeckl/item-booking-go/features/approvebooking"
	"github.com/AntonStoeckl/item-booking-go/features/cancomment"
	"github.com/AntonStoeckl/item-booking-go/features/createbooking"
	"github.com/AntonStoeckl/item-booking-go/features/getbooking"
	"github.com/AntonStoeckl/item-booking-go/features/listbookings"
	"github.com/AntonStoeckl/item-booking-go/features/projectitem"
	"github.com/AntonStoeckl/item-booking-go/features/registeruser"
	"github.com/AntonStoeckl/item-booking-go/shell"
)

// UserIDHeader carries the id of the acting user.
const UserIDHeader = "X-Sharer-User-Id"

const (
	logMsgRequest       = "http request"
	logMsgRequestFailed = "http request failed"

	logAttrMethod     = "method"
	logAttrPath       = "path"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"
	logAttrClientIP   = "client_ip"
	logAttrError      = "error"
)

// ErrMissingHandler is returned by NewRouter when a field of Handlers is nil.
var ErrMissingHandler = errors.New("all handlers must be set")

// Handlers are the feature handlers served by the router, usually wrapped with shell/observable.
type Handlers struct {
	RegisterUser   shell.CommandHandler[registeruser.Command, booking.User]
	AddItem        shell.CommandHandler[additem.Command, booking.Item]
	CreateBooking  shell.CommandHandler[createbooking.Command, booking.Reservation]
	ApproveBooking shell.CommandHandler[approvebooking.Command, booking.Reservation]
	AddComment     shell.CommandHandler[addcomment.Command, booking.Comment]
	GetBooking     shell.QueryHandler[getbooking.Query, booking.Reservation]
	ListBookings   shell.QueryHandler[listbookings.Query, []booking.Reservation]
	ProjectItem    shell.QueryHandler[projectitem.Query, booking.ItemView]
	CanComment     shell.QueryHandler[cancomment.Query, bool]
}

func (h Handlers) complete() bool {
	return h.RegisterUser != nil && h.AddItem != nil && h.CreateBooking != nil &&
		h.ApproveBooking != nil && h.AddComment != nil && h.GetBooking != nil &&
		h.ListBookings != nil && h.ProjectItem != nil && h.CanComment != nil
}

// Option configures the router built by NewRouter.
type Option func(*router) error

// WithClock sets the source of "now" for time-dependent requests.
func WithClock(now func() time.Time) Option {
	return func(r *router) error {
		r.now = now
		return nil
	}
}

// WithLogger sets the logger for request and failure logs, the default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *router) error {
		r.logger = logger
		return nil
	}
}

// WithRequestTimeout bounds the context passed to the handlers of every request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(r *router) error {
		r.requestTimeout = timeout
		return nil
	}
}

// WithRateLimiter limits requests per acting user, or per client IP for anonymous requests.
func WithRateLimiter(lim *limiter.Limiter) Option {
	return func(r *router) error {
		r.limiter = lim
		return nil
	}
}

// WithCORS enables CORS for the given origins, all origins when none are given.
func WithCORS(origins ...string) Option {
	return func(r *router) error {
		cfg := cors.Config{
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch},
			AllowHeaders:  []string{"Origin", "Content-Type", UserIDHeader},
			ExposeHeaders: []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			MaxAge:        12 * time.Hour,
		}

		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		r.cors = cors.New(cfg)

		return nil
	}
}

type router struct {
	handlers       Handlers
	now            func() time.Time
	logger         *slog.Logger
	requestTimeout time.Duration
	limiter        *limiter.Limiter
	cors           gin.HandlerFunc
}

// NewRouter builds the gin engine serving all booking routes.
func NewRouter(handlers Handlers, options ...Option) (*gin.Engine, error) {
	if !handlers.complete() {
		return nil, ErrMissingHandler
	}

	r := &router{
		handlers: handlers,
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), r.logRequests())

	if r.cors != nil {
		engine.Use(r.cors)
	}

	if r.limiter != nil {
		engine.Use(rateLimitMiddleware(r.limiter))
	}

	if r.requestTimeout > 0 {
		engine.Use(r.withTimeout())
	}

	engine.NoRoute(func(c *gin.Context) {
		r.writeJSON(c, http.StatusNotFound, errorResponse{Error: "route not found"})
	})

	engine.GET("/health", func(c *gin.Context) {
		r.writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
	})

	engine.POST("/users", r.registerUser)

	items := engine.Group("/items", r.requireUser())
	{
		items.POST("", r.addItem)
		items.GET("/:itemId", r.projectItem)
		items.GET("/:itemId/can-comment", r.canComment)
		items.POST("/:itemId/comment", r.addComment)
	}

	bookings := engine.Group("/bookings", r.requireUser())
	{
		bookings.POST("", r.createBooking)
		bookings.GET("", r.listBookings(booking.AsBooker))
		bookings.GET("/owner", r.listBookings(booking.AsOwner))
		bookings.GET("/:bookingId", r.getBooking)
		bookings.PATCH("/:bookingId", r.approveBooking)
	}

	return engine, nil
}

func (r *router) writeJSON(c *gin.Context, status int, body any) {
	data, err := jsoniter.ConfigFastest.Marshal(body)
	if err != nil {
		r.logger.ErrorContext(c.Request.Context(), logMsgRequestFailed, logAttrError, err.Error())
		c.Status(http.StatusInternalServerError)

		return
	}

	c.Data(status, "application/json; charset=utf-8", data)
}

func (r *router) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		r.logger.InfoContext(c.Request.Context(), logMsgRequest,
			logAttrMethod, c.Request.Method,
			logAttrPath, c.FullPath(),
			logAttrStatus, c.Writer.Status(),
			logAttrDurationMS, shell.ToMilliseconds(time.Since(start)),
			logAttrClientIP, c.ClientIP(),
		)
	}
}

func (r *router) withTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), r.requestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
