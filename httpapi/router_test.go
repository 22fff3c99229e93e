package httpapi_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	"github.com/AntonStoeckl/item-booking-go/httpapi"
	. "github.com/AntonStoeckl/item-booking-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/item-booking-go/testutil/memstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handlersFor(store *memstore.Store) httpapi.Handlers {
	return httpapi.Handlers{
		RegisterUser:   registeruser.NewCommandHandler(store),
		AddItem:        additem.NewCommandHandler(store),
		CreateBooking:  createbooking.NewCommandHandler(store),
		ApproveBooking: approvebooking.NewCommandHandler(store),
		AddComment:     addcomment.NewCommandHandler(store),
		GetBooking:     getbooking.NewQueryHandler(store),
		ListBookings:   listbookings.NewQueryHandler(store),
		ProjectItem:    projectitem.NewQueryHandler(store),
		CanComment:     cancomment.NewQueryHandler(store),
	}
}

func givenRouter(t *testing.T, store *memstore.Store, options ...httpapi.Option) *gin.Engine {
	t.Helper()

	return givenRouterWithHandlers(t, handlersFor(store), options...)
}

func givenRouterWithHandlers(t *testing.T, handlers httpapi.Handlers, options ...httpapi.Option) *gin.Engine {
	t.Helper()

	options = append([]httpapi.Option{httpapi.WithClock(FakeClock)}, options...)

	engine, err := httpapi.NewRouter(handlers, options...)
	require.NoError(t, err, "error in arranging test data")

	return engine
}

func serve(engine *gin.Engine, method, path string, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	if userID != uuid.Nil {
		req.Header.Set(httpapi.UserIDHeader, userID.String())
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var target T
	require.NoError(t, jsoniter.ConfigFastest.Unmarshal(rec.Body.Bytes(), &target), rec.Body.String())

	return target
}

type bookingBody struct {
	ID     string `json:"id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
	Item   struct {
		ID string `json:"id"`
	} `json:"item"`
	Booker struct {
		ID string `json:"id"`
	} `json:"booker"`
}

type errorBody struct {
	Error string `json:"error"`
}

type bookingFixture struct {
	store  *memstore.Store
	engine *gin.Engine
	owner  booking.User
	booker booking.User
	item   booking.Item
}

func givenBookingFixture(t *testing.T) bookingFixture {
	t.Helper()

	ctx := context.Background()
	store := memstore.New()
	owner := GivenUser(t, ctx, store, "owner")
	booker := GivenUser(t, ctx, store, "booker")
	item := GivenItem(t, ctx, store, owner.ID, true)

	return bookingFixture{store: store, engine: givenRouter(t, store), owner: owner, booker: booker, item: item}
}

func bookingRequest(itemID uuid.UUID, start, end time.Time) string {
	return `{"itemId":"` + itemID.String() + `","start":"` + start.Format(httpapi.TimestampLayout) +
		`","end":"` + end.Format(httpapi.TimestampLayout) + `"}`
}

func Test_NewRouter_ShouldFail_WithMissingHandler(t *testing.T) {
	handlers := handlersFor(memstore.New())
	handlers.CanComment = nil

	_, err := httpapi.NewRouter(handlers)

	assert.ErrorIs(t, err, httpapi.ErrMissingHandler)
}

func Test_Router_RegisterUser(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "valid user", body: `{"name":"Ann","email":"ann@example.com"}`, expectedStatus: http.StatusCreated},
		{name: "missing name", body: `{"email":"ann@example.com"}`, expectedStatus: http.StatusBadRequest},
		{name: "invalid email", body: `{"name":"Ann","email":"not-an-email"}`, expectedStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"name":`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			engine := givenRouter(t, memstore.New())

			// act
			rec := serve(engine, http.MethodPost, "/users", uuid.Nil, tt.body)

			// assert
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}

func Test_Router_RegisterUser_ShouldConflict_WithDuplicateEmail(t *testing.T) {
	// arrange
	engine := givenRouter(t, memstore.New())
	body := `{"name":"Ann","email":"ann@example.com"}`
	require.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/users", uuid.Nil, body).Code)

	// act
	rec := serve(engine, http.MethodPost, "/users", uuid.Nil, `{"name":"Ann","email":"ANN@example.com"}`)

	// assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, booking.ErrDuplicateEntity.Error(), decode[errorBody](t, rec).Error)
}

func Test_Router_UserHeader(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		expectedError string
	}{
		{name: "missing", header: "", expectedError: httpapi.ErrMissingUserHeader.Error()},
		{name: "not a uuid", header: "42", expectedError: httpapi.ErrInvalidUserHeader.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			engine := givenRouter(t, memstore.New())
			req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			if tt.header != "" {
				req.Header.Set(httpapi.UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			// act
			engine.ServeHTTP(rec, req)

			// assert
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.expectedError, decode[errorBody](t, rec).Error)
		})
	}
}

func Test_Router_AddItem(t *testing.T) {
	// arrange
	store := memstore.New()
	owner := GivenUser(t, context.Background(), store, "owner")
	engine := givenRouter(t, store)

	// act
	rec := serve(engine, http.MethodPost, "/items", owner.ID, `{"name":"Ladder","description":"3m","available":true}`)

	// assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `"`+owner.ID.String()+`"`, mustField(t, rec, "owner", "id"))
}

func Test_Router_AddItem_ShouldFail_WithoutAvailableFlag(t *testing.T) {
	// arrange
	store := memstore.New()
	owner := GivenUser(t, context.Background(), store, "owner")
	engine := givenRouter(t, store)

	// act
	rec := serve(engine, http.MethodPost, "/items", owner.ID, `{"name":"Ladder"}`)

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Router_BookingLifecycle(t *testing.T) {
	// arrange
	f := givenBookingFixture(t)

	// act
	created := serve(f.engine, http.MethodPost, "/bookings", f.booker.ID, bookingRequest(f.item.ID, At(1), At(2)))

	// assert
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	createdBody := decode[bookingBody](t, created)
	assert.Equal(t, "WAITING", createdBody.Status)
	assert.Equal(t, "2025-03-10T13:00:00", createdBody.Start)
	assert.Equal(t, "2025-03-10T14:00:00", createdBody.End)
	assert.Equal(t, f.item.ID.String(), createdBody.Item.ID)
	assert.Equal(t, f.booker.ID.String(), createdBody.Booker.ID)

	path := "/bookings/" + createdBody.ID

	// act
	approved := serve(f.engine, http.MethodPatch, path+"?approved=true", f.owner.ID, "")

	// assert
	require.Equal(t, http.StatusOK, approved.Code, approved.Body.String())
	assert.Equal(t, "APPROVED", decode[bookingBody](t, approved).Status)

	// act
	again := serve(f.engine, http.MethodPatch, path+"?approved=false", f.owner.ID, "")

	// assert
	assert.Equal(t, http.StatusBadRequest, again.Code)
	assert.Equal(t, booking.ErrAlreadyDecided.Error(), decode[errorBody](t, again).Error)

	// act
	fetched := serve(f.engine, http.MethodGet, path, f.booker.ID, "")

	// assert
	require.Equal(t, http.StatusOK, fetched.Code)
	assert.Equal(t, "APPROVED", decode[bookingBody](t, fetched).Status)
}

func Test_Router_BookingErrors(t *testing.T) {
	f := givenBookingFixture(t)
	stranger := GivenUser(t, context.Background(), f.store, "stranger")
	waiting := GivenReservation(t, context.Background(), f.store, f.item.ID, f.booker.ID, At(5), At(6), booking.StatusWaiting)

	tests := []struct {
		name           string
		method         string
		path           string
		userID         uuid.UUID
		body           string
		expectedStatus int
	}{
		{
			name: "start in the past", method: http.MethodPost, path: "/bookings", userID: f.booker.ID,
			body: bookingRequest(f.item.ID, At(-1), At(2)), expectedStatus: http.StatusBadRequest,
		},
		{
			name: "end before start", method: http.MethodPost, path: "/bookings", userID: f.booker.ID,
			body: bookingRequest(f.item.ID, At(3), At(2)), expectedStatus: http.StatusBadRequest,
		},
		{
			name: "owner books own item", method: http.MethodPost, path: "/bookings", userID: f.owner.ID,
			body: bookingRequest(f.item.ID, At(1), At(2)), expectedStatus: http.StatusForbidden,
		},
		{
			name: "unknown item", method: http.MethodPost, path: "/bookings", userID: f.booker.ID,
			body: bookingRequest(uuid.New(), At(1), At(2)), expectedStatus: http.StatusNotFound,
		},
		{
			name: "missing item id", method: http.MethodPost, path: "/bookings", userID: f.booker.ID,
			body: `{"start":"2025-03-10T13:00:00","end":"2025-03-10T14:00:00"}`, expectedStatus: http.StatusBadRequest,
		},
		{
			name: "booker approves", method: http.MethodPatch, path: "/bookings/" + waiting.ID.String() + "?approved=true",
			userID: f.booker.ID, expectedStatus: http.StatusForbidden,
		},
		{
			name: "approved is not a bool", method: http.MethodPatch, path: "/bookings/" + waiting.ID.String() + "?approved=maybe",
			userID: f.owner.ID, expectedStatus: http.StatusBadRequest,
		},
		{
			name: "stranger views booking", method: http.MethodGet, path: "/bookings/" + waiting.ID.String(),
			userID: stranger.ID, expectedStatus: http.StatusForbidden,
		},
		{
			name: "unknown booking", method: http.MethodGet, path: "/bookings/" + uuid.New().String(),
			userID: f.booker.ID, expectedStatus: http.StatusNotFound,
		},
		{
			name: "booking id is not a uuid", method: http.MethodGet, path: "/bookings/42",
			userID: f.booker.ID, expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			rec := serve(f.engine, tt.method, tt.path, tt.userID, tt.body)

			// assert
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errorBody](t, rec).Error)
		})
	}
}

func Test_Router_ListBookings(t *testing.T) {
	f := givenBookingFixture(t)
	ctx := context.Background()
	past := GivenReservation(t, ctx, f.store, f.item.ID, f.booker.ID, At(-4), At(-3), booking.StatusApproved)
	future := GivenReservation(t, ctx, f.store, f.item.ID, f.booker.ID, At(3), At(4), booking.StatusWaiting)

	tests := []struct {
		name        string
		path        string
		userID      uuid.UUID
		expectedIDs []uuid.UUID
	}{
		{name: "booker default state", path: "/bookings", userID: f.booker.ID, expectedIDs: []uuid.UUID{future.ID, past.ID}},
		{name: "booker past", path: "/bookings?state=PAST", userID: f.booker.ID, expectedIDs: []uuid.UUID{past.ID}},
		{name: "owner waiting", path: "/bookings/owner?state=waiting", userID: f.owner.ID, expectedIDs: []uuid.UUID{future.ID}},
		{name: "owner second page", path: "/bookings/owner?from=1&size=1", userID: f.owner.ID, expectedIDs: []uuid.UUID{past.ID}},
		{name: "owner sees nothing as booker", path: "/bookings", userID: f.owner.ID, expectedIDs: []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			rec := serve(f.engine, http.MethodGet, tt.path, tt.userID, "")

			// assert
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			ids := make([]uuid.UUID, 0)
			for _, b := range decode[[]bookingBody](t, rec) {
				ids = append(ids, uuid.MustParse(b.ID))
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func Test_Router_ListBookings_Errors(t *testing.T) {
	f := givenBookingFixture(t)

	tests := []struct {
		name           string
		path           string
		userID         uuid.UUID
		expectedStatus int
		expectedError  string
	}{
		{name: "unknown state", path: "/bookings?state=UNSUPPORTED_STATUS", userID: f.booker.ID,
			expectedStatus: http.StatusBadRequest, expectedError: "unknown state"},
		{name: "negative from", path: "/bookings?from=-1", userID: f.booker.ID,
			expectedStatus: http.StatusBadRequest, expectedError: booking.ErrInvalidPagination.Error()},
		{name: "zero size", path: "/bookings/owner?size=0", userID: f.owner.ID,
			expectedStatus: http.StatusBadRequest, expectedError: booking.ErrInvalidPagination.Error()},
		{name: "size not a number", path: "/bookings?size=ten", userID: f.booker.ID,
			expectedStatus: http.StatusBadRequest, expectedError: httpapi.ErrInvalidQueryParam.Error()},
		{name: "unknown user", path: "/bookings", userID: uuid.New(),
			expectedStatus: http.StatusNotFound, expectedError: booking.ErrUserNotFound.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			rec := serve(f.engine, http.MethodGet, tt.path, tt.userID, "")

			// assert
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, decode[errorBody](t, rec).Error, tt.expectedError)
		})
	}
}

func Test_Router_ItemView_And_Comments(t *testing.T) {
	// arrange
	f := givenBookingFixture(t)
	ctx := context.Background()
	last := GivenReservation(t, ctx, f.store, f.item.ID, f.booker.ID, At(-4), At(-3), booking.StatusApproved)
	next := GivenReservation(t, ctx, f.store, f.item.ID, f.booker.ID, At(3), At(4), booking.StatusApproved)
	itemPath := "/items/" + f.item.ID.String()

	// act
	canComment := serve(f.engine, http.MethodGet, itemPath+"/can-comment", f.booker.ID, "")
	commented := serve(f.engine, http.MethodPost, itemPath+"/comment", f.booker.ID, `{"text":"  Works great  "}`)
	ownerView := serve(f.engine, http.MethodGet, itemPath, f.owner.ID, "")
	bookerView := serve(f.engine, http.MethodGet, itemPath, f.booker.ID, "")

	// assert
	require.Equal(t, http.StatusOK, canComment.Code)
	assert.JSONEq(t, `{"canComment":true}`, canComment.Body.String())

	require.Equal(t, http.StatusCreated, commented.Code, commented.Body.String())
	assert.JSONEq(t, `"Works great"`, mustField(t, commented, "text"))
	assert.JSONEq(t, `"booker"`, mustField(t, commented, "authorName"))
	assert.JSONEq(t, `"2025-03-10T12:00:00"`, mustField(t, commented, "created"))

	require.Equal(t, http.StatusOK, ownerView.Code, ownerView.Body.String())
	assert.JSONEq(t, `{"id":"`+last.ID.String()+`","bookerId":"`+f.booker.ID.String()+`"}`,
		mustField(t, ownerView, "lastBooking"))
	assert.JSONEq(t, `{"id":"`+next.ID.String()+`","bookerId":"`+f.booker.ID.String()+`"}`,
		mustField(t, ownerView, "nextBooking"))

	require.Equal(t, http.StatusOK, bookerView.Code)
	assert.JSONEq(t, "null", mustField(t, bookerView, "lastBooking"))
	assert.JSONEq(t, "null", mustField(t, bookerView, "nextBooking"))
	assert.Contains(t, mustField(t, bookerView, "comments"), "Works great")
}

func Test_Router_AddComment_ShouldFail_WhenNotEligible(t *testing.T) {
	// arrange
	f := givenBookingFixture(t)
	GivenReservation(t, context.Background(), f.store, f.item.ID, f.booker.ID, At(1), At(2), booking.StatusApproved)

	// act
	rec := serve(f.engine, http.MethodPost, "/items/"+f.item.ID.String()+"/comment", f.booker.ID, `{"text":"Too early"}`)

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, booking.ErrNotEligibleToComment.Error(), decode[errorBody](t, rec).Error)
}

func Test_Router_HidesInternalErrors(t *testing.T) {
	// arrange
	f := givenBookingFixture(t)
	f.store.FailWith(assert.AnError)

	// act
	rec := serve(f.engine, http.MethodGet, "/bookings", f.booker.ID, "")

	// assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decode[errorBody](t, rec).Error)
}

type blockingGetBooking struct{}

func (blockingGetBooking) Handle(ctx context.Context, _ getbooking.Query) (booking.Reservation, error) {
	<-ctx.Done()

	return booking.Reservation{}, ctx.Err()
}

func Test_Router_RequestTimeout(t *testing.T) {
	// arrange
	handlers := handlersFor(memstore.New())
	handlers.GetBooking = blockingGetBooking{}
	engine := givenRouterWithHandlers(t, handlers, httpapi.WithRequestTimeout(10*time.Millisecond))

	// act
	rec := serve(engine, http.MethodGet, "/bookings/"+uuid.New().String(), uuid.New(), "")

	// assert
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, httpapi.ErrRequestTimedOut.Error(), decode[errorBody](t, rec).Error)
}

func Test_Router_RateLimit(t *testing.T) {
	// arrange
	rate := limiter.Rate{Period: time.Minute, Limit: 1}
	engine := givenRouter(t, memstore.New(), httpapi.WithRateLimiter(httpapi.NewMemoryRateLimiter(rate)))
	userID := uuid.New()

	// act
	first := serve(engine, http.MethodGet, "/health", userID, "")
	second := serve(engine, http.MethodGet, "/health", userID, "")
	otherUser := serve(engine, http.MethodGet, "/health", uuid.New(), "")

	// assert
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusOK, otherUser.Code)
}

func Test_Router_CORS(t *testing.T) {
	// arrange
	engine := givenRouter(t, memstore.New(), httpapi.WithCORS("https://app.example.com"))
	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", httpapi.UserIDHeader)
	rec := httptest.NewRecorder()

	// act
	engine.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")),
		strings.ToLower(httpapi.UserIDHeader)))
}

func Test_Router_UnknownRoute(t *testing.T) {
	rec := serve(givenRouter(t, memstore.New()), http.MethodGet, "/nowhere", uuid.Nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// mustField returns the raw JSON of a nested field of the response body.
func mustField(t *testing.T, rec *httptest.ResponseRecorder, path ...string) string {
	t.Helper()

	var value any
	require.NoError(t, jsoniter.ConfigFastest.Unmarshal(rec.Body.Bytes(), &value), rec.Body.String())

	for _, key := range path {
		object, ok := value.(map[string]any)
		require.True(t, ok, "expected an object at %q in %s", key, rec.Body.String())

		value, ok = object[key]
		require.True(t, ok, "missing field %q in %s", key, rec.Body.String())
	}

	raw, err := jsoniter.ConfigFastest.Marshal(value)
	require.NoError(t, err)

	return string(raw)
}
