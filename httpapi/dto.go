package httpapi

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// TimestampLayout is the wire format of all timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is a time.Time with the wire format of the API.
type Timestamp time.Time

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(ts).UTC().Format(TimestampLayout) + `"`), nil
}

// UnmarshalJSON accepts TimestampLayout, interpreted as UTC, and RFC 3339.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(bytes.Trim(data, `"`))

	parsed, err := time.ParseInLocation(TimestampLayout, raw, time.UTC)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return booking.NewError(booking.KindBadRequest, "invalid timestamp: "+raw)
		}
	}

	*ts = Timestamp(parsed)

	return nil
}

func (ts Timestamp) Time() time.Time {
	return time.Time(ts)
}

// Requests

type userRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type itemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Available   *bool  `json:"available" binding:"required"`
}

type bookingRequest struct {
	ItemID uuid.UUID  `json:"itemId" binding:"required"`
	Start  *Timestamp `json:"start" binding:"required"`
	End    *Timestamp `json:"end" binding:"required"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Responses

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

type bookingResponse struct {
	ID     uuid.UUID  `json:"id"`
	Start  Timestamp  `json:"start"`
	End    Timestamp  `json:"end"`
	Item   idResponse `json:"item"`
	Booker idResponse `json:"booker"`
	Status string     `json:"status"`
}

type bookingSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
}

type commentResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    Timestamp `json:"created"`
}

type itemResponse struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Available   bool                    `json:"available"`
	Owner       idResponse              `json:"owner"`
	LastBooking *bookingSummaryResponse `json:"lastBooking"`
	NextBooking *bookingSummaryResponse `json:"nextBooking"`
	Comments    []commentResponse       `json:"comments"`
}

type canCommentResponse struct {
	CanComment bool `json:"canComment"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(user booking.User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

func toBookingResponse(r booking.Reservation) bookingResponse {
	return bookingResponse{
		ID:     r.ID,
		Start:  Timestamp(r.Start),
		End:    Timestamp(r.End),
		Item:   idResponse{ID: r.ItemID},
		Booker: idResponse{ID: r.BookerID},
		Status: r.Status.String(),
	}
}

func toBookingResponses(reservations []booking.Reservation) []bookingResponse {
	responses := make([]bookingResponse, 0, len(reservations))
	for _, r := range reservations {
		responses = append(responses, toBookingResponse(r))
	}

	return responses
}

func toSummaryResponse(summary *booking.BookingSummary) *bookingSummaryResponse {
	if summary == nil {
		return nil
	}

	return &bookingSummaryResponse{ID: summary.ReservationID, BookerID: summary.BookerID}
}

func toCommentResponse(comment booking.Comment) commentResponse {
	return commentResponse{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: comment.AuthorName,
		Created:    Timestamp(comment.Created),
	}
}

func toItemResponse(item booking.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		Owner:       idResponse{ID: item.OwnerID},
		Comments:    []commentResponse{},
	}
}

func toItemViewResponse(view booking.ItemView) itemResponse {
	response := toItemResponse(view.Item)
	response.LastBooking = toSummaryResponse(view.LastBooking)
	response.NextBooking = toSummaryResponse(view.NextBooking)

	for _, comment := range view.Comments {
		response.Comments = append(response.Comments, toCommentResponse(comment))
	}

	return response
}
