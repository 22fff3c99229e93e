package addcomment

import (
	"github.com/AntonStoeckl/item-booking-go/booking"
)

// Decide implements the business logic to accept a comment.
//
// Business Rules:
//
//	GIVEN: An existing author and item
//	WHEN: AddComment command is received
//	THEN: nil is returned and the comment may be stored
//	ERROR: booking.ErrEmptyCommentText if the text is blank
//	ERROR: booking.ErrNotEligibleToComment if the author has no completed APPROVED reservation of the item
func Decide(eligible bool, command Command) error {
	if command.Text == "" {
		return booking.ErrEmptyCommentText
	}

	if !eligible {
		return booking.ErrNotEligibleToComment
	}

	return nil
}
