// Package cancomment implements the Comment Eligibility query.
//
// A user may comment on an item once they hold an APPROVED reservation for it that has ended
// strictly before Now. The addcomment feature uses the same filter as its gate.
package cancomment
