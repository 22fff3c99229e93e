// Package addcomment implements the Add Comment use case.
//
// A comment is only accepted from a user who is eligible according to the cancomment feature:
// an APPROVED reservation of the item by that user must have ended before the comment is created.
package addcomment
