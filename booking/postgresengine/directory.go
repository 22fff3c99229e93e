package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-booking-go/booking"
)

// RegisterUser stores a new user, assigning an id when none is set.
// A user with the same id or email already existing yields booking.ErrDuplicateEntity.
func (s *Store) RegisterUser(ctx context.Context, user booking.User) (booking.User, error) {
	if err := assignID(&user.ID); err != nil {
		return booking.User{}, err
	}

	sqlQuery, buildErr := s.buildInsertUserQuery(user)
	if buildErr != nil {
		return booking.User{}, s.buildFailed(ctx, operationInsertUser, buildErr)
	}

	if err := s.execInsertOnce(ctx, operationInsertUser, sqlQuery); err != nil {
		return booking.User{}, err
	}

	return user, nil
}

// GetUser returns the user with the given id or booking.ErrUserNotFound.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (booking.User, error) {
	sqlQuery, buildErr := s.buildSelectUserQuery(id)
	if buildErr != nil {
		return booking.User{}, s.buildFailed(ctx, operationQueryUser, buildErr)
	}

	rows, queryErr := s.query(ctx, operationQueryUser, sqlQuery, booking.ErrQueryingDirectoryFailed)
	if queryErr != nil {
		return booking.User{}, queryErr
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return booking.User{}, s.scanFailed(ctx, operationQueryUser, rowsErr)
		}

		return booking.User{}, booking.ErrUserNotFound
	}

	var rawID string
	user := booking.User{}

	if scanErr := rows.Scan(&rawID, &user.Name, &user.Email); scanErr != nil {
		return booking.User{}, s.scanFailed(ctx, operationQueryUser, scanErr)
	}

	ids, parseErr := parseUUIDs(rawID)
	if parseErr != nil {
		return booking.User{}, s.scanFailed(ctx, operationQueryUser, parseErr)
	}

	user.ID = ids[0]

	return user, nil
}

// UserExists reports whether a user with the given id is registered.
func (s *Store) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.GetUser(ctx, id)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, booking.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// AddItem stores a new item, assigning an id when none is set.
func (s *Store) AddItem(ctx context.Context, item booking.Item) (booking.Item, error) {
	if err := assignID(&item.ID); err != nil {
		return booking.Item{}, err
	}

	sqlQuery, buildErr := s.buildInsertItemQuery(item)
	if buildErr != nil {
		return booking.Item{}, s.buildFailed(ctx, operationInsertItem, buildErr)
	}

	if err := s.execInsertOnce(ctx, operationInsertItem, sqlQuery); err != nil {
		return booking.Item{}, err
	}

	return item, nil
}

// GetItem returns the item with the given id or booking.ErrItemNotFound.
func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (booking.Item, error) {
	sqlQuery, buildErr := s.buildSelectItemQuery(id)
	if buildErr != nil {
		return booking.Item{}, s.buildFailed(ctx, operationQueryItem, buildErr)
	}

	rows, queryErr := s.query(ctx, operationQueryItem, sqlQuery, booking.ErrQueryingDirectoryFailed)
	if queryErr != nil {
		return booking.Item{}, queryErr
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return booking.Item{}, s.scanFailed(ctx, operationQueryItem, rowsErr)
		}

		return booking.Item{}, booking.ErrItemNotFound
	}

	var rawID, rawOwnerID string
	item := booking.Item{}

	if scanErr := rows.Scan(&rawID, &rawOwnerID, &item.Name, &item.Description, &item.Available); scanErr != nil {
		return booking.Item{}, s.scanFailed(ctx, operationQueryItem, scanErr)
	}

	ids, parseErr := parseUUIDs(rawID, rawOwnerID)
	if parseErr != nil {
		return booking.Item{}, s.scanFailed(ctx, operationQueryItem, parseErr)
	}

	item.ID, item.OwnerID = ids[0], ids[1]

	return item, nil
}

// InsertComment stores a new comment and returns it with its store-assigned id.
func (s *Store) InsertComment(ctx context.Context, comment booking.Comment) (booking.Comment, error) {
	id, idErr := uuid.NewV7()
	if idErr != nil {
		return booking.Comment{}, idErr
	}

	comment.ID = id
	comment.Created = booking.ToTimestamp(comment.Created)

	sqlQuery, buildErr := s.buildInsertCommentQuery(comment)
	if buildErr != nil {
		return booking.Comment{}, s.buildFailed(ctx, operationInsertComment, buildErr)
	}

	if _, execErr := s.exec(ctx, operationInsertComment, sqlQuery); execErr != nil {
		return booking.Comment{}, execErr
	}

	return comment, nil
}

// QueryCommentsByItem returns the comments of an item, oldest first.
func (s *Store) QueryCommentsByItem(ctx context.Context, itemID uuid.UUID) ([]booking.Comment, error) {
	sqlQuery, buildErr := s.buildSelectCommentsQuery(itemID)
	if buildErr != nil {
		return nil, s.buildFailed(ctx, operationQueryComments, buildErr)
	}

	rows, queryErr := s.query(ctx, operationQueryComments, sqlQuery, booking.ErrQueryingCommentsFailed)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	comments := make([]booking.Comment, 0)

	var rawID, rawItemID, rawAuthorID, authorName, text string
	var createdAt time.Time

	for rows.Next() {
		if scanErr := rows.Scan(&rawID, &rawItemID, &rawAuthorID, &authorName, &text, &createdAt); scanErr != nil {
			return nil, s.scanFailed(ctx, operationQueryComments, scanErr)
		}

		ids, parseErr := parseUUIDs(rawID, rawItemID, rawAuthorID)
		if parseErr != nil {
			return nil, s.scanFailed(ctx, operationQueryComments, parseErr)
		}

		comments = append(comments, booking.Comment{
			ID:         ids[0],
			ItemID:     ids[1],
			AuthorID:   ids[2],
			AuthorName: authorName,
			Text:       text,
			Created:    booking.ToTimestamp(createdAt),
		})
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, s.scanFailed(ctx, operationQueryComments, rowsErr)
	}

	return comments, nil
}

// execInsertOnce executes an INSERT ... ON CONFLICT DO NOTHING and reports a skipped row as a duplicate.
func (s *Store) execInsertOnce(ctx context.Context, operation string, sqlQuery sqlQueryString) error {
	rowsAffected, execErr := s.exec(ctx, operation, sqlQuery)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		s.logOperation(ctx, logMsgDuplicateEntity, logAttrOperation, operation)
		return booking.ErrDuplicateEntity
	}

	return nil
}

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	generated, err := uuid.NewV7()
	if err != nil {
		return err
	}

	*id = generated

	return nil
}
