package repo

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound means no row matched. For owned lookups it deliberately
	// covers both "does not exist" and "exists but owned by someone else".
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken maps the users_username_key unique violation.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken maps the users_email_key unique violation.
	ErrEmailTaken = errors.New("email already taken")
)

// mapUniqueViolation converts a postgres unique violation (23505) into
// the matching conflict error by constraint name. Other errors pass through.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "users_username_key":
			return ErrUsernameTaken
		case "users_email_key":
			return ErrEmailTaken
		}
	}
	return err
}
