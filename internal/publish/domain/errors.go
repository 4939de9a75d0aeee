package domain

import (
	"errors"
	"fmt"
)

// ErrNoBranch is returned when neither the pull request nor the
// environment names a branch to upload to.
var ErrNoBranch = errors.New("no branch ref available for repository upload")

// NotFoundError reports that a contents lookup found nothing at Location.
// Uploads treat it as "create the file" rather than as a failure.
type NotFoundError struct {
	Location FileLocation
	// Err is the API response behind the lookup miss, if any.
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no content at %s/%s@%s:%s", e.Location.Owner, e.Location.Repo, e.Location.Branch, e.Location.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewNotFoundError records a lookup miss at loc caused by err.
func NewNotFoundError(loc FileLocation, err error) *NotFoundError {
	return &NotFoundError{Location: loc, Err: err}
}

// IsNotFound reports whether err is, or wraps, a contents lookup miss.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
