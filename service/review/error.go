package review

import (
	"errors"
	"fmt"
)

const errFmt = "%s: %s"

// Common errors for Review service implementations and validations.
var (
	ErrAlreadyExists = errors.New("review already exists")
	ErrInvalidReview = errors.New("invalid review")
	ErrNotFound      = errors.New("review not found")
)

type Error struct {
	err error
	msg string
}

func (e Error) Error() string {
	return e.msg
}

// IsAlreadyExists indicates if err is ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return unwrapError(err) == ErrAlreadyExists
}

// IsInvalidReview indicates if err is ErrInvalidReview.
func IsInvalidReview(err error) bool {
	return unwrapError(err) == ErrInvalidReview
}

// IsNotFound indicates if err is ErrNotFound.
func IsNotFound(err error) bool {
	return unwrapError(err) == ErrNotFound
}

func unwrapError(err error) error {
	switch e := err.(type) {
	case *Error:
		return e.err
	}

	return err
}

func wrapError(err error, format string, args ...interface{}) error {
	return &Error{
		err: err,
		msg: fmt.Sprintf(
			errFmt,
			err.Error(),
			fmt.Sprintf(format, args...),
		),
	}
}
