package film

import (
	"errors"
	"fmt"
)

const errFmt = "%s: %s"

// Common errors for Film service implementations and validations.
var (
	ErrInvalidFilm = errors.New("invalid film")
	ErrNotFound    = errors.New("film not found")
)

type Error struct {
	err error
	msg string
}

func (e Error) Error() string {
	return e.msg
}

// IsInvalidFilm indicates if err is ErrInvalidFilm.
func IsInvalidFilm(err error) bool {
	return unwrapError(err) == ErrInvalidFilm
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
