package core

import (
	"errors"
	"fmt"
)

const errFmt = "%s: %s"

// Failures of business rules surfaced to transport layers.
var (
	ErrAlreadyCompleted      = errors.New("review already completed")
	ErrCannotInviteSelf      = errors.New("cannot invite self")
	ErrDuplicateInvitation   = errors.New("invitation already exists")
	ErrFilmCategoryMismatch  = errors.New("film category mismatch")
	ErrFilmIsPrivate         = errors.New("film is private")
	ErrInvalidRating         = errors.New("invalid rating")
	ErrInvitationNotAccepted = errors.New("invitation not accepted")
	ErrNoSuchFilm            = errors.New("film not found")
	ErrNoSuchInvitation      = errors.New("invitation not found")
	ErrNoSuchPage            = errors.New("page does not exist")
	ErrNoSuchReview          = errors.New("review not found")
	ErrNotFilmOwner          = errors.New("not the film owner")
	ErrNotTheReviewer        = errors.New("not the reviewer")
	ErrUnknownReviewer       = errors.New("unknown reviewer")
)

// Error wraps a sentinel with request specific context.
type Error struct {
	err error
	msg string
}

func (e Error) Error() string {
	return e.msg
}

// IsAlreadyCompleted indicates if err is ErrAlreadyCompleted.
func IsAlreadyCompleted(err error) bool {
	return unwrapError(err) == ErrAlreadyCompleted
}

// IsCannotInviteSelf indicates if err is ErrCannotInviteSelf.
func IsCannotInviteSelf(err error) bool {
	return unwrapError(err) == ErrCannotInviteSelf
}

// IsDuplicateInvitation indicates if err is ErrDuplicateInvitation.
func IsDuplicateInvitation(err error) bool {
	return unwrapError(err) == ErrDuplicateInvitation
}

// IsFilmCategoryMismatch indicates if err is ErrFilmCategoryMismatch.
func IsFilmCategoryMismatch(err error) bool {
	return unwrapError(err) == ErrFilmCategoryMismatch
}

// IsFilmIsPrivate indicates if err is ErrFilmIsPrivate.
func IsFilmIsPrivate(err error) bool {
	return unwrapError(err) == ErrFilmIsPrivate
}

// IsInvalidRating indicates if err is ErrInvalidRating.
func IsInvalidRating(err error) bool {
	return unwrapError(err) == ErrInvalidRating
}

// IsInvitationNotAccepted indicates if err is ErrInvitationNotAccepted.
func IsInvitationNotAccepted(err error) bool {
	return unwrapError(err) == ErrInvitationNotAccepted
}

// IsNoSuchFilm indicates if err is ErrNoSuchFilm.
func IsNoSuchFilm(err error) bool {
	return unwrapError(err) == ErrNoSuchFilm
}

// IsNoSuchInvitation indicates if err is ErrNoSuchInvitation.
func IsNoSuchInvitation(err error) bool {
	return unwrapError(err) == ErrNoSuchInvitation
}

// IsNoSuchPage indicates if err is ErrNoSuchPage.
func IsNoSuchPage(err error) bool {
	return unwrapError(err) == ErrNoSuchPage
}

// IsNoSuchReview indicates if err is ErrNoSuchReview.
func IsNoSuchReview(err error) bool {
	return unwrapError(err) == ErrNoSuchReview
}

// IsNotFilmOwner indicates if err is ErrNotFilmOwner.
func IsNotFilmOwner(err error) bool {
	return unwrapError(err) == ErrNotFilmOwner
}

// IsNotTheReviewer indicates if err is ErrNotTheReviewer.
func IsNotTheReviewer(err error) bool {
	return unwrapError(err) == ErrNotTheReviewer
}

// IsUnknownReviewer indicates if err is ErrUnknownReviewer.
func IsUnknownReviewer(err error) bool {
	return unwrapError(err) == ErrUnknownReviewer
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
