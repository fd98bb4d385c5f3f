package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/garyburd/redigo/redis"
	"github.com/jmoiron/sqlx"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/core"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/user"
)

const pgHealthcheck = `SELECT 1`

// Handler is the service specific http.HandlerFunc expecting a
// context.Context.
type Handler func(context.Context, http.ResponseWriter, *http.Request)

// Middleware can be used to chain Handlers with different responsibilities.
type Middleware func(Handler) Handler

// Chain takes a variadic number of Middlewares and returns a combined
// Middleware.
func Chain(ms ...Middleware) Middleware {
	return func(handler Handler) Handler {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}

		return handler
	}
}

// Wrap takes a Middleware and Handler and returns an http.HandlerFunc.
func Wrap(
	middleware Middleware,
	handler Handler,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware(handler)(context.Background(), w, r)
	}
}

// Health checks for liveliness of backing services and responds with status.
func Health(pg *sqlx.DB, rClient *redis.Pool) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		res := struct {
			Healthy  bool            `json:"healthy"`
			Services map[string]bool `json:"services"`
		}{
			Healthy: true,
			Services: map[string]bool{
				"postgres": true,
				"redis":    true,
			},
		}

		if _, err := pg.Exec(pgHealthcheck); err != nil {
			res.Healthy = false
			res.Services["postgres"] = false

			respondJSON(w, http.StatusInternalServerError, &res)
			return
		}

		conn := rClient.Get()
		if err := conn.Err(); err != nil {
			res.Healthy = false
			res.Services["redis"] = false

			respondJSON(w, http.StatusInternalServerError, &res)
			return
		}
		defer conn.Close()

		respondJSON(w, http.StatusOK, &res)
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps failures to a status code and a machine-readable reason
// code.
func respondError(w http.ResponseWriter, err error) {
	var (
		code       = "InternalError"
		statusCode = http.StatusInternalServerError
	)

	switch {
	case unwrapError(err) == ErrBadRequest:
		code = "BadRequest"
		statusCode = http.StatusBadRequest
	case unwrapError(err) == ErrLimitExceeded:
		code = "LimitExceeded"
		statusCode = http.StatusTooManyRequests
	case unwrapError(err) == ErrUnauthorized:
		code = "Unauthorized"
		statusCode = http.StatusUnauthorized
	case core.IsAlreadyCompleted(err):
		code = "AlreadyCompleted"
		statusCode = http.StatusConflict
	case core.IsCannotInviteSelf(err):
		code = "CannotInviteSelf"
		statusCode = http.StatusBadRequest
	case core.IsDuplicateInvitation(err):
		code = "DuplicateInvitation"
		statusCode = http.StatusConflict
	case core.IsFilmCategoryMismatch(err):
		code = "NotFilmOwnerOrCategoryMismatch"
		statusCode = http.StatusForbidden
	case core.IsFilmIsPrivate(err):
		code = "FilmIsPrivate"
		statusCode = http.StatusForbidden
	case core.IsInvalidRating(err):
		code = "InvalidRating"
		statusCode = http.StatusBadRequest
	case core.IsInvitationNotAccepted(err):
		code = "InvitationNotAccepted"
		statusCode = http.StatusConflict
	case core.IsNoSuchFilm(err):
		code = "NoSuchFilm"
		statusCode = http.StatusNotFound
	case core.IsNoSuchInvitation(err):
		code = "NoSuchInvitation"
		statusCode = http.StatusNotFound
	case core.IsNoSuchPage(err):
		code = "NoSuchPage"
		statusCode = http.StatusNotFound
	case core.IsNoSuchReview(err):
		code = "NoSuchReview"
		statusCode = http.StatusNotFound
	case core.IsNotFilmOwner(err):
		code = "NotFilmOwner"
		statusCode = http.StatusForbidden
	case core.IsNotTheReviewer(err):
		code = "NotTheReviewer"
		statusCode = http.StatusForbidden
	case core.IsUnknownReviewer(err):
		code = "UnknownReviewer"
		statusCode = http.StatusNotFound
	case film.IsInvalidFilm(err), review.IsInvalidReview(err), user.IsInvalidUser(err):
		code = "InvalidEntity"
		statusCode = http.StatusBadRequest
	}

	respondJSON(w, statusCode, struct {
		Errors []apiError `json:"errors"`
	}{
		Errors: []apiError{
			{Code: code, Message: err.Error()},
		},
	})
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
