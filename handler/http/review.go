package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/core"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
)

// ReviewIssue invites a batch of reviewers to rate a public film of the
// current user.
func ReviewIssue(fn core.ReviewIssueFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)

			p = struct {
				ExpirationDate *time.Time `json:"expiration_date"`
				ReviewerIDs    []uint64   `json:"reviewer_ids"`
			}{}
		)

		filmID, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if len(p.ReviewerIDs) == 0 {
			respondError(w, wrapError(ErrBadRequest, "reviewer ids missing"))
			return
		}

		rs, err := fn(ns, origin, filmID, p.ReviewerIDs, p.ExpirationDate)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, &payloadReviews{reviews: rs})
	}
}

// ReviewAccept moves a pending invitation of the current user to accepted.
func ReviewAccept(fn core.ReviewAcceptFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		filmID, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		rev, err := fn(ns, origin, filmID)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadReview{review: rev})
	}
}

// ReviewAcceptAll moves every open invitation of the current user to
// accepted.
func ReviewAcceptAll(fn core.ReviewAcceptAllFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		accepted, err := fn(ns, origin)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, struct {
			Accepted int `json:"accepted"`
		}{
			Accepted: accepted,
		})
	}
}

// ReviewComplete completes an accepted invitation of the current user with a
// rating and optional text.
func ReviewComplete(fn core.ReviewCompleteFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)

			p = struct {
				Rating     int    `json:"rating"`
				ReviewText string `json:"review_text"`
			}{}
		)

		filmID, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		reviewerID, err := extractReviewerID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		rev, err := fn(ns, origin, filmID, reviewerID, p.Rating, p.ReviewText)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadReview{review: rev})
	}
}

// ReviewDelete rescinds an invitation of a film owned by the current user.
func ReviewDelete(fn core.ReviewDeleteFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		filmID, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		reviewerID, err := extractReviewerID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if err := fn(ns, origin, filmID, reviewerID); err != nil {
			respondError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ReviewListByFilm returns one page of the reviews of a public film.
func ReviewListByFilm(fn core.ReviewListByFilmFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		filmID, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		req, err := extractPageRequest(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		statuses, err := extractStatuses(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		page, err := fn(ns, origin, filmID, statuses, req)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadReviewPage{
			next: nextPageRef(r, page.NextPage),
			page: page,
		})
	}
}

// ReviewRetrieve returns a single review, expired and cancelled invitations
// read as missing.
func ReviewRetrieve(fn core.ReviewGetFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		ns := namespaceFromContext(ctx)

		filmID, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		reviewerID, err := extractReviewerID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		rev, err := fn(ns, filmID, reviewerID)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadReview{review: rev})
	}
}

type payloadReview struct {
	review *review.Review
}

func (p *payloadReview) MarshalJSON() ([]byte, error) {
	r := p.review

	return json.Marshal(struct {
		FilmID         uint64        `json:"film_id"`
		Rating         *int          `json:"rating,omitempty"`
		ReviewDate     *time.Time    `json:"review_date,omitempty"`
		ReviewerID     uint64        `json:"reviewer_id"`
		ReviewText     string        `json:"review_text,omitempty"`
		Status         review.Status `json:"status"`
		ExpirationDate *time.Time    `json:"expiration_date,omitempty"`
		CreatedAt      time.Time     `json:"created_at"`
		UpdatedAt      time.Time     `json:"updated_at"`
	}{
		FilmID:         r.FilmID,
		Rating:         r.Rating,
		ReviewDate:     r.ReviewDate,
		ReviewerID:     r.ReviewerID,
		ReviewText:     r.ReviewText,
		Status:         r.Status,
		ExpirationDate: r.ExpirationDate,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	})
}

type payloadReviews struct {
	reviews review.List
}

func (p *payloadReviews) MarshalJSON() ([]byte, error) {
	rs := []*payloadReview{}

	for _, r := range p.reviews {
		rs = append(rs, &payloadReview{review: r})
	}

	return json.Marshal(struct {
		Reviews []*payloadReview `json:"reviews"`
	}{
		Reviews: rs,
	})
}

type payloadReviewPage struct {
	next string
	page *core.ReviewPage
}

func (p *payloadReviewPage) MarshalJSON() ([]byte, error) {
	rs := []*payloadReview{}

	for _, r := range p.page.Reviews {
		rs = append(rs, &payloadReview{review: r})
	}

	return json.Marshal(struct {
		CurrentPage int              `json:"current_page"`
		Next        string           `json:"next,omitempty"`
		Reviews     []*payloadReview `json:"reviews"`
		TotalItems  int              `json:"total_items"`
		TotalPages  int              `json:"total_pages"`
	}{
		CurrentPage: p.page.CurrentPage,
		Next:        p.next,
		Reviews:     rs,
		TotalItems:  p.page.TotalItems,
		TotalPages:  p.page.TotalPages,
	})
}
