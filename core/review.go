package core

import (
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/user"
)

// ReviewIssueFunc invites a batch of reviewers to rate a public film of the
// origin. Inserts run sequentially and stop at the first duplicate, rows
// created before the failure stay committed.
type ReviewIssueFunc func(
	ns string,
	origin Origin,
	filmID uint64,
	reviewerIDs []uint64,
	expiration *time.Time,
) (review.List, error)

// ReviewIssue returns a ReviewIssueFunc.
func ReviewIssue(
	films film.Service,
	reviews review.Service,
	users user.Service,
) ReviewIssueFunc {
	return func(
		ns string,
		origin Origin,
		filmID uint64,
		reviewerIDs []uint64,
		expiration *time.Time,
	) (review.List, error) {
		if _, err := getOwnedPublic(films, ns, origin, filmID); err != nil {
			return nil, err
		}

		for _, id := range reviewerIDs {
			if id == origin.UserID {
				return nil, wrapError(ErrCannotInviteSelf, "reviewer %d", id)
			}
		}

		us, err := users.Query(ns, user.QueryOptions{
			Enabled: &defaultEnabled,
			IDs:     reviewerIDs,
		})
		if err != nil {
			return nil, err
		}

		known := us.ToMap()

		for _, id := range reviewerIDs {
			if _, ok := known[id]; !ok {
				return nil, wrapError(ErrUnknownReviewer, "reviewer %d", id)
			}
		}

		rs := review.List{}

		for _, id := range reviewerIDs {
			r, err := reviews.Create(ns, &review.Review{
				FilmID:         filmID,
				ReviewerID:     id,
				Status:         review.StatusPending,
				ExpirationDate: expiration,
			})
			if err != nil {
				if review.IsAlreadyExists(err) {
					return nil, wrapError(
						ErrDuplicateInvitation,
						"film %d reviewer %d",
						filmID,
						id,
					)
				}

				return nil, err
			}

			rs = append(rs, r)
		}

		return rs, nil
	}
}

// ReviewAcceptFunc moves a pending unexpired invitation of the origin to
// accepted. Accepting an already accepted invitation is a no-op.
type ReviewAcceptFunc func(
	ns string,
	origin Origin,
	filmID uint64,
) (*review.Review, error)

// ReviewAccept returns a ReviewAcceptFunc.
func ReviewAccept(reviews review.Service) ReviewAcceptFunc {
	return func(ns string, origin Origin, filmID uint64) (*review.Review, error) {
		r, err := getReview(reviews, ns, filmID, origin.UserID)
		if err != nil {
			return nil, err
		}

		switch r.EffectiveAt(time.Now()) {
		case review.StatusAccepted:
			return r, nil
		case review.StatusCancelled:
			return nil, wrapError(
				ErrNoSuchInvitation,
				"film %d reviewer %d",
				filmID,
				origin.UserID,
			)
		case review.StatusCompleted:
			return nil, wrapError(ErrAlreadyCompleted, "film %d", filmID)
		}

		r.Status = review.StatusAccepted

		return reviews.Put(ns, r)
	}
}

// ReviewAcceptAllFunc moves every pending unexpired invitation of the origin
// to accepted in one conditional write and reports how many changed.
type ReviewAcceptAllFunc func(ns string, origin Origin) (int, error)

// ReviewAcceptAll returns a ReviewAcceptAllFunc.
func ReviewAcceptAll(reviews review.Service) ReviewAcceptAllFunc {
	return func(ns string, origin Origin) (int, error) {
		return reviews.AcceptAll(ns, origin.UserID, time.Now())
	}
}

// ReviewCompleteFunc completes an accepted invitation with a rating and
// optional text.
type ReviewCompleteFunc func(
	ns string,
	origin Origin,
	filmID uint64,
	reviewerID uint64,
	rating int,
	text string,
) (*review.Review, error)

// ReviewComplete returns a ReviewCompleteFunc.
func ReviewComplete(reviews review.Service) ReviewCompleteFunc {
	return func(
		ns string,
		origin Origin,
		filmID uint64,
		reviewerID uint64,
		rating int,
		text string,
	) (*review.Review, error) {
		r, err := getReview(reviews, ns, filmID, reviewerID)
		if err != nil {
			return nil, err
		}

		if origin.UserID != reviewerID {
			return nil, wrapError(
				ErrNotTheReviewer,
				"film %d reviewer %d",
				filmID,
				reviewerID,
			)
		}

		if r.EffectiveAt(time.Now()) != review.StatusAccepted {
			return nil, wrapError(
				ErrInvitationNotAccepted,
				"film %d reviewer %d",
				filmID,
				reviewerID,
			)
		}

		if rating < 1 || rating > 10 {
			return nil, wrapError(ErrInvalidRating, "rating %d", rating)
		}

		now := time.Now().UTC()

		r.Rating = &rating
		r.ReviewDate = &now
		r.ReviewText = text
		r.Status = review.StatusCompleted

		return reviews.Put(ns, r)
	}
}

// ReviewDeleteFunc rescinds an invitation of a film owned by the origin.
// Completed reviews are immutable.
type ReviewDeleteFunc func(
	ns string,
	origin Origin,
	filmID uint64,
	reviewerID uint64,
) error

// ReviewDelete returns a ReviewDeleteFunc.
func ReviewDelete(
	films film.Service,
	reviews review.Service,
) ReviewDeleteFunc {
	return func(ns string, origin Origin, filmID, reviewerID uint64) error {
		r, err := getReview(reviews, ns, filmID, reviewerID)
		if err != nil {
			return err
		}

		f, err := getFilm(films, ns, filmID)
		if err != nil {
			return err
		}

		if f.OwnerID != origin.UserID {
			return wrapError(ErrNotFilmOwner, "film %d", filmID)
		}

		if r.Status == review.StatusCompleted {
			return wrapError(ErrAlreadyCompleted, "film %d", filmID)
		}

		return reviews.Delete(ns, filmID, reviewerID)
	}
}

// ReviewListByFilmFunc returns one window of the reviews of a public film.
// The owner sees every invitation with effective statuses and may narrow by
// stored status, everyone else sees completed reviews only.
type ReviewListByFilmFunc func(
	ns string,
	origin Origin,
	filmID uint64,
	statuses []review.Status,
	req PageRequest,
) (*ReviewPage, error)

// ReviewListByFilm returns a ReviewListByFilmFunc.
func ReviewListByFilm(
	films film.Service,
	reviews review.Service,
) ReviewListByFilmFunc {
	return func(
		ns string,
		origin Origin,
		filmID uint64,
		statuses []review.Status,
		req PageRequest,
	) (*ReviewPage, error) {
		f, err := getFilm(films, ns, filmID)
		if err != nil {
			return nil, err
		}

		if f.Private {
			return nil, wrapError(ErrFilmIsPrivate, "film %d", filmID)
		}

		var (
			now  = time.Now()
			opts = publicReviewVisibility(filmID)

			owner = f.OwnerID == origin.UserID
		)

		if owner {
			opts = review.QueryOptions{
				FilmIDs:  []uint64{filmID},
				Statuses: statuses,
			}
		}

		total, err := reviews.Count(ns, opts)
		if err != nil {
			return nil, err
		}

		w, err := resolveWindow(req, total)
		if err != nil {
			return nil, err
		}

		if total == 0 {
			return reviewPage(review.List{}, w), nil
		}

		opts.Limit = w.limit
		opts.Offset = w.offset

		rs, err := reviews.Query(ns, opts)
		if err != nil {
			return nil, err
		}

		if owner {
			rs = reportEffective(rs, now)
		}

		return reviewPage(rs, w), nil
	}
}

// ReviewGetFunc fetches a single review with its effective status, expired
// and cancelled invitations are hidden.
type ReviewGetFunc func(
	ns string,
	filmID uint64,
	reviewerID uint64,
) (*review.Review, error)

// ReviewGet returns a ReviewGetFunc.
func ReviewGet(reviews review.Service) ReviewGetFunc {
	return func(ns string, filmID, reviewerID uint64) (*review.Review, error) {
		r, err := getReview(reviews, ns, filmID, reviewerID)
		if err != nil {
			if IsNoSuchInvitation(err) {
				return nil, wrapError(
					ErrNoSuchReview,
					"film %d reviewer %d",
					filmID,
					reviewerID,
				)
			}

			return nil, err
		}

		status := r.EffectiveAt(time.Now())

		if status == review.StatusCancelled {
			return nil, wrapError(
				ErrNoSuchReview,
				"film %d reviewer %d",
				filmID,
				reviewerID,
			)
		}

		r.Status = status

		return r, nil
	}
}

func getReview(
	reviews review.Service,
	ns string,
	filmID, reviewerID uint64,
) (*review.Review, error) {
	rs, err := reviews.Query(ns, review.QueryOptions{
		FilmIDs:     []uint64{filmID},
		ReviewerIDs: []uint64{reviewerID},
	})
	if err != nil {
		return nil, err
	}

	if len(rs) == 0 {
		return nil, wrapError(
			ErrNoSuchInvitation,
			"film %d reviewer %d",
			filmID,
			reviewerID,
		)
	}

	return rs[0], nil
}

func reviewPage(rs review.List, w window) *ReviewPage {
	return &ReviewPage{
		CurrentPage: w.current,
		NextPage:    w.next,
		Reviews:     rs,
		TotalItems:  w.total,
		TotalPages:  w.pages,
	}
}
