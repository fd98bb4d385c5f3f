package core

import (
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
)

// invitationStatuses are the effective states under which an invitation is
// discoverable by its reviewer.
var invitationStatuses = []review.Status{
	review.StatusPending,
	review.StatusAccepted,
}

// invitedVisibility returns the predicate matching the invitations a
// reviewer may see, intersected with an optional status filter. The second
// return value is false when the intersection admits nothing.
func invitedVisibility(
	reviewerID uint64,
	statuses []review.Status,
	now time.Time,
) (review.QueryOptions, bool) {
	admitted := intersectStatuses(invitationStatuses, statuses)
	if len(admitted) == 0 {
		return review.QueryOptions{}, false
	}

	return review.QueryOptions{
		ActiveAt:    now,
		ReviewerIDs: []uint64{reviewerID},
		Statuses:    admitted,
	}, true
}

// publicReviewVisibility returns the predicate matching the reviews of a film
// anyone may see.
func publicReviewVisibility(filmID uint64) review.QueryOptions {
	return review.QueryOptions{
		FilmIDs:  []uint64{filmID},
		Statuses: []review.Status{review.StatusCompleted},
	}
}

// reportEffective rewrites the status of every review to the one observable
// at the given time, leaving the store untouched.
func reportEffective(rs review.List, now time.Time) review.List {
	for _, r := range rs {
		r.Status = r.EffectiveAt(now)
	}

	return rs
}

func intersectStatuses(base, filter []review.Status) []review.Status {
	if len(filter) == 0 {
		return base
	}

	admitted := []review.Status{}

	for _, s := range filter {
		for _, b := range base {
			if s == b {
				admitted = append(admitted, s)
				break
			}
		}
	}

	return admitted
}
