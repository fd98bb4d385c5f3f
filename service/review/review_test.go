package review

import (
	"testing"
	"time"
)

func TestReviewEffectiveAt(t *testing.T) {
	var (
		now    = time.Now().UTC()
		past   = now.Add(-time.Hour)
		future = now.Add(time.Hour)
	)

	cases := map[*Review]Status{
		{Status: StatusPending}:                          StatusPending,
		{Status: StatusPending, ExpirationDate: &future}: StatusPending,
		{Status: StatusPending, ExpirationDate: &past}:   StatusCancelled,
		// expiring exactly now is expired, matching bulk-accept eligibility
		{Status: StatusPending, ExpirationDate: &now}: StatusCancelled,
		{Status: StatusAccepted, ExpirationDate: &past}:  StatusAccepted,
		{Status: StatusCompleted, ExpirationDate: &past}: StatusCompleted,
		{Status: StatusCancelled}:                        StatusCancelled,
	}

	for review, want := range cases {
		if have := review.EffectiveAt(now); have != want {
			t.Errorf("have %v, want %v (%v)", have, want, review)
		}
	}
}

func TestReviewMatchOpts(t *testing.T) {
	var (
		now  = time.Now().UTC()
		past = now.Add(-time.Hour)

		r = &Review{
			ID:             123,
			FilmID:         1,
			ReviewerID:     2,
			Status:         StatusPending,
			ExpirationDate: &past,
		}

		cases = map[*QueryOptions]bool{
			nil:                                     true,
			&QueryOptions{FilmIDs: []uint64{1}}:     true,
			&QueryOptions{FilmIDs: []uint64{9}}:     false,
			&QueryOptions{IDs: []uint64{123}}:       true,
			&QueryOptions{IDs: []uint64{321}}:       false,
			&QueryOptions{ReviewerIDs: []uint64{2}}: true,
			&QueryOptions{ReviewerIDs: []uint64{3}}: false,
			&QueryOptions{Statuses: []Status{StatusPending}}:   true,
			&QueryOptions{Statuses: []Status{StatusCompleted}}: false,
			&QueryOptions{
				ActiveAt: now,
				Statuses: []Status{StatusPending},
			}: false,
			&QueryOptions{
				ActiveAt: now,
				Statuses: []Status{StatusCancelled},
			}: true,
		}
	)

	for opts, want := range cases {
		if have := r.MatchOpts(opts); have != want {
			t.Errorf("have %v, want %v (%v)", have, want, opts)
		}
	}
}

func TestReviewValidate(t *testing.T) {
	var (
		low  = 0
		high = 11
		ok   = 7
	)

	cases := map[*Review]bool{
		{FilmID: 1, ReviewerID: 2, Status: StatusPending}:  true,
		{FilmID: 1, ReviewerID: 2, Status: StatusAccepted}: true,
		{FilmID: 1, ReviewerID: 2, Status: StatusCompleted, Rating: &ok}: true,
		{ReviewerID: 2, Status: StatusPending}:              false,
		{FilmID: 1, Status: StatusPending}:                  false,
		{FilmID: 1, ReviewerID: 2}:                          false,
		{FilmID: 1, ReviewerID: 2, Status: Status("draft")}: false,
		{FilmID: 1, ReviewerID: 2, Status: StatusCompleted}: false,
		{FilmID: 1, ReviewerID: 2, Status: StatusAccepted, Rating: &ok}:   false,
		{FilmID: 1, ReviewerID: 2, Status: StatusCompleted, Rating: &low}: false,
		{FilmID: 1, ReviewerID: 2, Status: StatusCompleted, Rating: &high}: false,
		{FilmID: 1, ReviewerID: 2, Status: StatusPending, ReviewText: "solid"}: false,
	}

	for review, want := range cases {
		if have := review.Validate() == nil; have != want {
			t.Errorf("have %v, want %v (%v)", have, want, review)
		}
	}
}
