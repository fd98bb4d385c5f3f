package review

import (
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/service"
)

// Status of a review invitation.
type Status string

// Lifecycle states of a Review, from issuance to completion.
const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Review is the invitation of a reviewer to rate a film, carrying the rating
// once completed. The pair of FilmID and ReviewerID is unique per namespace.
type Review struct {
	ID             uint64     `json:"id"`
	FilmID         uint64     `json:"film_id"`
	Rating         *int       `json:"rating,omitempty"`
	ReviewDate     *time.Time `json:"review_date,omitempty"`
	ReviewerID     uint64     `json:"reviewer_id"`
	ReviewText     string     `json:"review_text,omitempty"`
	Status         Status     `json:"status"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EffectiveAt returns the status as observed at the given time. A pending
// review whose expiration date has been reached reports cancelled, the stored
// value is left untouched.
func (r *Review) EffectiveAt(t time.Time) Status {
	if r.Status == StatusPending &&
		r.ExpirationDate != nil &&
		!r.ExpirationDate.After(t) {
		return StatusCancelled
	}

	return r.Status
}

// MatchOpts indicates if the Review matches the given QueryOptions. Status
// filters apply to the effective status when ActiveAt is set.
func (r *Review) MatchOpts(opts *QueryOptions) bool {
	if opts == nil {
		return true
	}

	if len(opts.IDs) > 0 && !inIDs(r.ID, opts.IDs) {
		return false
	}

	if len(opts.FilmIDs) > 0 && !inIDs(r.FilmID, opts.FilmIDs) {
		return false
	}

	if len(opts.ReviewerIDs) > 0 && !inIDs(r.ReviewerID, opts.ReviewerIDs) {
		return false
	}

	if len(opts.Statuses) > 0 {
		status := r.Status

		if !opts.ActiveAt.IsZero() {
			status = r.EffectiveAt(opts.ActiveAt)
		}

		in := false

		for _, s := range opts.Statuses {
			if s == status {
				in = true
				break
			}
		}

		if !in {
			return false
		}
	}

	return true
}

// Validate performs checks on the Review values for completeness and
// correctness.
func (r Review) Validate() error {
	if r.FilmID == 0 {
		return wrapError(ErrInvalidReview, "film id not set")
	}

	if r.ReviewerID == 0 {
		return wrapError(ErrInvalidReview, "reviewer id not set")
	}

	switch r.Status {
	case StatusPending, StatusAccepted, StatusCancelled, StatusCompleted:
		// valid
	default:
		return wrapError(ErrInvalidReview, "unsupported status (%s)", r.Status)
	}

	if r.Status == StatusCompleted && r.Rating == nil {
		return wrapError(ErrInvalidReview, "rating not set")
	}

	if r.Rating != nil {
		if r.Status != StatusCompleted {
			return wrapError(ErrInvalidReview, "rating set on uncompleted review")
		}

		if *r.Rating < 1 || *r.Rating > 10 {
			return wrapError(ErrInvalidReview, "rating out of range")
		}
	}

	if r.ReviewText != "" && r.Status != StatusCompleted {
		return wrapError(ErrInvalidReview, "text set on uncompleted review")
	}

	if len(r.ReviewText) > 2000 {
		return wrapError(ErrInvalidReview, "text too long")
	}

	return nil
}

// List is a collection of Reviews.
type List []*Review

// FilmIDs returns the film id of all reviews in the list.
func (l List) FilmIDs() []uint64 {
	ids := []uint64{}

	for _, r := range l {
		ids = append(ids, r.FilmID)
	}

	return ids
}

func (l List) Len() int {
	return len(l)
}

func (l List) Less(i, j int) bool {
	return l[i].CreatedAt.After(l[j].CreatedAt)
}

func (l List) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// QueryOptions are used to narrow down Review queries. When ActiveAt is set
// status filters are evaluated against the effective status at that time.
type QueryOptions struct {
	ActiveAt    time.Time
	FilmIDs     []uint64
	IDs         []uint64
	Limit       int
	Offset      int
	ReviewerIDs []uint64
	Statuses    []Status
}

// Service for review interactions.
type Service interface {
	service.Lifecycle

	AcceptAll(namespace string, reviewerID uint64, now time.Time) (int, error)
	Count(namespace string, opts QueryOptions) (int, error)
	Create(namespace string, review *Review) (*Review, error)
	Delete(namespace string, filmID, reviewerID uint64) error
	DeleteByFilm(namespace string, filmID uint64) error
	Put(namespace string, review *Review) (*Review, error)
	Query(namespace string, opts QueryOptions) (List, error)
}

// ServiceMiddleware is a chainable behaviour modifier for Service.
type ServiceMiddleware func(Service) Service

func inIDs(id uint64, ids []uint64) bool {
	if len(ids) == 0 {
		return true
	}

	for _, i := range ids {
		if i == id {
			return true
		}
	}

	return false
}
