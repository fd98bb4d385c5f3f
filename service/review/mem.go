package review

import (
	"fmt"
	"sort"
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/flake"
)

type memService struct {
	reviews map[string]map[uint64]*Review
}

// MemService returns a memory backed implementation of Service.
func MemService() Service {
	return &memService{
		reviews: map[string]map[uint64]*Review{},
	}
}

func (s *memService) AcceptAll(
	ns string,
	reviewerID uint64,
	now time.Time,
) (int, error) {
	if err := s.Setup(ns); err != nil {
		return 0, err
	}

	accepted := 0

	for _, review := range s.reviews[ns] {
		if review.ReviewerID != reviewerID {
			continue
		}

		if review.Status != StatusPending {
			continue
		}

		if review.ExpirationDate != nil && !review.ExpirationDate.After(now) {
			continue
		}

		review.Status = StatusAccepted
		review.UpdatedAt = now.UTC()

		accepted++
	}

	return accepted, nil
}

func (s *memService) Count(ns string, opts QueryOptions) (int, error) {
	if err := s.Setup(ns); err != nil {
		return -1, err
	}

	opts.Limit = 0
	opts.Offset = 0

	return len(filterMap(s.reviews[ns], opts)), nil
}

func (s *memService) Create(ns string, review *Review) (*Review, error) {
	if err := s.Setup(ns); err != nil {
		return nil, err
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	for _, stored := range s.reviews[ns] {
		if stored.FilmID == review.FilmID &&
			stored.ReviewerID == review.ReviewerID {
			return nil, wrapError(
				ErrAlreadyExists,
				"film %d reviewer %d",
				review.FilmID,
				review.ReviewerID,
			)
		}
	}

	id, err := flake.NextID(flakeNamespace(ns))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	review.ID = id

	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}

	review.CreatedAt = review.CreatedAt.UTC()
	review.UpdatedAt = now

	r := *review
	s.reviews[ns][review.ID] = &r

	return review, nil
}

func (s *memService) Delete(ns string, filmID, reviewerID uint64) error {
	if err := s.Setup(ns); err != nil {
		return err
	}

	for id, review := range s.reviews[ns] {
		if review.FilmID == filmID && review.ReviewerID == reviewerID {
			delete(s.reviews[ns], id)
		}
	}

	return nil
}

func (s *memService) DeleteByFilm(ns string, filmID uint64) error {
	if err := s.Setup(ns); err != nil {
		return err
	}

	for id, review := range s.reviews[ns] {
		if review.FilmID == filmID {
			delete(s.reviews[ns], id)
		}
	}

	return nil
}

func (s *memService) Put(ns string, review *Review) (*Review, error) {
	if err := s.Setup(ns); err != nil {
		return nil, err
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	stored, ok := s.reviews[ns][review.ID]
	if !ok {
		return nil, ErrNotFound
	}

	review.CreatedAt = stored.CreatedAt
	review.UpdatedAt = time.Now().UTC()

	r := *review
	s.reviews[ns][review.ID] = &r

	return review, nil
}

func (s *memService) Query(ns string, opts QueryOptions) (List, error) {
	if err := s.Setup(ns); err != nil {
		return nil, err
	}

	return filterMap(s.reviews[ns], opts), nil
}

func (s *memService) Setup(ns string) error {
	if _, ok := s.reviews[ns]; !ok {
		s.reviews[ns] = map[uint64]*Review{}
	}

	return nil
}

func (s *memService) Teardown(ns string) error {
	return fmt.Errorf("not implemented")
}

func filterMap(rm map[uint64]*Review, opts QueryOptions) List {
	rs := List{}

	for _, review := range rm {
		if !review.MatchOpts(&opts) {
			continue
		}

		r := *review
		rs = append(rs, &r)
	}

	sort.Sort(rs)

	if opts.Offset > 0 {
		if opts.Offset >= len(rs) {
			return List{}
		}

		rs = rs[opts.Offset:]
	}

	if opts.Limit > 0 && len(rs) > opts.Limit {
		rs = rs[:opts.Limit]
	}

	return rs
}
