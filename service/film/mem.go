package film

import (
	"fmt"
	"sort"
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/flake"
)

type memService struct {
	films map[string]map[uint64]*Film
}

// MemService returns a memory backed implementation of Service.
func MemService() Service {
	return &memService{
		films: map[string]map[uint64]*Film{},
	}
}

func (s *memService) Count(ns string, opts QueryOptions) (int, error) {
	if err := s.Setup(ns); err != nil {
		return -1, err
	}

	opts.Limit = 0
	opts.Offset = 0

	return len(filterMap(s.films[ns], opts)), nil
}

func (s *memService) Delete(ns string, id uint64) error {
	if err := s.Setup(ns); err != nil {
		return err
	}

	delete(s.films[ns], id)

	return nil
}

func (s *memService) Put(ns string, film *Film) (*Film, error) {
	if err := s.Setup(ns); err != nil {
		return nil, err
	}

	if err := film.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if film.ID != 0 {
		stored, ok := s.films[ns][film.ID]
		if !ok {
			return nil, ErrNotFound
		}

		film.CreatedAt = stored.CreatedAt
	} else {
		id, err := flake.NextID(flakeNamespace(ns))
		if err != nil {
			return nil, err
		}

		film.ID = id

		if film.CreatedAt.IsZero() {
			film.CreatedAt = now
		}

		film.CreatedAt = film.CreatedAt.UTC()
	}

	film.UpdatedAt = now

	f := *film
	s.films[ns][film.ID] = &f

	return film, nil
}

func (s *memService) Query(ns string, opts QueryOptions) (List, error) {
	if err := s.Setup(ns); err != nil {
		return nil, err
	}

	return filterMap(s.films[ns], opts), nil
}

func (s *memService) Setup(ns string) error {
	if _, ok := s.films[ns]; !ok {
		s.films[ns] = map[uint64]*Film{}
	}

	return nil
}

func (s *memService) Teardown(ns string) error {
	return fmt.Errorf("not implemented")
}

func filterMap(fm map[uint64]*Film, opts QueryOptions) List {
	fs := List{}

	for _, film := range fm {
		if !film.MatchOpts(&opts) {
			continue
		}

		f := *film
		fs = append(fs, &f)
	}

	sort.Sort(fs)

	if opts.Offset > 0 {
		if opts.Offset >= len(fs) {
			return List{}
		}

		fs = fs[opts.Offset:]
	}

	if opts.Limit > 0 && len(fs) > opts.Limit {
		fs = fs[:opts.Limit]
	}

	return fs
}
