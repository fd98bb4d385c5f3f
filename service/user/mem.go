package user

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/flake"
)

type memService struct {
	users map[string]map[uint64]*User
}

// MemService returns a memory backed implementation of Service.
func MemService() Service {
	return &memService{
		users: map[string]map[uint64]*User{},
	}
}

func (s *memService) Count(ns string, opts QueryOptions) (int, error) {
	if err := s.Setup(ns); err != nil {
		return -1, err
	}

	opts.Limit = 0
	opts.Offset = 0

	return len(filterMap(s.users[ns], opts)), nil
}

func (s *memService) Put(ns string, user *User) (*User, error) {
	if err := s.Setup(ns); err != nil {
		return nil, err
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user.Email = strings.ToLower(user.Email)

	for _, stored := range s.users[ns] {
		if stored.Email == user.Email && stored.ID != user.ID {
			return nil, wrapError(ErrNotUnique, "email (%s)", user.Email)
		}
	}

	if user.ID != 0 {
		stored, ok := s.users[ns][user.ID]
		if !ok {
			return nil, ErrNotFound
		}

		user.CreatedAt = stored.CreatedAt
	} else {
		id, err := flake.NextID(flakeNamespace(ns))
		if err != nil {
			return nil, err
		}

		user.ID = id

		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}

		user.CreatedAt = user.CreatedAt.UTC()
	}

	user.UpdatedAt = now

	u := *user
	s.users[ns][user.ID] = &u

	return user, nil
}

func (s *memService) Query(ns string, opts QueryOptions) (List, error) {
	if err := s.Setup(ns); err != nil {
		return nil, err
	}

	return filterMap(s.users[ns], opts), nil
}

func (s *memService) Setup(ns string) error {
	if _, ok := s.users[ns]; !ok {
		s.users[ns] = map[uint64]*User{}
	}

	return nil
}

func (s *memService) Teardown(ns string) error {
	return fmt.Errorf("not implemented")
}

func filterMap(um map[uint64]*User, opts QueryOptions) List {
	us := List{}

	for _, user := range um {
		if !user.MatchOpts(&opts) {
			continue
		}

		u := *user
		us = append(us, &u)
	}

	sort.Sort(us)

	if opts.Offset > 0 {
		if opts.Offset >= len(us) {
			return List{}
		}

		us = us[opts.Offset:]
	}

	if opts.Limit > 0 && len(us) > opts.Limit {
		us = us[:opts.Limit]
	}

	return us
}
