package user

import (
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/service"
)

// User is a member of the catalogue who owns films and reviews the films of
// others.
type User struct {
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchOpts indicates if the User matches the given QueryOptions.
func (u *User) MatchOpts(opts *QueryOptions) bool {
	if opts == nil {
		return true
	}

	if len(opts.Emails) > 0 {
		in := false

		for _, email := range opts.Emails {
			if u.Email == email {
				in = true
				break
			}
		}

		if !in {
			return false
		}
	}

	if opts.Enabled != nil && u.Enabled != *opts.Enabled {
		return false
	}

	if len(opts.IDs) > 0 && !inIDs(u.ID, opts.IDs) {
		return false
	}

	return true
}

// Validate performs checks on the User values for completeness and
// correctness.
func (u User) Validate() error {
	if u.Email == "" || !govalidator.IsEmail(u.Email) {
		return wrapError(ErrInvalidUser, "invalid email (%s)", u.Email)
	}

	if u.Username == "" {
		return wrapError(ErrInvalidUser, "username not set")
	}

	if len(u.Username) > 40 {
		return wrapError(ErrInvalidUser, "username too long")
	}

	return nil
}

// List is a collection of Users.
type List []*User

// IDs returns the id of all users in the list.
func (l List) IDs() []uint64 {
	ids := []uint64{}

	for _, u := range l {
		ids = append(ids, u.ID)
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

// ToMap transforms the list to a Map.
func (l List) ToMap() Map {
	um := Map{}

	for _, u := range l {
		um[u.ID] = u
	}

	return um
}

// Map is a user collection with their id as index.
type Map map[uint64]*User

// QueryOptions are used to narrow down User queries.
type QueryOptions struct {
	Emails  []string
	Enabled *bool
	IDs     []uint64
	Limit   int
	Offset  int
}

// Service for user interactions.
type Service interface {
	service.Lifecycle

	Count(namespace string, opts QueryOptions) (int, error)
	Put(namespace string, user *User) (*User, error)
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
