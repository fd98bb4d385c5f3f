package film

import (
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/service"
)

// Film represents a catalogue entry owned by a user. Public films carry only
// the base fields, the watch metadata is meaningful on private films only.
type Film struct {
	Favorite  bool       `json:"favorite,omitempty"`
	ID        uint64     `json:"id"`
	OwnerID   uint64     `json:"owner_id"`
	Private   bool       `json:"private"`
	Rating    *int       `json:"rating,omitempty"`
	Title     string     `json:"title"`
	WatchDate *time.Time `json:"watch_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MatchOpts indicates if the Film matches the given QueryOptions.
func (f *Film) MatchOpts(opts *QueryOptions) bool {
	if opts == nil {
		return true
	}

	if len(opts.IDs) > 0 && !inIDs(f.ID, opts.IDs) {
		return false
	}

	if len(opts.OwnerIDs) > 0 && !inIDs(f.OwnerID, opts.OwnerIDs) {
		return false
	}

	if opts.Private != nil && f.Private != *opts.Private {
		return false
	}

	return true
}

// Validate performs checks on the Film values for completeness and
// correctness.
func (f Film) Validate() error {
	if f.Title == "" {
		return wrapError(ErrInvalidFilm, "title not set")
	}

	if len(f.Title) > 255 {
		return wrapError(ErrInvalidFilm, "title too long")
	}

	if f.OwnerID == 0 {
		return wrapError(ErrInvalidFilm, "owner id not set")
	}

	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 10) {
		return wrapError(ErrInvalidFilm, "rating out of range")
	}

	return nil
}

// List is a collection of Films.
type List []*Film

// IDs returns the id of all films in the list.
func (l List) IDs() []uint64 {
	ids := []uint64{}

	for _, f := range l {
		ids = append(ids, f.ID)
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
	fm := Map{}

	for _, f := range l {
		fm[f.ID] = f
	}

	return fm
}

// Map is a film collection with their id as index.
type Map map[uint64]*Film

// QueryOptions are used to narrow down Film queries.
type QueryOptions struct {
	IDs      []uint64
	Limit    int
	Offset   int
	OwnerIDs []uint64
	Private  *bool
}

// Service for film interactions.
type Service interface {
	service.Lifecycle

	Count(namespace string, opts QueryOptions) (int, error)
	Delete(namespace string, id uint64) error
	Put(namespace string, film *Film) (*Film, error)
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
