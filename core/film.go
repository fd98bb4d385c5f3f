package core

import (
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
)

// FilmUpdate carries the mutable fields of a private film, absent fields are
// left untouched.
type FilmUpdate struct {
	Favorite  *bool
	Rating    *int
	Title     *string
	WatchDate *time.Time
}

// FilmCreateFunc stores a new film owned by the origin. The visibility is
// fixed at creation, watch metadata is stripped from public films.
type FilmCreateFunc func(
	ns string,
	origin Origin,
	input *film.Film,
) (*film.Film, error)

// FilmCreate returns a FilmCreateFunc.
func FilmCreate(films film.Service) FilmCreateFunc {
	return func(ns string, origin Origin, input *film.Film) (*film.Film, error) {
		input.ID = 0
		input.OwnerID = origin.UserID

		if !input.Private {
			input.Favorite = false
			input.Rating = nil
			input.WatchDate = nil
		}

		return films.Put(ns, input)
	}
}

// FilmListPublicFunc returns one window of all public films.
type FilmListPublicFunc func(ns string, req PageRequest) (*FilmPage, error)

// FilmListPublic returns a FilmListPublicFunc.
func FilmListPublic(films film.Service) FilmListPublicFunc {
	return func(ns string, req PageRequest) (*FilmPage, error) {
		private := false

		return listFilms(films, ns, film.QueryOptions{
			Private: &private,
		}, req)
	}
}

// FilmListPrivateFunc returns one window of the origin's private films.
type FilmListPrivateFunc func(
	ns string,
	origin Origin,
	req PageRequest,
) (*FilmPage, error)

// FilmListPrivate returns a FilmListPrivateFunc.
func FilmListPrivate(films film.Service) FilmListPrivateFunc {
	return func(ns string, origin Origin, req PageRequest) (*FilmPage, error) {
		private := true

		return listFilms(films, ns, film.QueryOptions{
			OwnerIDs: []uint64{origin.UserID},
			Private:  &private,
		}, req)
	}
}

// FilmListInvitedFunc returns one window of the films the origin is invited
// to review, joined through its visible invitations and optionally narrowed
// by invitation status.
type FilmListInvitedFunc func(
	ns string,
	origin Origin,
	statuses []review.Status,
	req PageRequest,
) (*FilmPage, error)

// FilmListInvited returns a FilmListInvitedFunc.
func FilmListInvited(
	films film.Service,
	reviews review.Service,
) FilmListInvitedFunc {
	return func(
		ns string,
		origin Origin,
		statuses []review.Status,
		req PageRequest,
	) (*FilmPage, error) {
		opts, visible := invitedVisibility(origin.UserID, statuses, time.Now())
		if !visible {
			return filmPage(film.List{}, mustWindow(req)), nil
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
			return filmPage(film.List{}, w), nil
		}

		opts.Limit = w.limit
		opts.Offset = w.offset

		rs, err := reviews.Query(ns, opts)
		if err != nil {
			return nil, err
		}

		fs, err := films.Query(ns, film.QueryOptions{
			IDs: rs.FilmIDs(),
		})
		if err != nil {
			return nil, err
		}

		return filmPage(fs, w), nil
	}
}

// FilmGetPublicFunc fetches a single public film.
type FilmGetPublicFunc func(ns string, id uint64) (*film.Film, error)

// FilmGetPublic returns a FilmGetPublicFunc.
func FilmGetPublic(films film.Service) FilmGetPublicFunc {
	return func(ns string, id uint64) (*film.Film, error) {
		f, err := getFilm(films, ns, id)
		if err != nil {
			return nil, err
		}

		if f.Private {
			return nil, wrapError(ErrFilmIsPrivate, "film %d", id)
		}

		return f, nil
	}
}

// FilmGetPrivateFunc fetches a single private film of the origin.
type FilmGetPrivateFunc func(
	ns string,
	origin Origin,
	id uint64,
) (*film.Film, error)

// FilmGetPrivate returns a FilmGetPrivateFunc.
func FilmGetPrivate(films film.Service) FilmGetPrivateFunc {
	return func(ns string, origin Origin, id uint64) (*film.Film, error) {
		return getOwnedPrivate(films, ns, origin, id)
	}
}

// FilmUpdatePublicFunc renames a public film of the origin.
type FilmUpdatePublicFunc func(
	ns string,
	origin Origin,
	id uint64,
	title string,
) (*film.Film, error)

// FilmUpdatePublic returns a FilmUpdatePublicFunc.
func FilmUpdatePublic(films film.Service) FilmUpdatePublicFunc {
	return func(
		ns string,
		origin Origin,
		id uint64,
		title string,
	) (*film.Film, error) {
		f, err := getOwnedPublic(films, ns, origin, id)
		if err != nil {
			return nil, err
		}

		f.Title = title

		return films.Put(ns, f)
	}
}

// FilmUpdatePrivateFunc updates the metadata of a private film of the origin.
type FilmUpdatePrivateFunc func(
	ns string,
	origin Origin,
	id uint64,
	update FilmUpdate,
) (*film.Film, error)

// FilmUpdatePrivate returns a FilmUpdatePrivateFunc.
func FilmUpdatePrivate(films film.Service) FilmUpdatePrivateFunc {
	return func(
		ns string,
		origin Origin,
		id uint64,
		update FilmUpdate,
	) (*film.Film, error) {
		f, err := getOwnedPrivate(films, ns, origin, id)
		if err != nil {
			return nil, err
		}

		if update.Favorite != nil {
			f.Favorite = *update.Favorite
		}

		if update.Rating != nil {
			f.Rating = update.Rating
		}

		if update.Title != nil {
			f.Title = *update.Title
		}

		if update.WatchDate != nil {
			f.WatchDate = update.WatchDate
		}

		return films.Put(ns, f)
	}
}

// FilmDeletePublicFunc removes a public film of the origin together with its
// invitations.
type FilmDeletePublicFunc func(ns string, origin Origin, id uint64) error

// FilmDeletePublic returns a FilmDeletePublicFunc.
func FilmDeletePublic(
	films film.Service,
	reviews review.Service,
) FilmDeletePublicFunc {
	return func(ns string, origin Origin, id uint64) error {
		if _, err := getOwnedPublic(films, ns, origin, id); err != nil {
			return err
		}

		if err := reviews.DeleteByFilm(ns, id); err != nil {
			return err
		}

		return films.Delete(ns, id)
	}
}

// FilmDeletePrivateFunc removes a private film of the origin.
type FilmDeletePrivateFunc func(ns string, origin Origin, id uint64) error

// FilmDeletePrivate returns a FilmDeletePrivateFunc.
func FilmDeletePrivate(films film.Service) FilmDeletePrivateFunc {
	return func(ns string, origin Origin, id uint64) error {
		if _, err := getOwnedPrivate(films, ns, origin, id); err != nil {
			return err
		}

		return films.Delete(ns, id)
	}
}

func getFilm(films film.Service, ns string, id uint64) (*film.Film, error) {
	fs, err := films.Query(ns, film.QueryOptions{
		IDs: []uint64{id},
	})
	if err != nil {
		return nil, err
	}

	if len(fs) == 0 {
		return nil, wrapError(ErrNoSuchFilm, "film %d", id)
	}

	return fs[0], nil
}

// getOwnedPublic walks the check ladder for operations on a public film:
// the film exists, is public and belongs to the origin.
func getOwnedPublic(
	films film.Service,
	ns string,
	origin Origin,
	id uint64,
) (*film.Film, error) {
	f, err := getFilm(films, ns, id)
	if err != nil {
		return nil, err
	}

	if f.Private {
		return nil, wrapError(ErrFilmIsPrivate, "film %d", id)
	}

	if f.OwnerID != origin.UserID {
		return nil, wrapError(ErrNotFilmOwner, "film %d", id)
	}

	return f, nil
}

// getOwnedPrivate walks the check ladder for operations on a private film:
// the film exists, is private and belongs to the origin.
func getOwnedPrivate(
	films film.Service,
	ns string,
	origin Origin,
	id uint64,
) (*film.Film, error) {
	f, err := getFilm(films, ns, id)
	if err != nil {
		return nil, err
	}

	if !f.Private {
		return nil, wrapError(ErrFilmCategoryMismatch, "film %d", id)
	}

	if f.OwnerID != origin.UserID {
		return nil, wrapError(ErrNotFilmOwner, "film %d", id)
	}

	return f, nil
}

func listFilms(
	films film.Service,
	ns string,
	opts film.QueryOptions,
	req PageRequest,
) (*FilmPage, error) {
	total, err := films.Count(ns, opts)
	if err != nil {
		return nil, err
	}

	w, err := resolveWindow(req, total)
	if err != nil {
		return nil, err
	}

	if total == 0 {
		return filmPage(film.List{}, w), nil
	}

	opts.Limit = w.limit
	opts.Offset = w.offset

	fs, err := films.Query(ns, opts)
	if err != nil {
		return nil, err
	}

	return filmPage(fs, w), nil
}

func filmPage(fs film.List, w window) *FilmPage {
	return &FilmPage{
		CurrentPage: w.current,
		Films:       fs,
		NextPage:    w.next,
		TotalItems:  w.total,
		TotalPages:  w.pages,
	}
}

// mustWindow resolves the window of a listing known to be empty.
func mustWindow(req PageRequest) window {
	w, _ := resolveWindow(req, 0)
	return w
}
