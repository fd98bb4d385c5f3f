package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/core"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
)

// FilmCreate stores a new film owned by the current user.
func FilmCreate(fn core.FilmCreateFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)

			p = payloadFilmCreate{}
		)

		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		f, err := fn(ns, origin, &film.Film{
			Favorite:  p.Favorite,
			Private:   p.Private,
			Rating:    p.Rating,
			Title:     p.Title,
			WatchDate: p.WatchDate,
		})
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, &payloadFilm{film: f})
	}
}

// FilmListPublic returns one page of all public films.
func FilmListPublic(fn core.FilmListPublicFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		ns := namespaceFromContext(ctx)

		req, err := extractPageRequest(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		page, err := fn(ns, req)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadFilmPage{
			next: nextPageRef(r, page.NextPage),
			page: page,
		})
	}
}

// FilmListPrivate returns one page of the current user's private films.
func FilmListPrivate(fn core.FilmListPrivateFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		req, err := extractPageRequest(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		page, err := fn(ns, origin, req)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadFilmPage{
			next: nextPageRef(r, page.NextPage),
			page: page,
		})
	}
}

// FilmListInvited returns one page of the films the current user is invited
// to review.
func FilmListInvited(fn core.FilmListInvitedFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		req, err := extractPageRequest(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		statuses, err := extractStatuses(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		page, err := fn(ns, origin, statuses, req)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadFilmPage{
			next: nextPageRef(r, page.NextPage),
			page: page,
		})
	}
}

// FilmRetrievePublic returns a single public film.
func FilmRetrievePublic(fn core.FilmGetPublicFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		ns := namespaceFromContext(ctx)

		id, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		f, err := fn(ns, id)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadFilm{film: f})
	}
}

// FilmRetrievePrivate returns a single private film of the current user.
func FilmRetrievePrivate(fn core.FilmGetPrivateFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		id, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		f, err := fn(ns, origin, id)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadFilm{film: f})
	}
}

// FilmUpdatePublic renames a public film of the current user.
func FilmUpdatePublic(fn core.FilmUpdatePublicFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)

			p = struct {
				Title string `json:"title"`
			}{}
		)

		id, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		f, err := fn(ns, origin, id, p.Title)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadFilm{film: f})
	}
}

// FilmUpdatePrivate updates the metadata of a private film of the current
// user.
func FilmUpdatePrivate(fn core.FilmUpdatePrivateFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)

			p = payloadFilmUpdate{}
		)

		id, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		f, err := fn(ns, origin, id, core.FilmUpdate{
			Favorite:  p.Favorite,
			Rating:    p.Rating,
			Title:     p.Title,
			WatchDate: p.WatchDate,
		})
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, &payloadFilm{film: f})
	}
}

// FilmDeletePublic removes a public film of the current user together with
// its invitations.
func FilmDeletePublic(fn core.FilmDeletePublicFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		id, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if err := fn(ns, origin, id); err != nil {
			respondError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// FilmDeletePrivate removes a private film of the current user.
func FilmDeletePrivate(fn core.FilmDeletePrivateFunc) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		var (
			ns     = namespaceFromContext(ctx)
			origin = originFromContext(ctx)
		)

		id, err := extractFilmID(r)
		if err != nil {
			respondError(w, wrapError(ErrBadRequest, err.Error()))
			return
		}

		if err := fn(ns, origin, id); err != nil {
			respondError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type payloadFilmCreate struct {
	Favorite  bool       `json:"favorite"`
	Private   bool       `json:"private"`
	Rating    *int       `json:"rating"`
	Title     string     `json:"title"`
	WatchDate *time.Time `json:"watch_date"`
}

type payloadFilmUpdate struct {
	Favorite  *bool      `json:"favorite"`
	Rating    *int       `json:"rating"`
	Title     *string    `json:"title"`
	WatchDate *time.Time `json:"watch_date"`
}

type payloadFilm struct {
	film *film.Film
}

// MarshalJSON exposes the watch metadata of private films only.
func (p *payloadFilm) MarshalJSON() ([]byte, error) {
	f := p.film

	if !f.Private {
		return json.Marshal(struct {
			ID      uint64 `json:"id"`
			OwnerID uint64 `json:"owner_id"`
			Private bool   `json:"private"`
			Title   string `json:"title"`
		}{
			ID:      f.ID,
			OwnerID: f.OwnerID,
			Private: f.Private,
			Title:   f.Title,
		})
	}

	return json.Marshal(struct {
		Favorite  bool       `json:"favorite"`
		ID        uint64     `json:"id"`
		OwnerID   uint64     `json:"owner_id"`
		Private   bool       `json:"private"`
		Rating    *int       `json:"rating,omitempty"`
		Title     string     `json:"title"`
		WatchDate *time.Time `json:"watch_date,omitempty"`
		CreatedAt time.Time  `json:"created_at"`
		UpdatedAt time.Time  `json:"updated_at"`
	}{
		Favorite:  f.Favorite,
		ID:        f.ID,
		OwnerID:   f.OwnerID,
		Private:   f.Private,
		Rating:    f.Rating,
		Title:     f.Title,
		WatchDate: f.WatchDate,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	})
}

type payloadFilmPage struct {
	next string
	page *core.FilmPage
}

func (p *payloadFilmPage) MarshalJSON() ([]byte, error) {
	fs := []*payloadFilm{}

	for _, f := range p.page.Films {
		fs = append(fs, &payloadFilm{film: f})
	}

	return json.Marshal(struct {
		CurrentPage int            `json:"current_page"`
		Films       []*payloadFilm `json:"films"`
		Next        string         `json:"next,omitempty"`
		TotalItems  int            `json:"total_items"`
		TotalPages  int            `json:"total_pages"`
	}{
		CurrentPage: p.page.CurrentPage,
		Films:       fs,
		Next:        p.next,
		TotalItems:  p.page.TotalItems,
		TotalPages:  p.page.TotalPages,
	})
}
