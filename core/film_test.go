package core

import (
	"testing"
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
)

func TestFilmCreatePublicStripsMetadata(t *testing.T) {
	var (
		films  = film.MemService()
		fn     = FilmCreate(films)
		origin = Origin{UserID: 1}
		rating = 9
		watch  = time.Now().UTC()
	)

	created, err := fn("create", origin, &film.Film{
		Favorite:  true,
		Rating:    &rating,
		Title:     "The Conversation",
		WatchDate: &watch,
	})
	if err != nil {
		t.Fatal(err)
	}

	if created.Favorite || created.Rating != nil || created.WatchDate != nil {
		t.Errorf("expected watch metadata to be stripped: %v", created)
	}

	if have, want := created.OwnerID, origin.UserID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestFilmCreatePrivateKeepsMetadata(t *testing.T) {
	var (
		films  = film.MemService()
		fn     = FilmCreate(films)
		rating = 9
	)

	created, err := fn("create", Origin{UserID: 1}, &film.Film{
		Favorite: true,
		Private:  true,
		Rating:   &rating,
		Title:    "The Conversation",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !created.Favorite || created.Rating == nil {
		t.Errorf("expected watch metadata to be kept: %v", created)
	}
}

func TestFilmListPublic(t *testing.T) {
	var (
		ns    = "list_public"
		films = film.MemService()
		fn    = FilmListPublic(films)
	)

	for i := 0; i < 23; i++ {
		testFilm(t, films, ns, 1, false)
	}

	testFilm(t, films, ns, 1, true)

	page, err := fn(ns, PageRequest{No: 3, Requested: true})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := page.TotalItems, 23; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := page.TotalPages, 3; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := len(page.Films), 3; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := page.NextPage, 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	_, err = fn(ns, PageRequest{No: 4, Requested: true})
	if !IsNoSuchPage(err) {
		t.Errorf("expected error: %s", ErrNoSuchPage)
	}

	// full set when no page is requested
	page, err = fn(ns, PageRequest{})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(page.Films), 23; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := page.NextPage, 2; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestFilmListPublicEmpty(t *testing.T) {
	fn := FilmListPublic(film.MemService())

	page, err := fn("list_public_empty", PageRequest{No: 5, Requested: true})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := page.CurrentPage, 1; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := len(page.Films), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := page.TotalPages, 1; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestFilmListPrivate(t *testing.T) {
	var (
		ns    = "list_private"
		films = film.MemService()
		fn    = FilmListPrivate(films)
	)

	for i := 0; i < 4; i++ {
		testFilm(t, films, ns, 1, true)
	}

	testFilm(t, films, ns, 1, false)
	testFilm(t, films, ns, 2, true)

	page, err := fn(ns, Origin{UserID: 1}, PageRequest{No: 1, Requested: true})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(page.Films), 4; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestFilmListInvited(t *testing.T) {
	var (
		ns      = "list_invited"
		films   = film.MemService()
		reviews = review.MemService()
		fn      = FilmListInvited(films, reviews)
		origin  = Origin{UserID: 9}
		past    = time.Now().Add(-time.Hour)
	)

	var (
		pending  = testFilm(t, films, ns, 1, false)
		accepted = testFilm(t, films, ns, 1, false)
		expired  = testFilm(t, films, ns, 1, false)
		done     = testFilm(t, films, ns, 1, false)
	)

	testInvite(t, reviews, ns, pending.ID, origin.UserID, nil)

	r := testInvite(t, reviews, ns, accepted.ID, origin.UserID, nil)
	r.Status = review.StatusAccepted

	if _, err := reviews.Put(ns, r); err != nil {
		t.Fatal(err)
	}

	testInvite(t, reviews, ns, expired.ID, origin.UserID, &past)

	r = testInvite(t, reviews, ns, done.ID, origin.UserID, nil)
	r.Status = review.StatusAccepted

	if _, err := reviews.Put(ns, r); err != nil {
		t.Fatal(err)
	}

	rating := 8
	r.Rating = &rating
	r.Status = review.StatusCompleted

	if _, err := reviews.Put(ns, r); err != nil {
		t.Fatal(err)
	}

	page, err := fn(ns, origin, nil, PageRequest{No: 1, Requested: true})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(page.Films), 2; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	for _, f := range page.Films {
		if f.ID == expired.ID || f.ID == done.ID {
			t.Errorf("unexpected film: %d", f.ID)
		}
	}

	// narrow to accepted invitations
	page, err = fn(
		ns,
		origin,
		[]review.Status{review.StatusAccepted},
		PageRequest{No: 1, Requested: true},
	)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(page.Films), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	if have, want := page.Films[0].ID, accepted.ID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// a filter outside the visible states admits nothing
	page, err = fn(
		ns,
		origin,
		[]review.Status{review.StatusCancelled},
		PageRequest{No: 1, Requested: true},
	)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(page.Films), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestFilmGetPublic(t *testing.T) {
	var (
		ns    = "get_public"
		films = film.MemService()
		fn    = FilmGetPublic(films)

		public  = testFilm(t, films, ns, 1, false)
		private = testFilm(t, films, ns, 1, true)
	)

	f, err := fn(ns, public.ID)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := f.ID, public.ID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	_, err = fn(ns, private.ID)
	if !IsFilmIsPrivate(err) {
		t.Errorf("expected error: %s", ErrFilmIsPrivate)
	}

	_, err = fn(ns, private.ID+1)
	if !IsNoSuchFilm(err) {
		t.Errorf("expected error: %s", ErrNoSuchFilm)
	}
}

func TestFilmGetPrivate(t *testing.T) {
	var (
		ns    = "get_private"
		films = film.MemService()
		fn    = FilmGetPrivate(films)

		public  = testFilm(t, films, ns, 1, false)
		private = testFilm(t, films, ns, 1, true)
	)

	f, err := fn(ns, Origin{UserID: 1}, private.ID)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := f.ID, private.ID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	_, err = fn(ns, Origin{UserID: 1}, public.ID)
	if !IsFilmCategoryMismatch(err) {
		t.Errorf("expected error: %s", ErrFilmCategoryMismatch)
	}

	_, err = fn(ns, Origin{UserID: 2}, private.ID)
	if !IsNotFilmOwner(err) {
		t.Errorf("expected error: %s", ErrNotFilmOwner)
	}
}

func TestFilmUpdatePublic(t *testing.T) {
	var (
		ns    = "update_public"
		films = film.MemService()
		fn    = FilmUpdatePublic(films)

		public = testFilm(t, films, ns, 1, false)
	)

	updated, err := fn(ns, Origin{UserID: 1}, public.ID, "Blow Out")
	if err != nil {
		t.Fatal(err)
	}

	if have, want := updated.Title, "Blow Out"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	_, err = fn(ns, Origin{UserID: 2}, public.ID, "Blow Up")
	if !IsNotFilmOwner(err) {
		t.Errorf("expected error: %s", ErrNotFilmOwner)
	}
}

func TestFilmUpdatePrivate(t *testing.T) {
	var (
		ns    = "update_private"
		films = film.MemService()
		fn    = FilmUpdatePrivate(films)

		private = testFilm(t, films, ns, 1, true)

		favorite = true
		rating   = 7
		watch    = time.Now().UTC()
	)

	updated, err := fn(ns, Origin{UserID: 1}, private.ID, FilmUpdate{
		Favorite:  &favorite,
		Rating:    &rating,
		WatchDate: &watch,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !updated.Favorite || updated.Rating == nil || updated.WatchDate == nil {
		t.Errorf("expected metadata to be set: %v", updated)
	}

	if have, want := updated.Title, private.Title; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestFilmDeletePublicCascades(t *testing.T) {
	var (
		ns      = "delete_public"
		films   = film.MemService()
		reviews = review.MemService()
		fn      = FilmDeletePublic(films, reviews)

		public = testFilm(t, films, ns, 1, false)
	)

	testInvite(t, reviews, ns, public.ID, 2, nil)
	testInvite(t, reviews, ns, public.ID, 3, nil)

	err := fn(ns, Origin{UserID: 1}, public.ID)
	if err != nil {
		t.Fatal(err)
	}

	fs, err := films.Query(ns, film.QueryOptions{IDs: []uint64{public.ID}})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(fs), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	rs, err := reviews.Query(ns, review.QueryOptions{
		FilmIDs: []uint64{public.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(rs), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestFilmDeletePrivate(t *testing.T) {
	var (
		ns    = "delete_private"
		films = film.MemService()
		fn    = FilmDeletePrivate(films)

		private = testFilm(t, films, ns, 1, true)
		public  = testFilm(t, films, ns, 1, false)
	)

	err := fn(ns, Origin{UserID: 1}, public.ID)
	if !IsFilmCategoryMismatch(err) {
		t.Errorf("expected error: %s", ErrFilmCategoryMismatch)
	}

	if err := fn(ns, Origin{UserID: 1}, private.ID); err != nil {
		t.Fatal(err)
	}

	fs, err := films.Query(ns, film.QueryOptions{IDs: []uint64{private.ID}})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(fs), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}
