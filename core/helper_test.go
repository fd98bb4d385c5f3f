package core

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/generate"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/user"
)

func testFilm(
	t *testing.T,
	films film.Service,
	ns string,
	owner uint64,
	private bool,
) *film.Film {
	f, err := films.Put(ns, &film.Film{
		OwnerID: owner,
		Private: private,
		Title:   generate.RandomString(12),
	})
	if err != nil {
		t.Fatal(err)
	}

	return f
}

func testInvite(
	t *testing.T,
	reviews review.Service,
	ns string,
	filmID, reviewerID uint64,
	expiration *time.Time,
) *review.Review {
	r, err := reviews.Create(ns, &review.Review{
		FilmID:         filmID,
		ReviewerID:     reviewerID,
		Status:         review.StatusPending,
		ExpirationDate: expiration,
	})
	if err != nil {
		t.Fatal(err)
	}

	return r
}

func testUser(t *testing.T, users user.Service, ns string) *user.User {
	u, err := users.Put(ns, &user.User{
		Email: fmt.Sprintf(
			"user%d@example.com",
			rand.Int63(),
		),
		Enabled:  true,
		Username: generate.RandomString(8),
	})
	if err != nil {
		t.Fatal(err)
	}

	return u
}
