package review

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

type prepareFunc func(t *testing.T, namespace string) Service

func testServiceAcceptAll(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_accept_all"
		service   = p(t, namespace)
		reviewer  = uint64(rand.Int63())
		now       = time.Now().UTC()
	)

	for _, r := range testList(reviewer, now) {
		_, err := service.Create(namespace, r)
		if err != nil {
			t.Fatal(err)
		}
	}

	accepted, err := service.AcceptAll(namespace, reviewer, now)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := accepted, 3; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	rs, err := service.Query(namespace, QueryOptions{
		ReviewerIDs: []uint64{reviewer},
		Statuses:    []Status{StatusAccepted},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(rs), 5; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	// expired invitations stay pending in the store
	rs, err = service.Query(namespace, QueryOptions{
		ReviewerIDs: []uint64{reviewer},
		Statuses:    []Status{StatusPending},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(rs), 2; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	accepted, err = service.AcceptAll(namespace, reviewer, now)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := accepted, 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceCount(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_count"
		service   = p(t, namespace)
		reviewer  = uint64(rand.Int63())
		now       = time.Now().UTC()
	)

	for _, r := range testList(reviewer, now) {
		_, err := service.Create(namespace, r)
		if err != nil {
			t.Fatal(err)
		}
	}

	cases := map[*QueryOptions]int{
		&QueryOptions{}:                               11,
		&QueryOptions{ReviewerIDs: []uint64{reviewer}}: 8,
		&QueryOptions{Statuses: []Status{StatusPending}}:   8,
		&QueryOptions{Statuses: []Status{StatusCompleted}}: 1,
		&QueryOptions{
			ReviewerIDs: []uint64{reviewer},
			Statuses:    []Status{StatusPending},
		}: 5,
		&QueryOptions{
			ActiveAt:    now,
			ReviewerIDs: []uint64{reviewer},
			Statuses:    []Status{StatusPending, StatusAccepted},
		}: 5,
		&QueryOptions{
			ActiveAt:    now,
			ReviewerIDs: []uint64{reviewer},
			Statuses:    []Status{StatusCancelled},
		}: 2,
	}

	for opts, want := range cases {
		have, err := service.Count(namespace, *opts)
		if err != nil {
			t.Fatal(err)
		}

		if have != want {
			t.Errorf("have %v, want %v (%v)", have, want, opts)
		}
	}
}

func testServiceCreateDuplicate(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_create_duplicate"
		service   = p(t, namespace)
		film      = uint64(rand.Int63())
		reviewer  = uint64(rand.Int63())
	)

	_, err := service.Create(namespace, &Review{
		FilmID:     film,
		ReviewerID: reviewer,
		Status:     StatusPending,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = service.Create(namespace, &Review{
		FilmID:     film,
		ReviewerID: reviewer,
		Status:     StatusPending,
	})
	if !IsAlreadyExists(err) {
		t.Errorf("expected error: %s", ErrAlreadyExists)
	}
}

func testServiceDelete(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_delete"
		service   = p(t, namespace)
		film      = uint64(rand.Int63())
		reviewer  = uint64(rand.Int63())
	)

	created, err := service.Create(namespace, &Review{
		FilmID:     film,
		ReviewerID: reviewer,
		Status:     StatusPending,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = service.Delete(namespace, film, reviewer)
	if err != nil {
		t.Fatal(err)
	}

	rs, err := service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(rs), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServiceDeleteByFilm(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_delete_by_film"
		service   = p(t, namespace)
		film      = uint64(rand.Int63())
	)

	for i := 0; i < 4; i++ {
		_, err := service.Create(namespace, &Review{
			FilmID:     film,
			ReviewerID: uint64(rand.Int63()),
			Status:     StatusPending,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	keep, err := service.Create(namespace, &Review{
		FilmID:     uint64(rand.Int63()),
		ReviewerID: uint64(rand.Int63()),
		Status:     StatusPending,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = service.DeleteByFilm(namespace, film)
	if err != nil {
		t.Fatal(err)
	}

	rs, err := service.Query(namespace, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(rs), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	if have, want := rs[0].ID, keep.ID; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServicePut(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_put"
		service   = p(t, namespace)
		rating    = 8
	)

	created, err := service.Create(namespace, &Review{
		FilmID:     uint64(rand.Int63()),
		ReviewerID: uint64(rand.Int63()),
		Status:     StatusAccepted,
	})
	if err != nil {
		t.Fatal(err)
	}

	if created.ID == 0 {
		t.Errorf("expected store assigned id")
	}

	created.Rating = &rating
	created.Status = StatusCompleted

	updated, err := service.Put(namespace, created)
	if err != nil {
		t.Fatal(err)
	}

	rs, err := service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(rs), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	if have, want := rs[0].Status, updated.Status; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	if have, want := *rs[0].Rating, *updated.Rating; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	_, err = service.Put(namespace, &Review{
		ID:         uint64(rand.Int63()),
		FilmID:     uint64(rand.Int63()),
		ReviewerID: uint64(rand.Int63()),
		Status:     StatusAccepted,
	})
	if !IsNotFound(err) {
		t.Errorf("expected error: %s", ErrNotFound)
	}
}

func testServiceQuery(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_query"
		service   = p(t, namespace)
		reviewer  = uint64(rand.Int63())
		now       = time.Now().UTC()
	)

	for _, r := range testList(reviewer, now) {
		_, err := service.Create(namespace, r)
		if err != nil {
			t.Fatal(err)
		}
	}

	cases := map[*QueryOptions]int{
		&QueryOptions{}:          11,
		&QueryOptions{Limit: 4}:  4,
		&QueryOptions{Limit: 10, Offset: 10}: 1,
		&QueryOptions{ReviewerIDs: []uint64{reviewer}}: 8,
		&QueryOptions{
			ActiveAt:    now,
			ReviewerIDs: []uint64{reviewer},
			Statuses:    []Status{StatusPending, StatusAccepted},
		}: 5,
	}

	for opts, want := range cases {
		rs, err := service.Query(namespace, *opts)
		if err != nil {
			t.Fatal(err)
		}

		if have := len(rs); have != want {
			t.Errorf("have %v, want %v (%v)", have, want, opts)
		}
	}

	created, err := service.Create(namespace, &Review{
		FilmID:     uint64(rand.Int63()),
		ReviewerID: reviewer,
		Status:     StatusPending,
	})
	if err != nil {
		t.Fatal(err)
	}

	rs, err := service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(rs), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	if have, want := rs[0], created; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
}

// testList returns eight reviews addressed to the given reviewer, five
// pending of which two are expired, two accepted and one completed, plus
// three pending reviews addressed to other reviewers.
func testList(reviewer uint64, now time.Time) List {
	var (
		future = now.Add(time.Hour)
		past   = now.Add(-time.Hour)
		rating = 8

		rs = List{
			{
				FilmID:     uint64(rand.Int63()),
				ReviewerID: reviewer,
				Status:     StatusPending,
			},
			{
				FilmID:         uint64(rand.Int63()),
				ReviewerID:     reviewer,
				Status:         StatusPending,
				ExpirationDate: &future,
			},
			{
				FilmID:         uint64(rand.Int63()),
				ReviewerID:     reviewer,
				Status:         StatusPending,
				ExpirationDate: &future,
			},
			{
				FilmID:         uint64(rand.Int63()),
				ReviewerID:     reviewer,
				Status:         StatusPending,
				ExpirationDate: &past,
			},
			{
				FilmID:         uint64(rand.Int63()),
				ReviewerID:     reviewer,
				Status:         StatusPending,
				ExpirationDate: &past,
			},
			{
				FilmID:     uint64(rand.Int63()),
				ReviewerID: reviewer,
				Status:     StatusAccepted,
			},
			{
				FilmID:     uint64(rand.Int63()),
				ReviewerID: reviewer,
				Status:     StatusAccepted,
			},
			{
				FilmID:     uint64(rand.Int63()),
				ReviewerID: reviewer,
				Rating:     &rating,
				Status:     StatusCompleted,
			},
		}
	)

	for i := 0; i < 3; i++ {
		rs = append(rs, &Review{
			FilmID:     uint64(rand.Int63()),
			ReviewerID: uint64(rand.Int63()),
			Status:     StatusPending,
		})
	}

	return rs
}
