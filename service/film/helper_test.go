package film

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/platform/generate"
)

type prepareFunc func(t *testing.T, namespace string) Service

func testServiceCount(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_count"
		service   = p(t, namespace)
		owner     = uint64(rand.Int63())
		private   = true
		public    = false
	)

	for _, f := range testList(owner) {
		_, err := service.Put(namespace, f)
		if err != nil {
			t.Fatal(err)
		}
	}

	cases := map[*QueryOptions]int{
		&QueryOptions{}:                          16,
		&QueryOptions{OwnerIDs: []uint64{owner}}: 12,
		&QueryOptions{Private: &private}:         5,
		&QueryOptions{Private: &public, OwnerIDs: []uint64{owner}}: 7,
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

func testServiceDelete(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_delete"
		service   = p(t, namespace)
	)

	created, err := service.Put(namespace, testFilm(uint64(rand.Int63())))
	if err != nil {
		t.Fatal(err)
	}

	err = service.Delete(namespace, created.ID)
	if err != nil {
		t.Fatal(err)
	}

	fs, err := service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(fs), 0; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServicePut(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_put"
		service   = p(t, namespace)
	)

	created, err := service.Put(namespace, testFilm(uint64(rand.Int63())))
	if err != nil {
		t.Fatal(err)
	}

	if created.ID == 0 {
		t.Errorf("expected store assigned id")
	}

	fs, err := service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(fs), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	if have, want := fs[0], created; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}

	created.Title = generate.RandomString(12)

	updated, err := service.Put(namespace, created)
	if err != nil {
		t.Fatal(err)
	}

	fs, err = service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(fs), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	if have, want := fs[0].Title, updated.Title; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServicePutInvalid(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_put_invalid"
		service   = p(t, namespace)
	)

	// missing Title
	_, err := service.Put(namespace, &Film{
		OwnerID: uint64(rand.Int63()),
	})
	if !IsInvalidFilm(err) {
		t.Errorf("expected error: %s", ErrInvalidFilm)
	}

	// missing OwnerID
	_, err = service.Put(namespace, &Film{
		Title: generate.RandomString(8),
	})
	if !IsInvalidFilm(err) {
		t.Errorf("expected error: %s", ErrInvalidFilm)
	}
}

func testServiceQuery(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_query"
		service   = p(t, namespace)
		owner     = uint64(rand.Int63())
		private   = true
	)

	for _, f := range testList(owner) {
		_, err := service.Put(namespace, f)
		if err != nil {
			t.Fatal(err)
		}
	}

	cases := map[*QueryOptions]int{
		&QueryOptions{}:                          16,
		&QueryOptions{Limit: 5}:                  5,
		&QueryOptions{Limit: 10, Offset: 10}:     6,
		&QueryOptions{OwnerIDs: []uint64{owner}}: 12,
		&QueryOptions{Private: &private, OwnerIDs: []uint64{owner}}: 5,
	}

	for opts, want := range cases {
		fs, err := service.Query(namespace, *opts)
		if err != nil {
			t.Fatal(err)
		}

		if have := len(fs); have != want {
			t.Errorf("have %v, want %v (%v)", have, want, opts)
		}
	}
}

func testFilm(owner uint64) *Film {
	return &Film{
		OwnerID: owner,
		Private: false,
		Title:   generate.RandomString(12),
	}
}

func testList(owner uint64) List {
	fs := List{}

	for i := 0; i < 5; i++ {
		fs = append(fs, &Film{
			OwnerID: owner,
			Private: true,
			Title:   generate.RandomString(12),
		})
	}

	for i := 0; i < 7; i++ {
		fs = append(fs, &Film{
			OwnerID: owner,
			Private: false,
			Title:   generate.RandomString(12),
		})
	}

	for i := 0; i < 4; i++ {
		fs = append(fs, &Film{
			OwnerID: uint64(rand.Int63()),
			Private: false,
			Title:   generate.RandomString(12),
		})
	}

	return fs
}
