package user

import (
	"fmt"
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
		enabled   = true
	)

	for i := 0; i < 9; i++ {
		_, err := service.Put(namespace, testUser())
		if err != nil {
			t.Fatal(err)
		}
	}

	disabled := testUser()
	disabled.Enabled = false

	_, err := service.Put(namespace, disabled)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[*QueryOptions]int{
		&QueryOptions{}:                  10,
		&QueryOptions{Enabled: &enabled}: 9,
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

func testServicePut(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_put"
		service   = p(t, namespace)
	)

	created, err := service.Put(namespace, testUser())
	if err != nil {
		t.Fatal(err)
	}

	if created.ID == 0 {
		t.Errorf("expected store assigned id")
	}

	us, err := service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := len(us), 1; have != want {
		t.Fatalf("have %v, want %v", have, want)
	}

	if have, want := us[0], created; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}

	created.Username = generate.RandomString(8)

	updated, err := service.Put(namespace, created)
	if err != nil {
		t.Fatal(err)
	}

	us, err = service.Query(namespace, QueryOptions{
		IDs: []uint64{created.ID},
	})
	if err != nil {
		t.Fatal(err)
	}

	if have, want := us[0].Username, updated.Username; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func testServicePutDuplicateEmail(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_put_duplicate"
		service   = p(t, namespace)
	)

	created, err := service.Put(namespace, testUser())
	if err != nil {
		t.Fatal(err)
	}

	u := testUser()
	u.Email = created.Email

	_, err = service.Put(namespace, u)
	if !IsNotUnique(err) {
		t.Errorf("expected error: %s", ErrNotUnique)
	}
}

func testServiceQuery(t *testing.T, p prepareFunc) {
	var (
		namespace = "service_query"
		service   = p(t, namespace)
	)

	created, err := service.Put(namespace, testUser())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 7; i++ {
		_, err := service.Put(namespace, testUser())
		if err != nil {
			t.Fatal(err)
		}
	}

	cases := map[*QueryOptions]int{
		&QueryOptions{}:                              8,
		&QueryOptions{Limit: 5}:                      5,
		&QueryOptions{IDs: []uint64{created.ID}}:     1,
		&QueryOptions{Emails: []string{created.Email}}: 1,
	}

	for opts, want := range cases {
		us, err := service.Query(namespace, *opts)
		if err != nil {
			t.Fatal(err)
		}

		if have := len(us); have != want {
			t.Errorf("have %v, want %v (%v)", have, want, opts)
		}
	}
}

func testUser() *User {
	return &User{
		Email: fmt.Sprintf(
			"user%d@example.com",
			rand.Int63(),
		),
		Enabled:  true,
		Username: generate.RandomString(8),
	}
}
