package core

import "testing"

func TestResolveWindow(t *testing.T) {
	cases := []struct {
		req   PageRequest
		total int

		current int
		limit   int
		next    int
		offset  int
		pages   int
	}{
		// full set when no page is requested
		{req: PageRequest{}, total: 23, current: 1, limit: 0, next: 2, offset: 0, pages: 3},
		{req: PageRequest{}, total: 7, current: 1, limit: 0, next: 0, offset: 0, pages: 1},
		{req: PageRequest{No: 1, Requested: true}, total: 23, current: 1, limit: 10, next: 2, offset: 0, pages: 3},
		{req: PageRequest{No: 2, Requested: true}, total: 23, current: 2, limit: 10, next: 3, offset: 10, pages: 3},
		{req: PageRequest{No: 3, Requested: true}, total: 23, current: 3, limit: 10, next: 0, offset: 20, pages: 3},
		{req: PageRequest{No: 1, Requested: true}, total: 10, current: 1, limit: 10, next: 0, offset: 0, pages: 1},
		// empty sets resolve to page one whatever was asked for
		{req: PageRequest{}, total: 0, current: 1, limit: 0, next: 0, offset: 0, pages: 1},
		{req: PageRequest{No: 9, Requested: true}, total: 0, current: 1, limit: 0, next: 0, offset: 0, pages: 1},
	}

	for _, c := range cases {
		w, err := resolveWindow(c.req, c.total)
		if err != nil {
			t.Fatal(err)
		}

		if have, want := w.current, c.current; have != want {
			t.Errorf("current: have %v, want %v (%v)", have, want, c)
		}

		if have, want := w.limit, c.limit; have != want {
			t.Errorf("limit: have %v, want %v (%v)", have, want, c)
		}

		if have, want := w.next, c.next; have != want {
			t.Errorf("next: have %v, want %v (%v)", have, want, c)
		}

		if have, want := w.offset, c.offset; have != want {
			t.Errorf("offset: have %v, want %v (%v)", have, want, c)
		}

		if have, want := w.pages, c.pages; have != want {
			t.Errorf("pages: have %v, want %v (%v)", have, want, c)
		}
	}
}

func TestResolveWindowNoSuchPage(t *testing.T) {
	cases := []struct {
		req   PageRequest
		total int
	}{
		{req: PageRequest{No: 0, Requested: true}, total: 23},
		{req: PageRequest{No: -1, Requested: true}, total: 23},
		{req: PageRequest{No: 4, Requested: true}, total: 23},
		{req: PageRequest{No: 2, Requested: true}, total: 10},
	}

	for _, c := range cases {
		_, err := resolveWindow(c.req, c.total)
		if !IsNoSuchPage(err) {
			t.Errorf("expected error: %s (%v)", ErrNoSuchPage, c)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := map[int]int{
		0:  1,
		1:  1,
		9:  1,
		10: 1,
		11: 2,
		23: 3,
		30: 3,
		31: 4,
	}

	for total, want := range cases {
		if have := totalPages(total); have != want {
			t.Errorf("have %v, want %v (%d)", have, want, total)
		}
	}
}
