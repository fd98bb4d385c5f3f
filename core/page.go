package core

import (
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/film"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
)

// PageRequest selects a window of a paginated listing. When Requested is
// false the listing returns the entire filtered set as page one.
type PageRequest struct {
	No        int
	Requested bool
}

// FilmPage is one window of a film listing.
type FilmPage struct {
	CurrentPage int
	Films       film.List
	NextPage    int
	TotalItems  int
	TotalPages  int
}

// ReviewPage is one window of a review listing.
type ReviewPage struct {
	CurrentPage int
	NextPage    int
	Reviews     review.List
	TotalItems  int
	TotalPages  int
}

type window struct {
	current int
	limit   int
	next    int
	offset  int
	pages   int
	total   int
}

// resolveWindow validates the requested page against the total computed over
// the same predicate and returns the fetch window. An empty result set always
// resolves to a valid empty page one. A listing without a requested page
// resolves to the full set.
func resolveWindow(req PageRequest, total int) (window, error) {
	w := window{
		current: 1,
		pages:   totalPages(total),
		total:   total,
	}

	if total == 0 {
		return w, nil
	}

	if !req.Requested {
		if w.pages > 1 {
			w.next = 2
		}

		return w, nil
	}

	if req.No < 1 || req.No > w.pages {
		return window{}, wrapError(ErrNoSuchPage, "page %d of %d", req.No, w.pages)
	}

	w.current = req.No
	w.limit = PageSize
	w.offset = (req.No - 1) * PageSize

	if req.No < w.pages {
		w.next = req.No + 1
	}

	return w, nil
}

func totalPages(total int) int {
	if total == 0 {
		return 1
	}

	return (total + PageSize - 1) / PageSize
}
