package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/core"
	"github.com/daviderandino/Distributed-Systems-ReviewHub-REST-API/service/review"
)

const (
	keyFilmID     = "filmID"
	keyPageNo     = "pageNo"
	keyReviewerID = "reviewerID"
	keyStatus     = "invitationStatus"
)

func extractFilmID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)[keyFilmID], 10, 64)
}

func extractPageRequest(r *http.Request) (core.PageRequest, error) {
	param := r.URL.Query().Get(keyPageNo)

	if param == "" {
		return core.PageRequest{}, nil
	}

	no, err := strconv.Atoi(param)
	if err != nil {
		return core.PageRequest{}, err
	}

	return core.PageRequest{No: no, Requested: true}, nil
}

func extractReviewerID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)[keyReviewerID], 10, 64)
}

func extractStatuses(r *http.Request) ([]review.Status, error) {
	params := r.URL.Query()[keyStatus]

	statuses := []review.Status{}

	for _, param := range params {
		s := review.Status(param)

		switch s {
		case review.StatusPending,
			review.StatusAccepted,
			review.StatusCancelled,
			review.StatusCompleted:
			statuses = append(statuses, s)
		default:
			return nil, fmt.Errorf("unsupported status (%s)", param)
		}
	}

	return statuses, nil
}

// nextPageRef builds the link to the given page repeating the caller's own
// filter parameters.
func nextPageRef(r *http.Request, next int) string {
	if next == 0 {
		return ""
	}

	scheme := "http"

	if r.TLS != nil {
		scheme = "https"
	}

	q := r.URL.Query()
	q.Set(keyPageNo, strconv.Itoa(next))

	return fmt.Sprintf(
		"%s://%s%s?%s",
		scheme,
		r.Host,
		r.URL.Path,
		q.Encode(),
	)
}
