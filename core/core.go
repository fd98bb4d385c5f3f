// Package core bundles the business rules of the review backend and exposes
// them as functions constructed from entity services.
package core

// PageSize is the fixed window size of paginated listings.
const PageSize = 10

var defaultEnabled = true

// Origin carries the identity attached to a request.
type Origin struct {
	UserID uint64
}

// IsAnonymous indicates if the request carries no authenticated user.
func (o Origin) IsAnonymous() bool {
	return o.UserID == 0
}
