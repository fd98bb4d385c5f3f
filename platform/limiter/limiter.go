package limiter

import "time"

// Limitee is the subject a limit applies to.
type Limitee struct {
	Hash       string
	Limit      int64
	WindowSize time.Duration
}

// Limiter controls how many requests a Limitee may perform inside its
// window.
type Limiter interface {
	// Request checks if the limitee is still within its limits. The returned
	// quota is negative once the limit is exhausted, otherwise the remaining
	// number of requests is decremented by one.
	Request(*Limitee) (int64, time.Time, error)
}
