package dispatch

import "time"

// Stats describes one completed dispatch call.
type Stats struct {
	// Method is the request method, uppercased.
	Method string

	// Path is the request path as given to Dispatch.
	Path string

	// Route is the matched route, nil for misses.
	Route *Route

	// Kind is the outcome classification.
	Kind Kind

	// Duration is the total dispatch time, middleware and handler
	// included.
	Duration time.Duration

	// Err is the error returned by the dispatch, if any.
	Err error
}

// Observer receives a Stats record after every dispatch. Implementations
// must be safe for concurrent use. Observers run on the dispatching
// goroutine, so a slow observer delays the response.
type Observer interface {
	ObserveDispatch(Stats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Stats)

// ObserveDispatch implements Observer.
func (f ObserverFunc) ObserveDispatch(s Stats) {
	f(s)
}
