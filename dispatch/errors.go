package dispatch

import "errors"

// ErrInvalidTemplate is returned when a route template cannot be compiled:
// unbalanced braces, an empty or non-identifier placeholder name, a
// duplicated placeholder, or an invalid constraint pattern.
var ErrInvalidTemplate = errors.New("invalid route template")

// ErrInvalidMethod is returned when registering or dispatching with an
// empty request method.
var ErrInvalidMethod = errors.New("invalid request method")

// ErrRouteNotFound is returned by link generation when no route carries the
// requested name.
var ErrRouteNotFound = errors.New("no route was found with the given name")

// ErrInvalidHandler is returned when a matched route has a nil handler or a
// nil middleware in its chain. The fault is detected at dispatch time, not
// at registration time.
var ErrInvalidHandler = errors.New("handler is not invocable")

// ErrMiddleware wraps errors returned by middleware during dispatch. The
// original middleware error remains reachable through errors.Is and
// errors.As.
var ErrMiddleware = errors.New("middleware failed")
