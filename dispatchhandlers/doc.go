// Package dispatchhandlers provides ready-made observers and middleware
// for the dispatch engine:
//
//   - NewLoggingObserver writes one structured log line per dispatch.
//   - NewPrometheusObserver records dispatch counts, durations, and error
//     classes.
//   - MultiObserver fans a dispatch record out to several observers.
//   - DeadlineMiddleware fails dispatches fast when the request context is
//     already done or its deadline is too close.
//
// Observers attach to Engine.Observer; middleware registers with
// Engine.Use or Route.Use.
package dispatchhandlers
