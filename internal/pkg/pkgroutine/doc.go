// Package pkgroutine contains helpers for running goroutines safely.
//
// Manager bounds concurrency, collects returned errors and turns panics into
// errors so background work never crashes the process silently. Fanout is
// the request-scoped variant used for parallel chart projection.
package pkgroutine
