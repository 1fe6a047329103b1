// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// Handlers return *Error values; the router maps their Code to an HTTP status
// and their Msg to the response body. Sentinels such as ErrNotFound stay
// reachable through errors.Is.
package pkgerror
