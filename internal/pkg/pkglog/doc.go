// Package pkglog contains the slog setup shared by the service.
//
// InitLogging installs a JSON handler with stable keys ("ts", "severity",
// "file") and a wrapper that stamps every record with the service name and
// the request correlation ID when one is present in the context.
package pkglog
