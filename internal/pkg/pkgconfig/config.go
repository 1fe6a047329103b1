package pkgconfig

import "io"

// Config is the read-only view of configuration used by business code.
type Config interface {
	io.Closer

	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetBinary(key string) []byte
	GetArray(key string) []string
	GetMap(key string) map[string]string

	// IsSet reports whether key has a value from any source, so callers can
	// tell an explicit zero from a missing key and apply their own default.
	IsSet(key string) bool
}
