// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Business code depends on the Config interface; the Viper implementation
// reads a YAML file and lets GODASH_* environment variables override any key
// (dots become underscores, e.g. GODASH_REDIS_ADDRESS).
package pkgconfig
