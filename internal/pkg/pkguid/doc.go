// Package pkguid provides helpers for generating unique identifiers.
//
// UUID (v7) backs correlation and event IDs; Snowflake backs dataset IDs,
// which are exposed as decimal strings through NumberString.
package pkguid
