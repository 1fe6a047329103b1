// Package store keeps parsed datasets between requests.
//
// InMemoryStore is a bounded LRU for single-instance runs. RedisStore shares
// datasets across instances with per-key TTLs. Both return
// pkgerror.ErrNotFound for unknown IDs and hashes.
package store
