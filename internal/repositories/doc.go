// Package repositories implements SQLite persistence for Sonora.
//
// Key Implementations:
//   - [KVStore] : the persistent key-value entries of the client session (user, theme, volume, liked ids,
//     playlists). Every write replaces the whole JSON value stored under a key, so readers never observe a
//     partially written value.
//   - [CacheRepository] : named response-cache partitions backing the offline intermediary. Partitions are
//     listed in creation order, which is also the order lookups search them in.
package repositories
