// Package models defines the domain entities shared by the Sonora stores, the player engine and the offline cache.
//
// The package contains three categories of types:
//
// 1. Catalog entities returned by the music API
//   - [Song] : playable track with liked/downloaded flags
//   - [Artist], [ArtistDetail], [Album] : artist pages
//
// 2. Session entities owned by the stores
//   - [Playlist] : ordered song collection created by the user
//   - [User] : the signed-in account
//   - [Theme] : light/dark preference
//
// 3. Persistence contracts
//   - [KeyValue] : whole-value JSON storage for session state
//   - [CacheEntry] : a stored HTTP response in a named cache partition
package models
