// package models defines the data model for the music streaming client
package models

import (
	"net/http"
	"time"
)

// Song represents a playable track. Only Liked and Downloaded change after creation.
type Song struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Duration   int    `json:"duration"` // Duration in seconds
	URL        string `json:"url"`
	CoverURL   string `json:"coverUrl"`
	Liked      bool   `json:"isLiked,omitempty"`
	Downloaded bool   `json:"isDownloaded,omitempty"`
}

// Playlist is a named, ordered collection of songs. Duplicate song ids are allowed.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Songs       []Song    `json:"songs"`
	CoverURL    string    `json:"coverUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	Public      bool      `json:"isPublic"`
}

// TotalDuration sums song durations in seconds.
func (p Playlist) TotalDuration() int {
	total := 0
	for _, s := range p.Songs {
		total += s.Duration
	}
	return total
}

// User is the signed-in account.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Artist is a catalog artist summary.
type Artist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	Followers int    `json:"followers"`
	Followed  bool   `json:"isFollowed,omitempty"`
}

// Album is an artist's release.
type Album struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	CoverURL string `json:"coverUrl"`
}

// ArtistDetail is the artist page payload.
type ArtistDetail struct {
	Artist
	TopSongs []Song  `json:"topSongs"`
	Albums   []Album `json:"albums"`
}

// Theme is the UI color preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// KeyValue is string-keyed, JSON-valued storage with atomic whole-value writes per key.
//
// Implementations include repositories.KVStore (SQLite) and the in-memory test double.
type KeyValue interface {
	Get(key string, dst any) (bool, error) // Get decodes the value at key into dst, reporting whether it existed
	Set(key string, value any) error       // Set encodes value and replaces whatever was stored at key
	Delete(key string) error               // Delete removes key; deleting a missing key is not an error
}

// CacheEntry is a stored HTTP response keyed by request URL within a partition.
type CacheEntry struct {
	Partition string
	URL       string
	Status    int
	Header    http.Header
	Body      []byte
	StoredAt  time.Time
}
