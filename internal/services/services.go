package services

import (
	"context"

	"github.com/desertthunder/sonora/internal/models"
)

// Catalog is the read side of the music API plus artist follows.
type Catalog interface {
	// SearchSongs returns songs matching q. Liked and downloaded flags are always cleared.
	SearchSongs(ctx context.Context, q string) ([]models.Song, error)

	SearchArtists(ctx context.Context, q string) ([]models.Artist, error)

	// Suggestions returns up to five query completions.
	Suggestions(ctx context.Context, q string) ([]string, error)

	Artist(ctx context.Context, id string) (*models.ArtistDetail, error)

	// ToggleFollow flips the follow state of artist id and returns the new state.
	ToggleFollow(ctx context.Context, id string) (bool, error)

	TopArtists(ctx context.Context) ([]models.Artist, error)
	FeaturedPlaylists(ctx context.Context) ([]models.Playlist, error)
	Genres(ctx context.Context) ([]string, error)
	RecentlyPlayed(ctx context.Context) ([]models.Song, error)
}
