package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
)

var _ Catalog = (*CatalogService)(nil)

// CatalogService is the [Catalog] backed by [APIService] with mock fallbacks.
type CatalogService struct {
	api    *APIService
	logger *log.Logger

	mu       sync.Mutex
	followed map[string]bool // mock follow state
}

// NewCatalogService creates a catalog over api.
func NewCatalogService(api *APIService, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogService{api: api, logger: logger, followed: map[string]bool{}}
}

func (c *CatalogService) SearchSongs(ctx context.Context, q string) ([]models.Song, error) {
	songs, err := fetch(ctx, c, "song search", "/songs?q="+url.QueryEscape(q), func() []models.Song { return mockSearchSongs(q) })
	if err != nil {
		return nil, err
	}
	for i := range songs {
		songs[i].Liked = false
		songs[i].Downloaded = false
	}
	return songs, nil
}

func (c *CatalogService) SearchArtists(ctx context.Context, q string) ([]models.Artist, error) {
	return fetch(ctx, c, "artist search", "/artists?q="+url.QueryEscape(q), func() []models.Artist { return mockSearchArtists(q) })
}

func (c *CatalogService) Suggestions(ctx context.Context, q string) ([]string, error) {
	out, err := fetch(ctx, c, "suggestions", "/suggestions?q="+url.QueryEscape(q), func() []string { return mockSuggestions(q) })
	if len(out) > 5 {
		out = out[:5]
	}
	return out, err
}

func (c *CatalogService) Artist(ctx context.Context, id string) (*models.ArtistDetail, error) {
	return fetch(ctx, c, "artist", "/artists/"+url.PathEscape(id), func() *models.ArtistDetail { return mockArtist(id) })
}

func (c *CatalogService) ToggleFollow(ctx context.Context, id string) (bool, error) {
	path := "/artists/" + url.PathEscape(id) + "/follow"

	resp, err := c.api.Post(ctx, path, nil)
	if err == nil && !resp.OK() {
		err = fmt.Errorf("%w: POST %s returned %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	var body struct {
		Followed bool `json:"isFollowed"`
	}
	if err == nil {
		err = resp.Decode(&body)
	}
	if err == nil {
		return body.Followed, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	c.logger.Warn("using mock follow toggle", "artist", id, "err", err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.followed[id] = !c.followed[id]
	return c.followed[id], nil
}

func (c *CatalogService) TopArtists(ctx context.Context) ([]models.Artist, error) {
	return fetch(ctx, c, "top artists", "/artists/top", mockTopArtists)
}

func (c *CatalogService) FeaturedPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return fetch(ctx, c, "featured playlists", "/playlists?featured=true", mockFeaturedPlaylists)
}

func (c *CatalogService) Genres(ctx context.Context) ([]string, error) {
	return fetch(ctx, c, "genres", "/genres", mockGenres)
}

func (c *CatalogService) RecentlyPlayed(ctx context.Context) ([]models.Song, error) {
	return fetch(ctx, c, "recently played", "/me/recent", mockRecentlyPlayed)
}

// fetch GETs path and decodes it into T, substituting mock() on any failure other than cancellation.
func fetch[T any](ctx context.Context, c *CatalogService, what, path string, mock func() T) (T, error) {
	var out T

	resp, err := c.api.Get(ctx, path)
	if err == nil && !resp.OK() {
		err = fmt.Errorf("%w: GET %s returned %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}
	if err == nil {
		err = resp.Decode(&out)
	}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		var zero T
		return zero, ctxErr
	}
	c.logger.Warn("using mock data", "for", what, "err", err)
	return mock(), nil
}
