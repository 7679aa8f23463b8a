package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/sonora/internal/formatter"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/urfave/cli/v3"
)

func queryArg(cmd *cli.Command) (string, error) {
	q := strings.TrimSpace(cmd.StringArg("query"))
	if q == "" {
		return "", fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	return q, nil
}

// SearchSongs searches the catalog for songs.
func (r *Runner) SearchSongs(ctx context.Context, cmd *cli.Command) error {
	q, err := queryArg(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	songs, err := catalog.SearchSongs(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to search songs: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}
	r.writeSongs(fmt.Sprintf("Songs matching %q", q), songs)
	return nil
}

// SearchArtists searches the catalog for artists.
func (r *Runner) SearchArtists(ctx context.Context, cmd *cli.Command) error {
	q, err := queryArg(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	artists, err := catalog.SearchArtists(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to search artists: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}
	r.writeArtists(fmt.Sprintf("Artists matching %q", q), artists)
	return nil
}

// SearchSuggest prints query completions.
func (r *Runner) SearchSuggest(ctx context.Context, cmd *cli.Command) error {
	q, err := queryArg(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	suggestions, err := catalog.Suggestions(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(suggestions, cmd.Bool("pretty"))
	}
	for _, s := range suggestions {
		r.writePlain("%s\n", s)
	}
	return nil
}

// BrowseFeatured lists featured playlists.
func (r *Runner) BrowseFeatured(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}
	playlists, err := catalog.FeaturedPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch featured playlists: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	r.writePlaylists("Featured playlists", playlists)
	return nil
}

// BrowseGenres lists genres.
func (r *Runner) BrowseGenres(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}
	genres, err := catalog.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", strings.Join(genres, ", "))
}

// BrowseRecent lists recently played songs.
func (r *Runner) BrowseRecent(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}
	songs, err := catalog.RecentlyPlayed(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch recently played: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}
	r.writeSongs("Recently played", songs)
	return nil
}

// BrowseTopArtists lists top artists.
func (r *Runner) BrowseTopArtists(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}
	artists, err := catalog.TopArtists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch top artists: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}
	r.writeArtists("Top artists", artists)
	return nil
}

// BrowseArtist shows one artist page.
func (r *Runner) BrowseArtist(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	artist, err := catalog.Artist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch artist: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(artist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	r.writePlain("Followers: %d\n", artist.Followers)
	r.writeSongs("Top songs", artist.TopSongs)
	if len(artist.Albums) > 0 {
		r.writePlainln("Albums:")
		for _, a := range artist.Albums {
			r.writePlain("  %s (%d)\n", a.Name, a.Year)
		}
	}
	return nil
}

// BrowseFollow toggles following an artist.
func (r *Runner) BrowseFollow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	followed, err := catalog.ToggleFollow(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to toggle follow: %w", err)
	}
	if followed {
		return r.writePlain("✓ Following %s\n", id)
	}
	return r.writePlain("✓ Unfollowed %s\n", id)
}

func (r *Runner) writeSongs(title string, songs []models.Song) {
	r.writePlainln("%s:", title)
	if len(songs) == 0 {
		r.writePlain("  (none)\n")
		return
	}
	for i, s := range songs {
		liked := ""
		if s.Liked {
			liked = " ♥"
		}
		r.writePlain("%3d. %s - %s [%s] (%s)%s\n", i+1, s.Artist, s.Title, formatter.FormatDuration(s.Duration), s.ID, liked)
	}
}

func (r *Runner) writeArtists(title string, artists []models.Artist) {
	r.writePlainln("%s:", title)
	for _, a := range artists {
		r.writePlain("  %-24s %10d followers  (%s)\n", a.Name, a.Followers, a.ID)
	}
}

func (r *Runner) writePlaylists(title string, playlists []models.Playlist) {
	r.writePlainln("%s:", title)
	if len(playlists) == 0 {
		r.writePlain("  (none)\n")
		return
	}
	for _, p := range playlists {
		r.writePlain("  %-24s %3d songs  %s  (%s)\n", p.Name, len(p.Songs), formatter.Visibility(p.Public), p.ID)
	}
}
