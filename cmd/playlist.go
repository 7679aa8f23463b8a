package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sonora/internal/formatter"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/desertthunder/sonora/internal/stores"
	"github.com/urfave/cli/v3"
)

// resolvePlaylist finds a playlist by id, falling back to a name match.
func resolvePlaylist(store *stores.PlaylistStore, ref string) (models.Playlist, error) {
	if ref == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	if p, ok := store.Get(ref); ok {
		return p, nil
	}

	want := shared.NormalizeText(ref)
	for _, p := range store.List() {
		if shared.NormalizeText(p.Name) == want {
			return p, nil
		}
	}
	return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, ref)
}

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	store, err := r.playlistStore()
	if err != nil {
		return err
	}

	p, err := store.Create(cmd.StringArg("name"), cmd.String("description"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Created playlist %s (%s)\n", p.Name, p.ID)
}

// PlaylistList lists playlists, optionally filtered by a search text.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.playlistStore()
	if err != nil {
		return err
	}

	filter := cmd.String("filter")
	playlists := []models.Playlist{}
	for _, p := range store.List() {
		if shared.MatchesQuery(filter, p.Name, p.Description) {
			playlists = append(playlists, p)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	r.writePlaylists("Your playlists", playlists)
	return nil
}

// PlaylistShow prints one playlist.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	store, err := r.playlistStore()
	if err != nil {
		return err
	}
	p, err := resolvePlaylist(store, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}
	r.writePlainHeader(p.Name)
	if p.Description != "" {
		r.writePlain("%s\n", p.Description)
	}
	r.writePlain("%d songs, %s, %s\n", len(p.Songs), formatter.FormatDuration(p.TotalDuration()), formatter.Visibility(p.Public))
	r.writeSongs("Songs", p.Songs)
	return nil
}

// PlaylistAdd searches the catalog and appends the picked result.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	q, err := queryArg(cmd)
	if err != nil {
		return err
	}
	store, err := r.playlistStore()
	if err != nil {
		return err
	}
	p, err := resolvePlaylist(store, cmd.StringArg("id"))
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
	pick := cmd.Int("pick")
	if pick < 0 || pick >= len(songs) {
		return fmt.Errorf("%w: %d of %d results for %q", shared.ErrSongNotFound, pick, len(songs), q)
	}

	song := songs[pick]
	if err := store.AddSong(p.ID, song); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s - %s to %s\n", song.Artist, song.Title, p.Name)
}

// PlaylistRemove removes every copy of a song.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("song")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	store, err := r.playlistStore()
	if err != nil {
		return err
	}
	p, err := resolvePlaylist(store, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := store.RemoveSong(p.ID, songID); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s from %s\n", songID, p.Name)
}

// PlaylistUpdate changes the given playlist fields.
func (r *Runner) PlaylistUpdate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("public") && cmd.Bool("private") {
		return fmt.Errorf("%w: cannot specify both --public and --private", shared.ErrInvalidFlag)
	}
	store, err := r.playlistStore()
	if err != nil {
		return err
	}
	p, err := resolvePlaylist(store, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	var u stores.PlaylistUpdate
	if cmd.IsSet("name") {
		name := cmd.String("name")
		u.Name = &name
	}
	if cmd.IsSet("description") {
		desc := cmd.String("description")
		u.Description = &desc
	}
	if cmd.IsSet("cover") {
		cover := cmd.String("cover")
		u.CoverURL = &cover
	}
	if cmd.Bool("public") || cmd.Bool("private") {
		public := cmd.Bool("public")
		u.Public = &public
	}

	if err := store.Update(p.ID, u); err != nil {
		return err
	}
	return r.writePlain("✓ Updated %s\n", p.ID)
}

// PlaylistDelete deletes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	store, err := r.playlistStore()
	if err != nil {
		return err
	}
	p, err := resolvePlaylist(store, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := store.Delete(p.ID); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", p.Name)
}

// PlaylistExport writes a playlist to disk.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	store, err := r.playlistStore()
	if err != nil {
		return err
	}
	p, err := resolvePlaylist(store, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	res, err := formatter.Write(ctx, format, p, cmd.String("output"), r.httpClient)
	if err != nil {
		return fmt.Errorf("failed to export playlist: %w", err)
	}
	for _, w := range res.Warnings {
		r.logger.Warn(w)
	}
	for _, f := range res.Files {
		r.writePlain("✓ Wrote %s\n", f)
	}
	return nil
}
