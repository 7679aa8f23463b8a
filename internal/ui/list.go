package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sonora/internal/formatter"
	"github.com/desertthunder/sonora/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
	current  bool
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string {
	if i.current {
		return "● " + i.playlist.Name
	}
	return i.playlist.Name
}
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d songs • %s", len(i.playlist.Songs), formatter.FormatDuration(i.playlist.TotalDuration()))
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song    models.Song
	playing bool
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	title := i.song.Title
	if i.song.Liked {
		title += " ♥"
	}
	if i.playing {
		title = "▶ " + title
	}
	return title
}
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	return fmt.Sprintf("%s • %s", desc, formatter.FormatDuration(i.song.Duration))
}

func songItems(songs []models.Song, current int) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s, playing: i == current}
	}
	return items
}

func playlistItems(playlists []models.Playlist, currentID string) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p, current: p.ID == currentID}
	}
	return items
}

// listSongs returns the songs held by l, in order.
func listSongs(l list.Model) []models.Song {
	items := l.Items()
	songs := make([]models.Song, 0, len(items))
	for _, it := range items {
		if s, ok := it.(songItem); ok {
			songs = append(songs, s.song)
		}
	}
	return songs
}

func newList(p *Palette, title string) list.Model {
	l := list.New(nil, p.delegate(), 0, 0)
	l.Title = title
	l.Styles.Title = p.title.MarginBottom(0)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}
