package stores

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
)

// DefaultPlaylistCover is used for newly created playlists.
const DefaultPlaylistCover = "https://images.pexels.com/photos/1763075/pexels-photo-1763075.jpeg?auto=compress&cs=tinysrgb&w=300&h=300&dpr=2"

var nowFunc = time.Now

// PlaylistUpdate carries the fields to change; nil fields are left alone.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	CoverURL    *string
	Public      *bool
}

// PlaylistState is a snapshot of the playlist store.
type PlaylistState struct {
	Playlists []models.Playlist
	CurrentID string
}

type playlistActionKind int

const (
	setPlaylists playlistActionKind = iota
	addPlaylist
	updatePlaylist
	deletePlaylist
	addSong
	removeSong
	setCurrent
)

type playlistAction struct {
	kind     playlistActionKind
	id       string
	playlist models.Playlist
	list     []models.Playlist
	update   PlaylistUpdate
	song     models.Song
	songID   string
}

// reducePlaylists never mutates s; every touched playlist and song slice is copied.
func reducePlaylists(s PlaylistState, a playlistAction) PlaylistState {
	switch a.kind {
	case setPlaylists:
		s.Playlists = slices.Clone(a.list)
	case addPlaylist:
		s.Playlists = append(slices.Clone(s.Playlists), a.playlist)
	case updatePlaylist:
		s.Playlists = mapPlaylist(s.Playlists, a.id, func(p models.Playlist) models.Playlist {
			if a.update.Name != nil {
				p.Name = *a.update.Name
			}
			if a.update.Description != nil {
				p.Description = *a.update.Description
			}
			if a.update.CoverURL != nil {
				p.CoverURL = *a.update.CoverURL
			}
			if a.update.Public != nil {
				p.Public = *a.update.Public
			}
			return p
		})
	case deletePlaylist:
		s.Playlists = slices.DeleteFunc(slices.Clone(s.Playlists), func(p models.Playlist) bool { return p.ID == a.id })
		if s.CurrentID == a.id {
			s.CurrentID = ""
		}
	case addSong:
		s.Playlists = mapPlaylist(s.Playlists, a.id, func(p models.Playlist) models.Playlist {
			p.Songs = append(slices.Clone(p.Songs), a.song)
			return p
		})
	case removeSong:
		s.Playlists = mapPlaylist(s.Playlists, a.id, func(p models.Playlist) models.Playlist {
			p.Songs = slices.DeleteFunc(slices.Clone(p.Songs), func(song models.Song) bool { return song.ID == a.songID })
			return p
		})
	case setCurrent:
		s.CurrentID = a.id
	}
	return s
}

func mapPlaylist(list []models.Playlist, id string, fn func(models.Playlist) models.Playlist) []models.Playlist {
	out := make([]models.Playlist, len(list))
	for i, p := range list {
		if p.ID == id {
			p = fn(p)
		}
		out[i] = p
	}
	return out
}

// PlaylistStore holds the user's playlists and the one currently open.
type PlaylistStore struct {
	mu     sync.Mutex
	state  PlaylistState
	store  models.KeyValue
	logger *log.Logger
}

// NewPlaylistStore restores saved playlists.
func NewPlaylistStore(store models.KeyValue, logger *log.Logger) *PlaylistStore {
	if logger == nil {
		logger = log.Default()
	}
	s := &PlaylistStore{store: store, logger: logger}

	var saved []models.Playlist
	if ok, err := store.Get(KeyPlaylists, &saved); err != nil {
		logger.Warn("failed to load playlists", "err", err)
	} else if ok {
		s.state = reducePlaylists(s.state, playlistAction{kind: setPlaylists, list: saved})
	}
	return s
}

// List returns every playlist in creation order.
func (s *PlaylistStore) List() []models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Playlists)
}

// Get looks up a playlist by id.
func (s *PlaylistStore) Get(id string) (models.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

// Current returns the open playlist, if any.
func (s *PlaylistStore) Current() (models.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentID == "" {
		return models.Playlist{}, false
	}
	return s.find(s.state.CurrentID)
}

// Create adds an empty private playlist.
func (s *PlaylistStore) Create(name, description string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	p := models.Playlist{
		ID:          shared.GenerateID(),
		Name:        name,
		Description: description,
		Songs:       []models.Song{},
		CoverURL:    DefaultPlaylistCover,
		CreatedAt:   nowFunc().UTC(),
	}
	if err := s.apply(playlistAction{kind: addPlaylist, playlist: p}); err != nil {
		return models.Playlist{}, err
	}
	return p, nil
}

// Update changes the given fields of playlist id.
func (s *PlaylistStore) Update(id string, u PlaylistUpdate) error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fmt.Errorf("%w: playlist name cannot be empty", shared.ErrInvalidInput)
	}
	return s.applyTo(id, playlistAction{kind: updatePlaylist, id: id, update: u})
}

// Delete removes playlist id, closing it if it was current.
func (s *PlaylistStore) Delete(id string) error {
	return s.applyTo(id, playlistAction{kind: deletePlaylist, id: id})
}

// AddSong appends song to playlist id. Duplicates are allowed.
func (s *PlaylistStore) AddSong(id string, song models.Song) error {
	return s.applyTo(id, playlistAction{kind: addSong, id: id, song: song})
}

// RemoveSong removes every occurrence of songID from playlist id.
func (s *PlaylistStore) RemoveSong(id, songID string) error {
	return s.applyTo(id, playlistAction{kind: removeSong, id: id, songID: songID})
}

// SetCurrent opens playlist id; an empty id closes the current playlist.
func (s *PlaylistStore) SetCurrent(id string) error {
	if id == "" {
		s.mu.Lock()
		s.state = reducePlaylists(s.state, playlistAction{kind: setCurrent})
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.find(id); !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	s.state = reducePlaylists(s.state, playlistAction{kind: setCurrent, id: id})
	return nil
}

// applyTo applies a when playlist id exists.
func (s *PlaylistStore) applyTo(id string, a playlistAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.find(id); !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return s.commit(a)
}

func (s *PlaylistStore) apply(a playlistAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(a)
}

// commit reduces and writes the whole list through, keeping the previous state when the write fails.
// Callers hold mu so writes land in mutation order.
func (s *PlaylistStore) commit(a playlistAction) error {
	next := reducePlaylists(s.state, a)

	list := next.Playlists
	if list == nil {
		list = []models.Playlist{}
	}
	if err := s.store.Set(KeyPlaylists, list); err != nil {
		s.logger.Error("failed to persist playlists", "err", err)
		return fmt.Errorf("failed to persist playlists: %w", err)
	}
	s.state = next
	return nil
}

func (s *PlaylistStore) find(id string) (models.Playlist, bool) {
	for _, p := range s.state.Playlists {
		if p.ID == id {
			p.Songs = slices.Clone(p.Songs)
			return p, true
		}
	}
	return models.Playlist{}, false
}
