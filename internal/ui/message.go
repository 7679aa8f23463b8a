package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/player"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHomeLoaded MsgKind = iota
	MsgSearchResults
	MsgSuggestions
	MsgPlayerState
	MsgNotice
)

type homeData struct {
	recent   []models.Song
	featured []models.Playlist
	genres   []string
	err      error
}

type searchData struct {
	query string
	songs []models.Song
	err   error
}

type suggestionData struct {
	query       string
	suggestions []string
}

type noticeData struct {
	text string
	err  error
}

// homeLoadedMsg is the constructor for [MsgHomeLoaded]
func homeLoadedMsg(recent []models.Song, featured []models.Playlist, genres []string, err error) Msg {
	return Msg{kind: MsgHomeLoaded, data: homeData{recent, featured, genres, err}}
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(query string, songs []models.Song, err error) Msg {
	return Msg{kind: MsgSearchResults, data: searchData{query, songs, err}}
}

// suggestionsMsg is the constructor for [MsgSuggestions]
func suggestionsMsg(query string, suggestions []string) Msg {
	return Msg{kind: MsgSuggestions, data: suggestionData{query, suggestions}}
}

// playerStateMsg is the constructor for [MsgPlayerState]
func playerStateMsg(s player.State) Msg {
	return Msg{kind: MsgPlayerState, data: s}
}

// noticeMsg is the constructor for [MsgNotice]. A non-nil err renders as an error.
func noticeMsg(text string, err error) Msg {
	return Msg{kind: MsgNotice, data: noticeData{text, err}}
}
