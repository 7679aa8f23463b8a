// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The TUI has five views, cycled with tab or selected with 1-5:
//  1. [HomeView] : Recently played songs, featured playlists and genres
//  2. [SearchView] : Song search with live query suggestions
//  3. [QueueView] : The play queue, with the current entry marked
//  4. [PlaylistsView] : The user's playlists and their songs
//  5. [SettingsView] : Theme, account and playback settings
//
// A player bar under every view renders the engine state. The (view) [Model] implements the standard
// Init/Update/View pattern; engine snapshots arrive through [player.Engine.Updates] and are turned into
// messages one at a time, so a slow render never blocks playback.
//
// Colors come from a [Palette] chosen by the persisted theme, and switch immediately when the theme is toggled.
package ui
