package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/formatter"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/player"
	"github.com/desertthunder/sonora/internal/services"
	"github.com/desertthunder/sonora/internal/stores"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	SearchView
	QueueView
	PlaylistsView
	SettingsView
)

var viewNames = []string{"Home", "Search", "Queue", "Playlists", "Settings"}

func (v ViewState) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return fmt.Sprintf("view(%d)", int(v))
}

const (
	volumeStep  = 0.1
	seekStep    = 5.0
	chromeLines = 7 // tabs, title margin, notice, player bar, help
)

// Deps are the stores and services the TUI drives.
type Deps struct {
	Engine    *player.Engine
	Catalog   services.Catalog
	Playlists *stores.PlaylistStore
	Theme     *stores.ThemeStore
	Auth      *stores.AuthStore
	Logger    *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx  context.Context
	deps Deps

	view    ViewState
	width   int
	height  int
	palette *Palette

	home     list.Model
	featured []models.Playlist
	genres   []string

	input       textinput.Model
	suggestions []string
	results     list.Model

	queue list.Model

	playlists list.Model
	detail    list.Model
	// detailID is the playlist shown in detail, "" when the playlist list is shown.
	detailID string
	naming   textinput.Model

	state  player.State
	bar    progress.Model
	notice string
	err    error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	p := PaletteFor(deps.Theme.Theme())

	input := textinput.New()
	input.Placeholder = "Search songs, artists, albums"
	input.CharLimit = 120

	naming := textinput.New()
	naming.Placeholder = "Playlist name"
	naming.CharLimit = 80

	m := &Model{
		ctx:       ctx,
		deps:      deps,
		view:      HomeView,
		palette:   p,
		home:      newList(p, "Recently Played"),
		input:     input,
		results:   newList(p, "Results"),
		queue:     newList(p, "Queue"),
		playlists: newList(p, "Your Playlists"),
		detail:    newList(p, ""),
		naming:    naming,
		state:     deps.Engine.State(),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.bar = m.newBar()
	m.refreshQueue()
	m.refreshPlaylists()
	return m
}

// Init loads the home view and starts listening for player updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadHome(), m.waitForPlayer())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgHomeLoaded:
		d := msg.data.(homeData)
		if d.err != nil {
			m.err = d.err
			return m, nil
		}
		m.featured, m.genres = d.featured, d.genres
		return m, m.home.SetItems(songItems(d.recent, -1))

	case MsgSearchResults:
		d := msg.data.(searchData)
		if d.query != strings.TrimSpace(m.input.Value()) {
			return m, nil
		}
		if d.err != nil {
			m.err = d.err
			return m, nil
		}
		m.results.Title = fmt.Sprintf("Results for %q", d.query)
		m.notice = fmt.Sprintf("%d songs", len(d.songs))
		return m, m.results.SetItems(songItems(d.songs, -1))

	case MsgSuggestions:
		d := msg.data.(suggestionData)
		if d.query == strings.TrimSpace(m.input.Value()) {
			m.suggestions = d.suggestions
		}
		return m, nil

	case MsgPlayerState:
		m.state = msg.data.(player.State)
		m.refreshQueue()
		return m, m.waitForPlayer()

	case MsgNotice:
		d := msg.data.(noticeData)
		m.notice, m.err = d.text, d.err
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.input.Focused() {
		return m.handleSearchInput(msg)
	}
	if m.naming.Focused() {
		return m.handleNaming(msg)
	}

	m.err = nil
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		m.setView((m.view + 1) % ViewState(len(viewNames)))
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.setView((m.view + ViewState(len(viewNames)) - 1) % ViewState(len(viewNames)))
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.setView(SearchView)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.theme):
		return m, m.toggleTheme()
	}

	if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '5' {
		m.setView(ViewState(msg.Runes[0] - '1'))
		return m, nil
	}

	if cmd, ok := m.handlePlayerKeys(msg); ok {
		return m, cmd
	}

	switch m.view {
	case HomeView, SearchView:
		return m.handleSongListKeys(msg, m.activeList())
	case QueueView:
		return m.handleQueueKeys(msg)
	case PlaylistsView:
		return m.handlePlaylistKeys(msg)
	case SettingsView:
		return m.handleSettingsKeys(msg)
	}
	return m, nil
}

// handlePlayerKeys applies the transport keys available in every view.
func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	e := m.deps.Engine
	switch {
	case key.Matches(msg, m.keys.toggle):
		return m.engineCmd(func() { e.TogglePlay(m.ctx) }), true
	case key.Matches(msg, m.keys.next):
		return m.engineCmd(func() { e.Next(m.ctx) }), true
	case key.Matches(msg, m.keys.prev):
		return m.engineCmd(func() { e.Prev(m.ctx) }), true
	case key.Matches(msg, m.keys.shuffle):
		m.notice = fmt.Sprintf("shuffle %s", onOff(e.ToggleShuffle()))
		return nil, true
	case key.Matches(msg, m.keys.repeat):
		m.notice = fmt.Sprintf("repeat %s", e.ToggleRepeat())
		return nil, true
	case key.Matches(msg, m.keys.like):
		cur := e.State().Current
		if cur == nil {
			return nil, true
		}
		id := cur.ID
		return func() tea.Msg {
			if err := e.ToggleLike(id); err != nil {
				return noticeMsg("", err)
			}
			return nil
		}, true
	case key.Matches(msg, m.keys.volUp), key.Matches(msg, m.keys.volDown):
		delta := volumeStep
		if key.Matches(msg, m.keys.volDown) {
			delta = -volumeStep
		}
		v := e.State().Volume + delta
		return func() tea.Msg {
			if err := e.SetVolume(v); err != nil {
				return noticeMsg("", err)
			}
			return nil
		}, true
	case key.Matches(msg, m.keys.seekFwd), key.Matches(msg, m.keys.seekBck):
		s := e.State()
		if s.Current == nil {
			return nil, true
		}
		delta := seekStep
		if key.Matches(msg, m.keys.seekBck) {
			delta = -seekStep
		}
		t := s.CurrentTime + delta
		if s.Duration > 0 && t > s.Duration {
			t = s.Duration
		}
		e.Seek(t)
		return nil, true
	}
	return nil, false
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg, l *list.Model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		songs := listSongs(*l)
		if len(songs) == 0 {
			return m, nil
		}
		return m, m.playFrom(songs, l.Index())
	case key.Matches(msg, m.keys.enqueue):
		if s, ok := selectedSong(*l); ok {
			m.deps.Engine.AddToQueue(s)
			m.notice = fmt.Sprintf("queued %s", s.Title)
		}
		return m, nil
	case key.Matches(msg, m.keys.addToList):
		if s, ok := selectedSong(*l); ok {
			m.addToCurrentPlaylist(s)
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		if m.view == SearchView {
			m.setView(HomeView)
		}
		return m, nil
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.suggestions = nil
		return m, nil
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.suggestions = nil
		if q == "" {
			return m, nil
		}
		return m, m.runSearch(q)
	case tea.KeyTab:
		if len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[0])
			m.input.CursorEnd()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		return m, tea.Batch(cmd, m.fetchSuggestions(strings.TrimSpace(m.input.Value())))
	}
	return m, cmd
}

func (m *Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if len(m.state.Queue) == 0 {
			return m, nil
		}
		return m, m.playFrom(m.state.Queue, m.queue.Index())
	case key.Matches(msg, m.keys.remove):
		if len(m.state.Queue) == 0 {
			return m, nil
		}
		if err := m.deps.Engine.RemoveFromQueue(m.queue.Index()); err != nil {
			m.err = err
		}
		m.state = m.deps.Engine.State()
		m.refreshQueue()
		return m, nil
	}

	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detailID != "" {
		return m.handleDetailKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.enter):
		if it, ok := m.playlists.SelectedItem().(playlistItem); ok {
			m.openPlaylist(it.playlist.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		m.naming.SetValue("")
		return m, m.naming.Focus()
	case key.Matches(msg, m.keys.remove):
		if it, ok := m.playlists.SelectedItem().(playlistItem); ok {
			if err := m.deps.Playlists.Delete(it.playlist.ID); err != nil {
				m.err = err
			} else {
				m.notice = fmt.Sprintf("deleted %s", it.playlist.Name)
			}
			m.refreshPlaylists()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.detailID = ""
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if s, ok := selectedSong(m.detail); ok {
			if err := m.deps.Playlists.RemoveSong(m.detailID, s.ID); err != nil {
				m.err = err
			}
			m.openPlaylist(m.detailID)
			m.refreshPlaylists()
		}
		return m, nil
	}
	return m.handleSongListKeys(msg, &m.detail)
}

func (m *Model) handleNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.naming.Blur()
		return m, nil
	case tea.KeyEnter:
		m.naming.Blur()
		p, err := m.deps.Playlists.Create(strings.TrimSpace(m.naming.Value()), "")
		if err != nil {
			m.err = err
			return m, nil
		}
		m.notice = fmt.Sprintf("created %s", p.Name)
		m.refreshPlaylists()
		return m, nil
	}

	var cmd tea.Cmd
	m.naming, cmd = m.naming.Update(msg)
	return m, cmd
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.logout) {
		if err := m.deps.Auth.Logout(); err != nil {
			m.err = err
		} else {
			m.notice = "logged out"
		}
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.input.Focused():
		m.input, cmd = m.input.Update(msg)
	case m.naming.Focused():
		m.naming, cmd = m.naming.Update(msg)
	}
	return m, cmd
}

func (m *Model) setView(v ViewState) {
	m.view = v
	m.notice = ""
	if v == PlaylistsView {
		m.refreshPlaylists()
	}
}

func (m *Model) activeList() *list.Model {
	if m.view == SearchView {
		return &m.results
	}
	return &m.home
}

func (m *Model) openPlaylist(id string) {
	p, ok := m.deps.Playlists.Get(id)
	if !ok {
		m.detailID = ""
		return
	}
	if err := m.deps.Playlists.SetCurrent(id); err != nil {
		m.err = err
	}
	m.detailID = id
	m.detail.Title = p.Name
	m.detail.SetItems(songItems(p.Songs, -1))
}

func (m *Model) addToCurrentPlaylist(s models.Song) {
	p, ok := m.deps.Playlists.Current()
	if !ok {
		m.notice = "open a playlist first"
		return
	}
	if err := m.deps.Playlists.AddSong(p.ID, s); err != nil {
		m.err = err
		return
	}
	m.notice = fmt.Sprintf("added %s to %s", s.Title, p.Name)
}

func (m *Model) refreshQueue() {
	m.queue.SetItems(songItems(m.state.Queue, m.state.CurrentIndex))
}

func (m *Model) refreshPlaylists() {
	currentID := ""
	if p, ok := m.deps.Playlists.Current(); ok {
		currentID = p.ID
	}
	m.playlists.SetItems(playlistItems(m.deps.Playlists.List(), currentID))
}

func (m *Model) toggleTheme() tea.Cmd {
	t, err := m.deps.Theme.Toggle()
	m.applyPalette(PaletteFor(t))
	m.notice = fmt.Sprintf("%s theme", t)
	if err != nil {
		return func() tea.Msg { return noticeMsg(m.notice, err) }
	}
	return nil
}

func (m *Model) applyPalette(p *Palette) {
	m.palette = p
	for _, l := range []*list.Model{&m.home, &m.results, &m.queue, &m.playlists, &m.detail} {
		l.SetDelegate(p.delegate())
		l.Styles.Title = p.title.MarginBottom(0)
	}
	m.bar = m.newBar()
}

func (m *Model) resize() {
	w, h := m.width-2, m.height-chromeLines
	if h < 3 {
		h = 3
	}
	for _, l := range []*list.Model{&m.home, &m.queue, &m.playlists, &m.detail} {
		l.SetSize(w, h)
	}
	m.results.SetSize(w, h-2)
	m.input.Width = w - 4
	m.bar = m.newBar()
}

func (m *Model) newBar() progress.Model {
	width := m.width / 3
	if width < 10 {
		width = 20
	}
	return progress.New(
		progress.WithoutPercentage(),
		progress.WithWidth(width),
		progress.WithSolidFill(string(m.palette.accent)),
	)
}

func (m *Model) playFrom(songs []models.Song, start int) tea.Cmd {
	e := m.deps.Engine
	queue := append([]models.Song(nil), songs...)
	return func() tea.Msg {
		if err := e.SetQueue(m.ctx, queue, start); err != nil {
			return noticeMsg("", err)
		}
		return nil
	}
}

// engineCmd runs fn off the update loop, since output start-up may block.
func (m *Model) engineCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m *Model) loadHome() tea.Cmd {
	c := m.deps.Catalog
	return func() tea.Msg {
		recent, err := c.RecentlyPlayed(m.ctx)
		if err != nil {
			return homeLoadedMsg(nil, nil, nil, err)
		}
		featured, err := c.FeaturedPlaylists(m.ctx)
		if err != nil {
			return homeLoadedMsg(nil, nil, nil, err)
		}
		genres, err := c.Genres(m.ctx)
		return homeLoadedMsg(recent, featured, genres, err)
	}
}

func (m *Model) runSearch(q string) tea.Cmd {
	c := m.deps.Catalog
	m.notice = "searching..."
	return func() tea.Msg {
		songs, err := c.SearchSongs(m.ctx, q)
		return searchResultsMsg(q, songs, err)
	}
}

func (m *Model) fetchSuggestions(q string) tea.Cmd {
	if q == "" {
		m.suggestions = nil
		return nil
	}
	c := m.deps.Catalog
	return func() tea.Msg {
		s, err := c.Suggestions(m.ctx, q)
		if err != nil {
			m.deps.Logger.Warn("failed to fetch suggestions", "query", q, "err", err)
			return nil
		}
		return suggestionsMsg(q, s)
	}
}

func (m *Model) waitForPlayer() tea.Cmd {
	updates := m.deps.Engine.Updates()
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case s := <-updates:
			return playerStateMsg(s)
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case HomeView:
		body = m.renderHome()
	case SearchView:
		body = m.renderSearch()
	case QueueView:
		body = m.renderQueue()
	case PlaylistsView:
		body = m.renderPlaylists()
	case SettingsView:
		body = m.renderSettings()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		body,
		m.renderNotice(),
		m.renderPlayerBar(),
		m.help.ShortHelpView(m.helpKeys()),
	)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if ViewState(i) == m.view {
			tabs[i] = m.palette.tabOn.Render(label)
		} else {
			tabs[i] = m.palette.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m *Model) renderHome() string {
	var b strings.Builder
	b.WriteString(m.home.View())
	if len(m.featured) > 0 {
		names := make([]string, len(m.featured))
		for i, p := range m.featured {
			names[i] = p.Name
		}
		b.WriteString("\n" + m.palette.selected.Render("Featured: ") + strings.Join(names, " • "))
	}
	if len(m.genres) > 0 {
		b.WriteString("\n" + m.palette.selected.Render("Genres: ") + strings.Join(m.genres, ", "))
	}
	return b.String()
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	if len(m.suggestions) > 0 {
		b.WriteString("\n" + m.palette.help.Render("  "+strings.Join(m.suggestions, " · ")))
	}
	b.WriteString("\n\n")
	b.WriteString(m.results.View())
	return b.String()
}

func (m *Model) renderQueue() string {
	if len(m.state.Queue) == 0 {
		return m.palette.title.Render("Queue") + "\n" + m.palette.help.Render("The queue is empty. Press enter on a song to start playing.")
	}
	return m.queue.View()
}

func (m *Model) renderPlaylists() string {
	if m.naming.Focused() {
		return m.palette.title.Render("New Playlist") + "\n" + m.naming.View()
	}
	if m.detailID != "" {
		if len(m.detail.Items()) == 0 {
			return m.palette.title.Render(m.detail.Title) + "\n" + m.palette.help.Render("No songs yet. Press o on a song to add it here.")
		}
		return m.detail.View()
	}
	if len(m.playlists.Items()) == 0 {
		return m.palette.title.Render("Your Playlists") + "\n" + m.palette.help.Render("No playlists. Press c to create one.")
	}
	return m.playlists.View()
}

func (m *Model) renderSettings() string {
	auth := m.deps.Auth.State()
	account := "not signed in"
	if auth.Authenticated && auth.User != nil {
		account = fmt.Sprintf("%s <%s>", auth.User.Name, auth.User.Email)
	}

	rows := [][2]string{
		{"Theme", string(m.deps.Theme.Theme())},
		{"Account", account},
		{"Volume", fmt.Sprintf("%.0f%%", m.state.Volume*100)},
		{"Shuffle", onOff(m.state.Shuffled)},
		{"Repeat", m.state.Repeat.String()},
	}

	var b strings.Builder
	b.WriteString(m.palette.title.Render("Settings") + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", m.palette.selected.Render(fmt.Sprintf("%-8s", r[0])), r[1])
	}
	b.WriteString(m.palette.help.Render("t toggles the theme, L logs out"))
	return b.String()
}

func (m *Model) renderNotice() string {
	if m.err != nil {
		return m.palette.err.Render("Error: " + m.err.Error())
	}
	if m.notice != "" {
		return m.palette.ok.Render(m.notice)
	}
	return ""
}

func (m *Model) renderPlayerBar() string {
	s := m.state
	if s.Current == nil {
		return m.palette.bar.Render("Nothing playing")
	}

	icon := "⏸"
	switch s.Status() {
	case player.StatusPlaying:
		icon = "▶"
	case player.StatusLoading:
		icon = "…"
	}

	title := fmt.Sprintf("%s %s - %s", icon, s.Current.Title, s.Current.Artist)
	if s.Current.Liked {
		title += " ♥"
	}
	times := fmt.Sprintf("%s / %s", formatter.FormatDuration(int(s.CurrentTime)), formatter.FormatDuration(int(s.Duration)))

	modes := fmt.Sprintf("vol %.0f%%", s.Volume*100)
	if s.Shuffled {
		modes += " shuffle"
	}
	if s.Repeat != player.RepeatNone {
		modes += " repeat:" + s.Repeat.String()
	}

	return m.palette.bar.Render(strings.Join([]string{title, m.bar.ViewAs(s.Progress()), times, modes}, "  "))
}

func (m *Model) helpKeys() []key.Binding {
	switch {
	case m.input.Focused():
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
			m.keys.back,
		}
	case m.naming.Focused():
		return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")), m.keys.back}
	}

	switch m.view {
	case HomeView, SearchView:
		return []key.Binding{m.keys.enter, m.keys.enqueue, m.keys.addToList, m.keys.search, m.keys.toggle, m.keys.nextTab, m.keys.quit}
	case QueueView:
		return []key.Binding{m.keys.enter, m.keys.remove, m.keys.shuffle, m.keys.repeat, m.keys.toggle, m.keys.quit}
	case PlaylistsView:
		if m.detailID != "" {
			return []key.Binding{m.keys.enter, m.keys.remove, m.keys.back, m.keys.quit}
		}
		return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")), m.keys.create, m.keys.remove, m.keys.quit}
	default:
		return []key.Binding{m.keys.theme, m.keys.logout, m.keys.nextTab, m.keys.quit}
	}
}

func selectedSong(l list.Model) (models.Song, bool) {
	it, ok := l.SelectedItem().(songItem)
	if !ok {
		return models.Song{}, false
	}
	return it.song, true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Run starts the TUI on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	prog := tea.NewProgram(NewModel(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
