package player

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
)

// Persistence keys.
const (
	KeyVolume = "player.volume"
	KeyLiked  = "player.liked"
)

// Options configures an [Engine].
type Options struct {
	Output Output
	Store  models.KeyValue
	Logger *log.Logger
	// DefaultVolume is used when no volume has been persisted yet.
	DefaultVolume float64
	// Intn picks the next index in shuffle mode. Defaults to [rand.IntN].
	Intn func(n int) int
}

// Engine owns the playback session.
//
// opMu serializes whole operations, so a user action and an end-of-track event never interleave their steps.
// mu guards state for single reducer steps and snapshots.
type Engine struct {
	opMu    sync.Mutex
	mu      sync.Mutex
	state   State
	liked   map[string]bool
	output  Output
	store   models.KeyValue
	logger  *log.Logger
	intn    func(int) int
	updates chan State
}

// NewEngine restores the persisted volume and liked songs and applies the volume to the output.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		liked:   map[string]bool{},
		output:  opts.Output,
		store:   opts.Store,
		logger:  opts.Logger,
		intn:    opts.Intn,
		updates: make(chan State, 16),
	}
	if e.output == nil {
		e.output = NewVirtualOutput(0)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.intn == nil {
		e.intn = rand.IntN
	}

	volume := opts.DefaultVolume
	if e.store != nil {
		var stored float64
		if ok, err := e.store.Get(KeyVolume, &stored); err != nil {
			e.logger.Warn("failed to load volume", "err", err)
		} else if ok {
			volume = stored
		}

		var ids []string
		if _, err := e.store.Get(KeyLiked, &ids); err != nil {
			e.logger.Warn("failed to load liked songs", "err", err)
		}
		for _, id := range ids {
			e.liked[id] = true
		}
	}

	e.state = NewState(volume)
	e.output.SetVolume(e.state.Volume)
	return e
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Updates delivers a snapshot after every change. Snapshots are dropped when the reader falls behind.
func (e *Engine) Updates() <-chan State { return e.updates }

// Liked reports whether id is in the liked set.
func (e *Engine) Liked(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liked[id]
}

// Play starts song, or resumes the current song when song is nil.
//
// Output failures are logged and leave the engine paused; they are never returned.
func (e *Engine) Play(ctx context.Context, song *models.Song) {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.play(ctx, song)
}

// play requires opMu.
func (e *Engine) play(ctx context.Context, song *models.Song) {
	if song == nil {
		e.resume(ctx)
		return
	}

	s := e.decorate(*song)
	e.dispatch(SetCurrentSong{Song: s}, SetTime{Seconds: 0}, SetDuration{Seconds: float64(s.Duration)}, SetLoading{Loading: true})

	err := e.output.Load(s)
	if err == nil {
		err = e.output.Play(ctx)
	}
	if err != nil {
		e.logger.Error("error playing audio", "song", s.ID, "title", s.Title, "err", fmt.Errorf("%w: %w", shared.ErrPlaybackFailed, err))
		e.dispatch(SetPlaying{Playing: false}, SetLoading{Loading: false})
		return
	}
	e.dispatch(SetPlaying{Playing: true}, SetLoading{Loading: false})
}

func (e *Engine) resume(ctx context.Context) {
	if e.State().Current == nil {
		return
	}
	if err := e.output.Play(ctx); err != nil {
		e.logger.Error("error resuming audio", "err", err)
		return
	}
	e.dispatch(SetPlaying{Playing: true})
}

// Pause stops the output and clears the playing flag.
func (e *Engine) Pause() {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.pause()
}

func (e *Engine) pause() {
	e.output.Pause()
	e.dispatch(SetPlaying{Playing: false})
}

// TogglePlay pauses when playing and resumes otherwise.
func (e *Engine) TogglePlay(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if e.State().Playing {
		e.pause()
		return
	}
	e.resume(ctx)
}

// Seek asks the output to move to seconds and records the position the output settled on.
func (e *Engine) Seek(seconds float64) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	pos := e.output.Seek(seconds)
	e.dispatch(SetTime{Seconds: pos})
}

// SetVolume applies v (clamped to [0, 1]) to the output and persists it.
func (e *Engine) SetVolume(v float64) error {
	v = clampVolume(v)
	e.output.SetVolume(v)
	e.dispatch(SetVolume{Volume: v})

	if e.store == nil {
		return nil
	}
	if err := e.store.Set(KeyVolume, v); err != nil {
		e.logger.Warn("failed to persist volume", "err", err)
		return fmt.Errorf("failed to persist volume: %w", err)
	}
	return nil
}

// Next advances to the following queue entry and plays it.
//
// In shuffle mode the next index is drawn uniformly from the queue and may repeat the current one.
// Otherwise the queue wraps from the last entry to the first.
func (e *Engine) Next(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.next(ctx)
}

func (e *Engine) next(ctx context.Context) {
	e.step(ctx, func(s State) int {
		if s.Shuffled {
			return e.intn(len(s.Queue))
		}
		return (s.CurrentIndex + 1) % len(s.Queue)
	})
}

// Prev moves to the preceding queue entry, wrapping from the first to the last, and plays it.
func (e *Engine) Prev(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.step(ctx, func(s State) int {
		if s.CurrentIndex <= 0 {
			return len(s.Queue) - 1
		}
		return s.CurrentIndex - 1
	})
}

// step requires opMu.
func (e *Engine) step(ctx context.Context, pick func(State) int) {
	e.mu.Lock()
	if len(e.state.Queue) == 0 {
		e.mu.Unlock()
		return
	}
	idx := pick(e.state)
	e.state = Reduce(e.state, SetCurrentIndex{Index: idx})
	song := e.state.Queue[e.state.CurrentIndex]
	snapshot := e.state.clone()
	e.mu.Unlock()

	e.publish(snapshot)
	e.play(ctx, &song)
}

// SetQueue replaces the queue and plays songs[start]. An empty slice clears the queue without playing.
func (e *Engine) SetQueue(ctx context.Context, songs []models.Song, start int) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if len(songs) == 0 {
		e.dispatch(SetQueue{})
		return nil
	}
	if start < 0 || start >= len(songs) {
		return fmt.Errorf("%w: start index %d outside queue of %d", shared.ErrInvalidArgument, start, len(songs))
	}

	queue := make([]models.Song, len(songs))
	for i, s := range songs {
		queue[i] = e.decorate(s)
	}
	e.dispatch(SetQueue{Songs: queue, Start: start})
	e.play(ctx, &queue[start])
	return nil
}

// AddToQueue appends song. Adding to an empty queue makes it current without playing it.
func (e *Engine) AddToQueue(song models.Song) {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.dispatch(AddToQueue{Song: e.decorate(song)})
}

// RemoveFromQueue removes the entry at i.
func (e *Engine) RemoveFromQueue(i int) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	n := len(e.state.Queue)
	e.mu.Unlock()

	if i < 0 || i >= n {
		return fmt.Errorf("%w: index %d outside queue of %d", shared.ErrInvalidArgument, i, n)
	}
	e.dispatch(RemoveFromQueue{Index: i})
	return nil
}

// ToggleShuffle flips shuffle mode and returns the new value.
func (e *Engine) ToggleShuffle() bool {
	return e.dispatch(ToggleShuffle{}).Shuffled
}

// ToggleRepeat cycles the repeat mode and returns the new value.
func (e *Engine) ToggleRepeat() RepeatMode {
	return e.dispatch(ToggleRepeat{}).Repeat
}

// ToggleLike flips the liked flag of every copy of id in the session and persists the liked set.
func (e *Engine) ToggleLike(id string) error {
	e.mu.Lock()
	e.state = Reduce(e.state, ToggleLike{SongID: id})

	liked, found := likedFlag(e.state, id)
	if !found {
		liked = !e.liked[id]
	}
	if liked {
		e.liked[id] = true
	} else {
		delete(e.liked, id)
	}
	ids := make([]string, 0, len(e.liked))
	for k := range e.liked {
		ids = append(ids, k)
	}
	snapshot := e.state.clone()
	e.mu.Unlock()

	e.publish(snapshot)

	if e.store == nil {
		return nil
	}
	sort.Strings(ids)
	if err := e.store.Set(KeyLiked, ids); err != nil {
		e.logger.Warn("failed to persist liked songs", "err", err)
		return fmt.Errorf("failed to persist liked songs: %w", err)
	}
	return nil
}

// Run consumes output events until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	events := e.output.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.HandleEvent(ctx, ev)
		}
	}
}

// HandleEvent applies a single output event.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventTime:
		e.dispatch(SetTime{Seconds: ev.Seconds})
	case EventDuration:
		e.dispatch(SetDuration{Seconds: ev.Seconds})
	case EventEnded:
		e.ended(ctx)
	}
}

func (e *Engine) ended(ctx context.Context) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if e.State().Repeat != RepeatOne {
		e.next(ctx)
		return
	}

	e.dispatch(SetTime{Seconds: e.output.Seek(0)})
	if err := e.output.Play(ctx); err != nil {
		e.logger.Error("error replaying audio", "err", err)
		e.dispatch(SetPlaying{Playing: false})
		return
	}
	e.dispatch(SetPlaying{Playing: true})
}

func (e *Engine) dispatch(actions ...Action) State {
	e.mu.Lock()
	for _, a := range actions {
		e.state = Reduce(e.state, a)
	}
	snapshot := e.state.clone()
	e.mu.Unlock()

	e.publish(snapshot)
	return snapshot
}

func (e *Engine) publish(s State) {
	select {
	case e.updates <- s:
	default:
	}
}

// decorate marks song liked when its id is in the persisted set.
func (e *Engine) decorate(song models.Song) models.Song {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.liked[song.ID] {
		song.Liked = true
	}
	return song
}

func likedFlag(s State, id string) (bool, bool) {
	if s.Current != nil && s.Current.ID == id {
		return s.Current.Liked, true
	}
	for _, song := range s.Queue {
		if song.ID == id {
			return song.Liked, true
		}
	}
	return false, false
}
