package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/sonora/internal/models"
)

// EventKind identifies an [Event] emitted by an [Output].
type EventKind int

const (
	// EventTime reports the playback position.
	EventTime EventKind = iota
	// EventDuration reports the loaded track's length.
	EventDuration
	// EventEnded reports that the track played to its end.
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventTime:
		return "timeupdate"
	case EventDuration:
		return "loadedmetadata"
	case EventEnded:
		return "ended"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a notification from the audio output.
type Event struct {
	Kind    EventKind
	Seconds float64
}

// Output is the single audio element the engine drives.
//
// Load abandons whatever source was previously loaded. Seek clamps to the loaded track and returns the position
// it applied. Play may fail, e.g. when the platform refuses to start
// audio, and the engine treats that as a non-fatal error.
type Output interface {
	Load(song models.Song) error
	Play(ctx context.Context) error
	Pause()
	Seek(seconds float64) float64
	SetVolume(v float64)
	Events() <-chan Event
}

// ErrPlaybackBlocked is returned by [VirtualOutput.Play] when Blocked is set.
var ErrPlaybackBlocked = errors.New("playback was blocked")

var _ Output = (*VirtualOutput)(nil)

// VirtualOutput is a clock-driven [Output] that plays nothing. Position advances only through [VirtualOutput.Advance]
// or [VirtualOutput.Run], which makes it useful for headless sessions and deterministic tests.
type VirtualOutput struct {
	mu       sync.Mutex
	song     *models.Song
	position float64
	duration float64
	playing  bool
	volume   float64
	blocked  bool
	events   chan Event
}

// NewVirtualOutput creates a VirtualOutput whose event channel holds up to buffer events.
func NewVirtualOutput(buffer int) *VirtualOutput {
	if buffer <= 0 {
		buffer = 64
	}
	return &VirtualOutput{volume: 1, events: make(chan Event, buffer)}
}

// SetBlocked makes subsequent Play calls fail with [ErrPlaybackBlocked].
func (o *VirtualOutput) SetBlocked(blocked bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.blocked = blocked
}

func (o *VirtualOutput) Load(song models.Song) error {
	if song.URL == "" {
		return fmt.Errorf("song %s has no source url", song.ID)
	}

	o.mu.Lock()
	o.song = &song
	o.position = 0
	o.duration = float64(song.Duration)
	o.playing = false
	d := o.duration
	o.mu.Unlock()

	o.emit(Event{Kind: EventDuration, Seconds: d})
	return nil
}

func (o *VirtualOutput) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.blocked {
		return ErrPlaybackBlocked
	}
	if o.song == nil {
		return errors.New("no source loaded")
	}
	o.playing = true
	return nil
}

func (o *VirtualOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.playing = false
}

func (o *VirtualOutput) Seek(seconds float64) float64 {
	o.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if o.duration > 0 && seconds > o.duration {
		seconds = o.duration
	}
	o.position = seconds
	o.mu.Unlock()

	o.emit(Event{Kind: EventTime, Seconds: seconds})
	return seconds
}

func (o *VirtualOutput) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = clampVolume(v)
}

func (o *VirtualOutput) Events() <-chan Event { return o.events }

// Volume returns the applied volume.
func (o *VirtualOutput) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// Playing reports whether the output is advancing.
func (o *VirtualOutput) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing
}

// Position returns the playback position in seconds.
func (o *VirtualOutput) Position() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.position
}

// Loaded returns the id of the loaded song, or "" when nothing is loaded.
func (o *VirtualOutput) Loaded() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.song == nil {
		return ""
	}
	return o.song.ID
}

// Advance moves the clock forward by d while playing, emitting a time update and, at the end of the track, an
// ended event. The ended event waits for a reader until ctx is done.
func (o *VirtualOutput) Advance(ctx context.Context, d time.Duration) {
	o.mu.Lock()
	if !o.playing {
		o.mu.Unlock()
		return
	}

	o.position += d.Seconds()
	ended := o.duration > 0 && o.position >= o.duration
	if ended {
		o.position = o.duration
		o.playing = false
	}
	pos := o.position
	o.mu.Unlock()

	o.emit(Event{Kind: EventTime, Seconds: pos})
	if ended {
		select {
		case o.events <- Event{Kind: EventEnded}:
		case <-ctx.Done():
		}
	}
}

// Run advances the clock every tick until ctx is done.
func (o *VirtualOutput) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Advance(ctx, tick)
		}
	}
}

// emit drops the event when nobody is keeping up; only ended events are delivered unconditionally.
func (o *VirtualOutput) emit(ev Event) {
	select {
	case o.events <- ev:
	default:
	}
}
