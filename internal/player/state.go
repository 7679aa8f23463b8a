package player

import (
	"fmt"

	"github.com/desertthunder/sonora/internal/models"
)

// RepeatMode controls what happens at the end of a track.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatAll
	RepeatOne
)

// Next cycles none -> all -> one -> none.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatNone
	}
}

func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "none"
	}
}

// ParseRepeatMode parses "none", "all" or "one".
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch s {
	case "none", "":
		return RepeatNone, nil
	case "all":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	default:
		return RepeatNone, fmt.Errorf("unknown repeat mode %q", s)
	}
}

// Status is the coarse playback state derived from [State].
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// State is a snapshot of the playback session.
type State struct {
	Current      *models.Song
	Playing      bool
	CurrentTime  float64 // seconds
	Duration     float64 // seconds
	Volume       float64 // 0..1
	Queue        []models.Song
	CurrentIndex int
	Shuffled     bool
	Repeat       RepeatMode
	Loading      bool
}

// NewState returns the initial idle state.
func NewState(volume float64) State {
	return State{Volume: clampVolume(volume), CurrentIndex: -1}
}

// Status derives the coarse playback status.
func (s State) Status() Status {
	switch {
	case s.Current == nil:
		return StatusIdle
	case s.Loading:
		return StatusLoading
	case s.Playing:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

// Progress returns CurrentTime/Duration in [0, 1].
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.Duration
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// clone copies the queue and current song so the snapshot shares nothing with the engine.
func (s State) clone() State {
	out := s
	if s.Queue != nil {
		out.Queue = append([]models.Song(nil), s.Queue...)
	}
	if s.Current != nil {
		c := *s.Current
		out.Current = &c
	}
	return out
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
