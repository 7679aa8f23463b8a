package player

import "github.com/desertthunder/sonora/internal/models"

// Action is a state transition request applied by [Reduce].
type Action interface {
	action()
}

type (
	SetCurrentSong  struct{ Song models.Song }
	SetPlaying      struct{ Playing bool }
	SetTime         struct{ Seconds float64 }
	SetDuration     struct{ Seconds float64 }
	SetVolume       struct{ Volume float64 }
	SetLoading      struct{ Loading bool }
	SetCurrentIndex struct{ Index int }
	AddToQueue      struct{ Song models.Song }
	RemoveFromQueue struct{ Index int }
	ToggleShuffle   struct{}
	ToggleRepeat    struct{}
	ToggleLike      struct{ SongID string }

	// SetQueue replaces the queue wholesale and points CurrentIndex at Start.
	SetQueue struct {
		Songs []models.Song
		Start int
	}
)

func (SetCurrentSong) action()  {}
func (SetPlaying) action()      {}
func (SetTime) action()         {}
func (SetDuration) action()     {}
func (SetVolume) action()       {}
func (SetLoading) action()      {}
func (SetCurrentIndex) action() {}
func (AddToQueue) action()      {}
func (RemoveFromQueue) action() {}
func (ToggleShuffle) action()   {}
func (ToggleRepeat) action()    {}
func (ToggleLike) action()      {}
func (SetQueue) action()        {}

// Reduce applies a to s and returns the new state. s is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetCurrentSong:
		song := a.Song
		s.Current = &song
	case SetPlaying:
		s.Playing = a.Playing
	case SetTime:
		s.CurrentTime = a.Seconds
	case SetDuration:
		s.Duration = a.Seconds
	case SetVolume:
		s.Volume = clampVolume(a.Volume)
	case SetLoading:
		s.Loading = a.Loading
	case SetCurrentIndex:
		if a.Index >= 0 && a.Index < len(s.Queue) {
			s.CurrentIndex = a.Index
		}
	case SetQueue:
		s.Queue = append([]models.Song(nil), a.Songs...)
		switch {
		case len(s.Queue) == 0:
			s.CurrentIndex = -1
		case a.Start >= 0 && a.Start < len(s.Queue):
			s.CurrentIndex = a.Start
		default:
			s.CurrentIndex = 0
		}
	case AddToQueue:
		s.Queue = append(append([]models.Song(nil), s.Queue...), a.Song)
		if s.CurrentIndex < 0 {
			s.CurrentIndex = 0
		}
	case RemoveFromQueue:
		s = removeFromQueue(s, a.Index)
	case ToggleShuffle:
		s.Shuffled = !s.Shuffled
	case ToggleRepeat:
		s.Repeat = s.Repeat.Next()
	case ToggleLike:
		s = toggleLike(s, a.SongID)
	}
	return s
}

func removeFromQueue(s State, i int) State {
	if i < 0 || i >= len(s.Queue) {
		return s
	}

	queue := make([]models.Song, 0, len(s.Queue)-1)
	queue = append(queue, s.Queue[:i]...)
	queue = append(queue, s.Queue[i+1:]...)
	s.Queue = queue

	if i < s.CurrentIndex {
		s.CurrentIndex--
	}

	// Removing the last entry while it is current would leave the index one past the end.
	switch {
	case len(queue) == 0:
		s.CurrentIndex = -1
	case s.CurrentIndex >= len(queue):
		s.CurrentIndex = len(queue) - 1
	}
	return s
}

func toggleLike(s State, id string) State {
	queue := make([]models.Song, len(s.Queue))
	for i, song := range s.Queue {
		if song.ID == id {
			song.Liked = !song.Liked
		}
		queue[i] = song
	}
	s.Queue = queue

	if s.Current != nil && s.Current.ID == id {
		c := *s.Current
		c.Liked = !c.Liked
		s.Current = &c
	}
	return s
}
