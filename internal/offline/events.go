package offline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/sonora/internal/shared"
)

// Background sync tags.
const (
	SyncLikedSongs = "sync-liked-songs"
	SyncPlaylists  = "sync-playlists"
)

// Sync runs the handler registered for tag. Both known handlers are placeholders and report
// [shared.ErrNotImplemented]; unknown tags are ignored.
func (r *Registration) Sync(ctx context.Context, tag string) error {
	r.logger.Info("background sync", "tag", tag)

	switch tag {
	case SyncLikedSongs:
		r.logger.Info("syncing liked songs")
		return fmt.Errorf("%w: %s", shared.ErrNotImplemented, tag)
	case SyncPlaylists:
		r.logger.Info("syncing playlists")
		return fmt.Errorf("%w: %s", shared.ErrNotImplemented, tag)
	default:
		r.logger.Debug("ignoring unknown sync tag", "tag", tag)
		return nil
	}
}

// Notification is what a push event asks the client to display.
type Notification struct {
	Title string           `json:"title"`
	Body  string           `json:"body"`
	Icon  string           `json:"icon"`
	Badge string           `json:"badge"`
	Tag   string           `json:"tag"`
	Data  NotificationData `json:"data"`
}

// NotificationData is the payload carried to the click handler.
type NotificationData struct {
	URL string `json:"url"`
}

// DefaultNotification is shown when a push carries no payload.
func DefaultNotification() Notification {
	return Notification{
		Title: "Sonora",
		Body:  "New music recommendations are available!",
		Icon:  "/icon-192x192.png",
		Badge: "/badge-72x72.png",
		Tag:   "music-notification",
		Data:  NotificationData{URL: "/"},
	}
}

type pushPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  *NotificationData `json:"data"`
}

// Push builds the notification for a push event. An empty payload yields [DefaultNotification]; a JSON payload
// may override title, body and data.
func (r *Registration) Push(payload []byte) (Notification, error) {
	n := DefaultNotification()
	if len(payload) == 0 {
		r.logger.Info("push received")
		return n, nil
	}

	var p pushPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return n, fmt.Errorf("%w: push payload: %w", shared.ErrInvalidInput, err)
	}
	if p.Title != "" {
		n.Title = p.Title
	}
	if p.Body != "" {
		n.Body = p.Body
	}
	if p.Data != nil {
		n.Data = *p.Data
	}

	r.logger.Info("push received", "title", n.Title, "url", n.Data.URL)
	return n, nil
}

// NotificationClick returns the URL to open for a clicked notification, resolved against the active origin
// when one exists.
func (r *Registration) NotificationClick(n Notification) string {
	target := n.Data.URL
	if target == "" {
		target = "/"
	}

	w := r.Active()
	if w == nil {
		return target
	}
	return w.resolve(target)
}
