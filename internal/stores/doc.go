// package stores holds the application state shared by the views: theme, auth session and playlists.
//
// Every store applies changes through a reducer behind a mutex and writes the affected value through to a
// [models.KeyValue] after each mutation. Stores restore their persisted value on construction.
package stores

// Persistence keys.
const (
	KeyTheme     = "theme"
	KeyUser      = "auth.user"
	KeyToken     = "auth.token"
	KeyPlaylists = "playlists"
)
