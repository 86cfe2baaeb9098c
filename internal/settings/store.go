package settings

// Store is the read/write contract used by the window and the recent-file
// tracker.
type Store interface {
	// Contains reports whether key has a value.
	Contains(key string) bool

	// Value returns the blob stored under key, or nil if absent.
	Value(key string) []byte

	// SetValue stores a blob under key.
	SetValue(key string, value []byte) error

	// Strings returns the list stored under key, or nil if absent.
	Strings(key string) []string

	// SetStrings stores an ordered list under key.
	SetStrings(key string, values []string) error

	// Sync flushes pending writes to durable storage.
	Sync() error
}

// Well-known keys.
const (
	KeyInitialGeometry    = "InitialWindowPlacement/geometry"
	KeyInitialWindowState = "InitialWindowPlacement/windowState"
	KeyGeometry           = "geometry"
	KeyWindowState        = "windowState"
	KeyRecentFiles        = "recentFiles"
	KeyLastDirectory      = "lastDirectory"
)
