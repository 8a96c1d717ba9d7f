package storage

// Provider is the key-value port the workspace persists through. Values are
// JSON text; the store never interprets them.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns ok=false when the key has never been written
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	// Keys lists stored keys in lexical order
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by adapters that keep a migrated schema
type Versioned interface {
	SchemaVersion() (int, error)
	LatestSchemaVersion() (int, error)
}
