package library

import (
	"fmt"
	"strings"
)

// Store persists the complete book sequence. Save always overwrites whatever
// was stored before; Load returns an empty sequence and no error when nothing
// has been stored yet.
type Store interface {
	Save(books []Book) error
	Load() ([]Book, error)
	Close() error
}

// StoreKind selects a Store implementation.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreJSON   StoreKind = "json"
)

const (
	DefaultSQLitePath = "library.db"
	DefaultJSONPath   = "books.json"
)

// ParseStoreKind accepts the flag spelling of a store kind.
func ParseStoreKind(s string) (StoreKind, error) {
	switch StoreKind(strings.ToLower(strings.TrimSpace(s))) {
	case StoreSQLite:
		return StoreSQLite, nil
	case StoreJSON:
		return StoreJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStoreKind, s)
	}
}

// OpenStore builds the store of the given kind backed by path. An empty path
// selects the default file name for that kind.
func OpenStore(kind StoreKind, path string) (Store, error) {
	switch kind {
	case StoreSQLite:
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewDatabase(path), nil
	case StoreJSON:
		if path == "" {
			path = DefaultJSONPath
		}
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoreKind, kind)
	}
}
