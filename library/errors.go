package library

import "errors"

var (
	// ErrNotAvailable is returned when no book with the requested id is currently available.
	ErrNotAvailable = errors.New("book is not available or invalid book id")

	// ErrNotBorrowed is returned when no book with the requested id is currently borrowed.
	ErrNotBorrowed = errors.New("invalid book id or book is not borrowed")

	// ErrSavingCatalogFailed is returned when the book catalog could not be written to its store.
	ErrSavingCatalogFailed = errors.New("saving catalog failed")

	// ErrLoadingCatalogFailed is returned when a persisted catalog exists but could not be read.
	ErrLoadingCatalogFailed = errors.New("loading catalog failed")

	// ErrCorruptCatalog is returned when a persisted catalog fails its integrity check.
	ErrCorruptCatalog = errors.New("catalog is corrupt")

	// ErrUnknownStoreKind is returned by OpenStore for an unsupported store kind.
	ErrUnknownStoreKind = errors.New("unknown store kind")
)
