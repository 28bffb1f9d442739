package library

import (
	"errors"
	"strings"
)

// Logger is the logging surface the Library reports to. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger for the Library.
func WithLogger(logger Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Library owns the in-memory catalog and user list. Every book mutation is
// flushed to the store; users are never persisted.
type Library struct {
	store  Store
	logger Logger
	books  []Book
	users  []User
}

// NewLibrary hydrates the catalog from store. A catalog that cannot be loaded
// is treated as empty so the Library always starts.
func NewLibrary(store Store, opts ...Option) *Library {
	l := &Library{store: store, logger: nopLogger{}}
	for _, opt := range opts {
		opt(l)
	}

	books, err := store.Load()
	if err != nil {
		l.logger.Debug("catalog not loaded, starting empty", "error", err)
		books = nil
	}
	l.books = books
	l.logger.Debug("catalog loaded", "books", len(l.books))
	return l
}

// Close closes the underlying store.
func (l *Library) Close() error { return l.store.Close() }

// ------------------ Book helpers ------------------

// AddBook appends an available book and persists the catalog. The book is
// kept even if the returned persistence error is non-nil.
func (l *Library) AddBook(id int64, title, author string) error {
	l.books = append(l.books, NewBook(id, title, author))
	return l.persist("add book", id)
}

// DisplayBooks returns the catalog in insertion order.
func (l *Library) DisplayBooks() []Book {
	books := make([]Book, len(l.books))
	copy(books, l.books)
	return books
}

// SearchBook returns the first book whose title matches case-insensitively.
func (l *Library) SearchBook(title string) (Book, bool) {
	for _, b := range l.books {
		if strings.EqualFold(b.Title, title) {
			return b, true
		}
	}
	return Book{}, false
}

// ------------------ Circulation ------------------

// BorrowBook marks the first available book with bookID as borrowed. userID
// is not checked against registered users and is not recorded on the book.
func (l *Library) BorrowBook(bookID int64, userID string) error {
	for i := range l.books {
		if l.books[i].ID != bookID || !l.books[i].Available {
			continue
		}
		if err := l.books[i].borrow(); err != nil {
			return err
		}
		l.logger.Info("book borrowed", "book_id", bookID, "user_id", userID)
		return l.persist("borrow book", bookID)
	}
	return ErrNotAvailable
}

// ReturnBook marks the first borrowed book with bookID as available again.
func (l *Library) ReturnBook(bookID int64) error {
	for i := range l.books {
		if l.books[i].ID != bookID || l.books[i].Available {
			continue
		}
		if err := l.books[i].giveBack(); err != nil {
			return err
		}
		l.logger.Info("book returned", "book_id", bookID)
		return l.persist("return book", bookID)
	}
	return ErrNotBorrowed
}

// ------------------ User helpers ------------------

// AddUser registers a user for the lifetime of the process.
func (l *Library) AddUser(userID int64, name string) {
	l.users = append(l.users, User{ID: userID, Name: name})
}

// Users returns the registered users in insertion order.
func (l *Library) Users() []User {
	users := make([]User, len(l.users))
	copy(users, l.users)
	return users
}

// persist flushes the catalog. The in-memory state is left as is on failure.
func (l *Library) persist(op string, bookID int64) error {
	if err := l.store.Save(l.DisplayBooks()); err != nil {
		l.logger.Error("saving catalog failed", "op", op, "book_id", bookID, "books", len(l.books), "error", err)
		if !errors.Is(err, ErrSavingCatalogFailed) {
			return errors.Join(ErrSavingCatalogFailed, err)
		}
		return err
	}
	return nil
}
