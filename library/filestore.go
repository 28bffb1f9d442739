package library

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/crypto/blake2b"
)

var catalogJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// catalogFormatVersion tags the envelope written by FileStore. Files with any
// other version are not read.
const catalogFormatVersion = 1

type catalogEnvelope struct {
	Version  int          `json:"version"`
	Checksum string       `json:"checksum"`
	Books    []storedBook `json:"books"`
}

// textEncodingBase64 marks a stored book whose title and author are base64
// because one of them is not valid UTF-8 and JSON cannot carry it as is.
const textEncodingBase64 = "base64"

type storedBook struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Available bool   `json:"available"`
	Encoding  string `json:"encoding,omitempty"`
}

func toStored(b Book) storedBook {
	sb := storedBook{ID: b.ID, Title: b.Title, Author: b.Author, Available: b.Available}
	if !utf8.ValidString(b.Title) || !utf8.ValidString(b.Author) {
		sb.Title = base64.StdEncoding.EncodeToString([]byte(b.Title))
		sb.Author = base64.StdEncoding.EncodeToString([]byte(b.Author))
		sb.Encoding = textEncodingBase64
	}
	return sb
}

func (sb storedBook) book() (Book, error) {
	b := Book{ID: sb.ID, Title: sb.Title, Author: sb.Author, Available: sb.Available}
	switch sb.Encoding {
	case "":
	case textEncodingBase64:
		title, err := base64.StdEncoding.DecodeString(sb.Title)
		if err != nil {
			return Book{}, fmt.Errorf("book %d title: %w", sb.ID, err)
		}
		author, err := base64.StdEncoding.DecodeString(sb.Author)
		if err != nil {
			return Book{}, fmt.Errorf("book %d author: %w", sb.ID, err)
		}
		b.Title, b.Author = string(title), string(author)
	default:
		return Book{}, fmt.Errorf("book %d: unknown text encoding %q", sb.ID, sb.Encoding)
	}
	return b, nil
}

// FileStore keeps the catalog in a JSON file guarded by a BLAKE2b checksum.
type FileStore struct {
	path string
}

// NewFileStore returns a JSON-backed store for the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save overwrites the file with the full catalog.
func (s *FileStore) Save(books []Book) error {
	stored := make([]storedBook, len(books))
	for i, b := range books {
		stored[i] = toStored(b)
	}
	sum, err := checksum(stored)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSavingCatalogFailed, err)
	}

	data, err := catalogJSON.MarshalIndent(catalogEnvelope{
		Version:  catalogFormatVersion,
		Checksum: sum,
		Books:    stored,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSavingCatalogFailed, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create dir: %w", ErrSavingCatalogFailed, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSavingCatalogFailed, err)
	}
	return nil
}

// Load reads the catalog back. A missing file yields an empty catalog.
func (s *FileStore) Load() ([]Book, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingCatalogFailed, err)
	}

	var env catalogEnvelope
	if err := catalogJSON.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrLoadingCatalogFailed, ErrCorruptCatalog, err)
	}
	if env.Version != catalogFormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrLoadingCatalogFailed, env.Version)
	}

	stored := env.Books
	if stored == nil {
		stored = []storedBook{}
	}
	sum, err := checksum(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingCatalogFailed, err)
	}
	if sum != env.Checksum {
		return nil, fmt.Errorf("%w: %w: checksum mismatch", ErrLoadingCatalogFailed, ErrCorruptCatalog)
	}

	books := make([]Book, len(stored))
	for i, sb := range stored {
		if books[i], err = sb.book(); err != nil {
			return nil, fmt.Errorf("%w: %w: %w", ErrLoadingCatalogFailed, ErrCorruptCatalog, err)
		}
	}
	return books, nil
}

// Close is a no-op; the file is only held open during Save and Load.
func (s *FileStore) Close() error { return nil }

// checksum hashes the compact encoding of the stored books.
func checksum(books []storedBook) (string, error) {
	data, err := catalogJSON.Marshal(books)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
