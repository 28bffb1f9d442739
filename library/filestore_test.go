package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	return NewFileStore(path), path
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store, _ := tempFileStore(t)

	books, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := tempFileStore(t)
	want := sampleBooks()

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreSaveEmpty(t *testing.T) {
	store, _ := tempFileStore(t)

	require.NoError(t, store.Save(nil))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreWritesVersionedEnvelope(t *testing.T) {
	store, path := tempFileStore(t)
	require.NoError(t, store.Save([]Book{NewBook(1, "Dune", "Herbert")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var env catalogEnvelope
	require.NoError(t, catalogJSON.Unmarshal(data, &env))
	assert.Equal(t, catalogFormatVersion, env.Version)
	assert.Len(t, env.Checksum, 64)
	assert.Equal(t, []storedBook{{ID: 1, Title: "Dune", Author: "Herbert", Available: true}}, env.Books)
}

func TestFileStoreRoundTripInvalidUTF8(t *testing.T) {
	store, path := tempFileStore(t)
	latin1 := NewBook(1, "Caf\xe9", "X")
	latin1.Available = false
	want := []Book{latin1, NewBook(2, "Dune", "Herbert"), NewBook(3, "Ok", "Br\xfcder \xff")}

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var env catalogEnvelope
	require.NoError(t, catalogJSON.Unmarshal(data, &env))
	assert.Equal(t, textEncodingBase64, env.Books[0].Encoding)
	assert.Empty(t, env.Books[1].Encoding)
	assert.Equal(t, textEncodingBase64, env.Books[2].Encoding)

	// A restarted library keeps every book.
	lib := NewLibrary(NewFileStore(path))
	assert.Equal(t, want, lib.DisplayBooks())
}

func TestFileStoreRejectsDamagedFiles(t *testing.T) {
	tests := []struct {
		name   string
		damage func(data string) string
	}{
		{
			name:   "not json",
			damage: func(string) string { return "\x00\x01garbage" },
		},
		{
			name:   "truncated",
			damage: func(data string) string { return data[:len(data)/2] },
		},
		{
			name: "edited without checksum",
			damage: func(data string) string {
				return strings.Replace(data, `"available": true`, `"available": false`, 1)
			},
		},
		{
			name: "unknown text encoding",
			damage: func(data string) string {
				return strings.Replace(data, `"available": true`, `"available": true, "encoding": "rot13"`, 1)
			},
		},
		{
			name: "unknown version",
			damage: func(data string) string {
				return strings.Replace(data, `"version": 1`, `"version": 7`, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := tempFileStore(t)
			require.NoError(t, store.Save([]Book{NewBook(1, "Dune", "Herbert")}))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, []byte(tt.damage(string(data))), 0o644))

			_, err = store.Load()
			assert.ErrorIs(t, err, ErrLoadingCatalogFailed)
		})
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	st, err := OpenStore(StoreSQLite, filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &Database{}, st)

	st, err = OpenStore(StoreJSON, filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, st)

	_, err = OpenStore("xml", "")
	assert.ErrorIs(t, err, ErrUnknownStoreKind)
}

func TestParseStoreKind(t *testing.T) {
	kind, err := ParseStoreKind(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, StoreJSON, kind)

	kind, err = ParseStoreKind("sqlite")
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, kind)

	_, err = ParseStoreKind("csv")
	assert.ErrorIs(t, err, ErrUnknownStoreKind)
}
