package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDB(t *testing.T) (*Database, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db := NewDatabase(path)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func sampleBooks() []Book {
	borrowed := NewBook(2, "Neuromancer", "Gibson")
	borrowed.Available = false
	return []Book{
		NewBook(1, "Dune", "Herbert"),
		borrowed,
		NewBook(1, "Dune", "Herbert"), // duplicate ids are kept
		NewBook(-4, "", ""),
		NewBook(9, "Ünïcödé, \"quoted\" <title>", "O'Brien"),
	}
}

func TestDatabaseLoadMissingFile(t *testing.T) {
	db, path := tempDB(t)

	books, err := db.Load()
	require.NoError(t, err)
	assert.Empty(t, books)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "loading must not create the database file")
}

func TestDatabaseRoundTrip(t *testing.T) {
	db, path := tempDB(t)
	want := sampleBooks()

	require.NoError(t, db.Save(want))

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// A second handle on the same file sees the same catalog.
	reopened := NewDatabase(path)
	t.Cleanup(func() { reopened.Close() })
	got, err = reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDatabaseSaveOverwrites(t *testing.T) {
	db, _ := tempDB(t)

	require.NoError(t, db.Save(sampleBooks()))
	require.NoError(t, db.Save([]Book{NewBook(42, "Solaris", "Lem")}))

	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, []Book{NewBook(42, "Solaris", "Lem")}, got)

	require.NoError(t, db.Save(nil))
	got, err = db.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDatabaseCorruptFile(t *testing.T) {
	db, path := tempDB(t)
	garbage := strings.Repeat("this is not a sqlite database file\n", 64)
	require.NoError(t, os.WriteFile(path, []byte(garbage), 0o644))

	_, err := db.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadingCatalogFailed)

	// Saving replaces the unreadable file.
	require.NoError(t, db.Save([]Book{NewBook(1, "Dune", "Herbert")}))
	got, err := db.Load()
	require.NoError(t, err)
	assert.Equal(t, []Book{NewBook(1, "Dune", "Herbert")}, got)
}

func TestDatabaseSaveUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o644))

	db := NewDatabase(filepath.Join(blocker, "lib.db"))
	t.Cleanup(func() { db.Close() })

	err := db.Save([]Book{NewBook(1, "Dune", "Herbert")})
	assert.ErrorIs(t, err, ErrSavingCatalogFailed)
}

func TestDatabasePathWithURIMetacharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "we?ird #dir%20")
	path := filepath.Join(dir, "lib?x#y.db")

	db := NewDatabase(path)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Save([]Book{NewBook(1, "Dune", "Herbert")}))

	_, err := os.Stat(path)
	require.NoError(t, err, "database must be created at the literal path")

	reopened := NewDatabase(path)
	t.Cleanup(func() { reopened.Close() })
	got, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, []Book{NewBook(1, "Dune", "Herbert")}, got)
}

func TestDSNEscapesPath(t *testing.T) {
	assert.Equal(t, "file:library.db?_busy_timeout=5000", dsn("library.db"))
	assert.Equal(t, "file:/tmp/a%3Fb/c%23d%25.db?_busy_timeout=5000", dsn("/tmp/a?b/c#d%.db"))
}
