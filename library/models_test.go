package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookTransitions(t *testing.T) {
	b := NewBook(1, "Dune", "Herbert")
	assert.True(t, b.Available)

	assert.ErrorIs(t, b.giveBack(), ErrNotBorrowed)
	assert.NoError(t, b.borrow())
	assert.False(t, b.Available)
	assert.ErrorIs(t, b.borrow(), ErrNotAvailable)
	assert.NoError(t, b.giveBack())
	assert.True(t, b.Available)
}

func TestRecordStrings(t *testing.T) {
	assert.Equal(t, "Book ID: 1, Title: Dune, Author: Herbert, Available: true", NewBook(1, "Dune", "Herbert").String())
	assert.Equal(t, "User ID: 7, Name: Alice", User{ID: 7, Name: "Alice"}.String())
}
