package library

import "fmt"

// Book represents a catalog item and its current availability.
type Book struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Available bool   `json:"available"`
}

// NewBook returns a book that is available for borrowing.
func NewBook(id int64, title, author string) Book {
	return Book{ID: id, Title: title, Author: author, Available: true}
}

// borrow moves the book from available to borrowed.
func (b *Book) borrow() error {
	if !b.Available {
		return ErrNotAvailable
	}
	b.Available = false
	return nil
}

// giveBack moves the book from borrowed to available.
func (b *Book) giveBack() error {
	if b.Available {
		return ErrNotBorrowed
	}
	b.Available = true
	return nil
}

func (b Book) String() string {
	return fmt.Sprintf("Book ID: %d, Title: %s, Author: %s, Available: %t", b.ID, b.Title, b.Author, b.Available)
}

// User represents a registered patron. Users live only as long as the process.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (u User) String() string {
	return fmt.Sprintf("User ID: %d, Name: %s", u.ID, u.Name)
}
