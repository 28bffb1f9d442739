// Package menu implements the interactive text menu that drives a Library.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"library-inventory/library"
)

// Console reads commands from in and reports outcomes to out. Menus and
// prompts are only printed when interactive is set.
type Console struct {
	lib         *library.Library
	in          *bufio.Reader
	readErr     error
	out         io.Writer
	interactive bool
}

// NewConsole returns a Console bound to lib.
func NewConsole(lib *library.Library, in io.Reader, out io.Writer, interactive bool) *Console {
	return &Console{
		lib:         lib,
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Run processes commands until exit or end of input.
func (c *Console) Run() error {
	for {
		c.printMenu()
		line, ok := c.readLine("Choose an option: ")
		if !ok {
			return c.readErr
		}

		cmd, ok := ParseCommand(line)
		if !ok {
			c.println("Invalid choice. Try again.")
			continue
		}

		switch cmd {
		case CommandAddBook:
			c.handleAddBook()
		case CommandViewBooks:
			c.handleViewBooks()
		case CommandSearchBook:
			c.handleSearchBook()
		case CommandBorrowBook:
			c.handleBorrowBook()
		case CommandReturnBook:
			c.handleReturnBook()
		case CommandAddUser:
			c.handleAddUser()
		case CommandExit:
			c.println("Exiting...")
			return nil
		}
	}
}

func (c *Console) printMenu() {
	if !c.interactive {
		return
	}
	c.println("\nLibrary Management System")
	for _, cmd := range commands {
		fmt.Fprintf(c.out, "%d. %s\n", int(cmd), titleCase(cmd.String()))
	}
}

func (c *Console) handleAddBook() {
	id, ok := c.readID("Enter book ID: ", "book")
	if !ok {
		return
	}
	title, ok := c.readLine("Enter book title: ")
	if !ok {
		return
	}
	author, ok := c.readLine("Enter book author: ")
	if !ok {
		return
	}

	err := c.lib.AddBook(id, title, author)
	c.println("Book added successfully!")
	c.reportSaveError(err)
}

func (c *Console) handleViewBooks() {
	books := c.lib.DisplayBooks()
	if len(books) == 0 {
		c.println("No books in library.")
		return
	}
	for _, b := range books {
		c.println(b.String())
	}
}

func (c *Console) handleSearchBook() {
	title, ok := c.readLine("Enter book title: ")
	if !ok {
		return
	}
	if b, found := c.lib.SearchBook(title); found {
		c.println(b.String())
		return
	}
	c.println("Book not found!")
}

func (c *Console) handleBorrowBook() {
	bookID, ok := c.readID("Enter book ID: ", "book")
	if !ok {
		return
	}
	userID, ok := c.readLine("Enter user ID: ")
	if !ok {
		return
	}

	err := c.lib.BorrowBook(bookID, userID)
	if errors.Is(err, library.ErrNotAvailable) {
		c.println("Book is not available or invalid book ID.")
		return
	}
	fmt.Fprintf(c.out, "Book borrowed successfully by user: %s\n", userID)
	c.reportSaveError(err)
}

func (c *Console) handleReturnBook() {
	bookID, ok := c.readID("Enter book ID: ", "book")
	if !ok {
		return
	}

	err := c.lib.ReturnBook(bookID)
	if errors.Is(err, library.ErrNotBorrowed) {
		c.println("Invalid book ID or book is not borrowed.")
		return
	}
	c.println("Book returned successfully!")
	c.reportSaveError(err)
}

func (c *Console) handleAddUser() {
	userID, ok := c.readID("Enter user ID: ", "user")
	if !ok {
		return
	}
	name, ok := c.readLine("Enter user name: ")
	if !ok {
		return
	}

	c.lib.AddUser(userID, name)
	c.println("User added successfully!")
}

// reportSaveError tells the user the catalog could not be written. The
// in-memory change has already been applied.
func (c *Console) reportSaveError(err error) {
	if err != nil {
		c.println("Error saving book data.")
	}
}

// readLine returns the next input line without its line terminator. Text is
// otherwise passed through untouched, whatever its length.
func (c *Console) readLine(prompt string) (string, bool) {
	if c.interactive {
		fmt.Fprint(c.out, prompt)
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			c.readErr = err
		}
		if line == "" {
			return "", false
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), true
}

// readID reads an integer id. Malformed input is reported and the command is
// abandoned.
func (c *Console) readID(prompt, kind string) (int64, bool) {
	s, ok := c.readLine(prompt)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid %s ID: %s\n", kind, s)
		return 0, false
	}
	return id, true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
