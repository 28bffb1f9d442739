package menu

import (
	"strconv"
	"strings"
)

// Command is one entry of the main menu.
type Command int

const (
	CommandAddBook Command = iota + 1
	CommandViewBooks
	CommandSearchBook
	CommandBorrowBook
	CommandReturnBook
	CommandAddUser
	CommandExit
)

var commandNames = map[Command]string{
	CommandAddBook:    "add book",
	CommandViewBooks:  "view books",
	CommandSearchBook: "search book",
	CommandBorrowBook: "borrow book",
	CommandReturnBook: "return book",
	CommandAddUser:    "add user",
	CommandExit:       "exit",
}

// commands lists the menu in display order.
var commands = []Command{
	CommandAddBook,
	CommandViewBooks,
	CommandSearchBook,
	CommandBorrowBook,
	CommandReturnBook,
	CommandAddUser,
	CommandExit,
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCommand accepts either the menu number or the command name.
func ParseCommand(s string) (Command, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		c := Command(n)
		_, ok := commandNames[c]
		return c, ok
	}
	for c, name := range commandNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}
