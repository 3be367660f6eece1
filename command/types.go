package command

import "context"

type Command string

const (
	// Undo restores the previous revision of the page.
	Undo Command = "undo"
	// Reset discards the page and its history.
	Reset Command = "reset"
	None  Command = "none"
)

func (c Command) Valid() bool {
	switch c {
	case Undo, Reset, None:
		return true
	default:
		return false
	}
}

type Parser interface {
	ParseCommand(ctx context.Context, input string) (Command, error)
}
