package mines

import "fmt"

type ErrorKind uint8

const (
	InvalidLevel ErrorKind = iota + 1
	OutOfBounds
	AlreadyRevealed
	CannotRevealFlagged
	CannotFlagRevealed
	GameAlreadyOver
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidLevel:
		return "invalid_level"
	case OutOfBounds:
		return "out_of_bounds"
	case AlreadyRevealed:
		return "already_revealed"
	case CannotRevealFlagged:
		return "cannot_reveal_flagged"
	case CannotFlagRevealed:
		return "cannot_flag_revealed"
	case GameAlreadyOver:
		return "game_already_over"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// GameError is a rejected operation. The board is left untouched whenever a
// GameError is returned.
type GameError struct {
	Kind    ErrorKind
	message string
}

// [*GameError] implements [error]
func (e *GameError) Error() string {
	return e.message
}

// Is matches any GameError of the same kind, so callers can compare against
// the Err* values with errors.Is.
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidLevel        = &GameError{InvalidLevel, "invalid level"}
	ErrOutOfBounds         = &GameError{OutOfBounds, "cell is out of bounds"}
	ErrAlreadyRevealed     = &GameError{AlreadyRevealed, "cell is already revealed"}
	ErrCannotRevealFlagged = &GameError{CannotRevealFlagged, "cannot reveal a flagged cell"}
	ErrCannotFlagRevealed  = &GameError{CannotFlagRevealed, "cannot flag a revealed cell"}
	ErrGameAlreadyOver     = &GameError{GameAlreadyOver, "game is already over"}
)

func invalidLevel(message string) *GameError {
	return &GameError{InvalidLevel, message}
}

func outOfBounds(x, y, size int) *GameError {
	return &GameError{
		OutOfBounds,
		fmt.Sprintf("cell %d:%d is outside of the %dx%d board", x, y, size, size),
	}
}
