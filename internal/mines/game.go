package mines

import (
	"bytes"
	"encoding/gob"
)

// Board is a square minesweeper board together with its game state. Cells
// are stored row-major and only change through Flag and Reveal.
type Board struct {
	Size      int
	Level     Level
	MineCount int
	Completed bool
	Success   bool // meaningful only once Completed
	Cells     []Cell
}

// Outcome is nil while the game is in progress, true once won and false
// once lost.
func (b *Board) Outcome() *bool {
	if !b.Completed {
		return nil
	}
	outcome := b.Success
	return &outcome
}

type GameState uint8

const (
	InProgress GameState = iota
	Won
	Lost
)

func (s GameState) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "in_progress"
	}
}

func (b *Board) State() GameState {
	switch {
	case !b.Completed:
		return InProgress
	case b.Success:
		return Won
	default:
		return Lost
	}
}

func DecodeBoard(buf []byte) (*Board, error) {
	var b Board
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(b)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Board) target(x, y int) (*Cell, error) {
	if b.Completed {
		return nil, ErrGameAlreadyOver
	}
	c := b.At(x, y)
	if c == nil {
		return nil, outOfBounds(x, y, b.Size)
	}
	return c, nil
}

// Flag toggles the flag on a hidden cell and returns the updated cell.
func (b *Board) Flag(x, y int) (Cell, error) {
	c, err := b.target(x, y)
	if err != nil {
		return Cell{}, err
	}
	if c.Revealed {
		return Cell{}, ErrCannotFlagRevealed
	}

	c.Flagged = !c.Flagged
	b.CheckCompletion()

	return *c, nil
}

// Reveal opens a hidden cell. Opening a mine loses the game; opening a cell
// with no mined neighbours opens the whole connected empty area. The result
// holds every cell that became revealed, in no particular order.
func (b *Board) Reveal(x, y int) ([]Cell, error) {
	c, err := b.target(x, y)
	if err != nil {
		return nil, err
	}
	if c.Flagged {
		return nil, ErrCannotRevealFlagged
	}
	if c.Revealed {
		return nil, ErrAlreadyRevealed
	}

	var revealed []Cell
	switch {
	case c.Content == Mine:
		c.Revealed = true
		b.complete(false)
		revealed = []Cell{*c}
	case c.Content == 0:
		revealed, err = b.revealArea(b.index(x, y))
		if err != nil {
			return nil, err
		}
	default:
		c.Revealed = true
		revealed = []Cell{*c}
	}

	/* If the player has already lost, don't let them win as well. */
	b.CheckCompletion()

	return revealed, nil
}
