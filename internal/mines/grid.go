package mines

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

type Content int8

const (
	Unset Content = -2 // allocated, not generated yet
	Mine  Content = -1
	// 0-8 for a safe cell with the given number of mined neighbours
)

func (c Content) IsMine() bool {
	return c == Mine
}

func (c Content) String() string {
	switch {
	case c == Mine:
		return "*"
	case 0 <= c && c <= 8:
		return strconv.Itoa(int(c))
	default:
		return "?"
	}
}

type Cell struct {
	X, Y     int
	Content  Content
	Revealed bool
	Flagged  bool
}

func (c Cell) String() string {
	switch {
	case c.Flagged:
		return "F"
	case !c.Revealed:
		return "-"
	case c.Content == 0:
		return "."
	default:
		return c.Content.String()
	}
}

// newGrid allocates size*size hidden cells in row-major order.
func newGrid(size int) []Cell {
	cells := make([]Cell, size*size)
	for y := range size {
		for x := range size {
			cells[y*size+x] = Cell{X: x, Y: y, Content: Unset}
		}
	}
	return cells
}

func (b *Board) InBounds(x, y int) bool {
	return 0 <= x && x < b.Size && 0 <= y && y < b.Size
}

func (b *Board) index(x, y int) int {
	return y*b.Size + x
}

// At returns the cell at x:y or nil when the point is off the board.
func (b *Board) At(x, y int) *Cell {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.Cells[b.index(x, y)]
}

// Neighbors yields the cells around x:y, clipped to the board edges.
func (b *Board) Neighbors(x, y int) iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if c := b.At(x+dx, y+dy); c != nil {
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// String renders the board as the player sees it, one row per line.
func (b *Board) String() string {
	var s strings.Builder
	for y := range b.Size {
		for x := range b.Size {
			fmt.Fprint(&s, b.Cells[b.index(x, y)].String()+" ")
		}
		fmt.Fprint(&s, "\n")
	}
	return s.String()
}

// Layout renders the real contents of every cell regardless of state.
func (b *Board) Layout() string {
	var s strings.Builder
	for y := range b.Size {
		for x := range b.Size {
			fmt.Fprint(&s, b.Cells[b.index(x, y)].Content.String()+" ")
		}
		fmt.Fprint(&s, "\n")
	}
	return s.String()
}
