package mines

type Summary struct {
	Size      int
	Level     Level
	MineCount int
	Completed bool
	Outcome   *bool
	State     GameState
}

// CellView is a cell as the player may see it: Content stays nil until the
// cell is revealed or the game is over.
type CellView struct {
	X, Y     int
	Content  *Content
	Revealed bool
	Flagged  bool
}

type Status struct {
	Board Summary
	Cells []CellView
}

func (b *Board) Summary() Summary {
	return Summary{
		Size:      b.Size,
		Level:     b.Level,
		MineCount: b.MineCount,
		Completed: b.Completed,
		Outcome:   b.Outcome(),
		State:     b.State(),
	}
}

func (b *Board) View(c Cell) CellView {
	v := CellView{X: c.X, Y: c.Y, Revealed: c.Revealed, Flagged: c.Flagged}
	if c.Revealed || b.Completed {
		content := c.Content
		v.Content = &content
	}
	return v
}

// Status is a read-only projection of the whole board.
func (b *Board) Status() Status {
	cells := make([]CellView, len(b.Cells))
	for i, c := range b.Cells {
		cells[i] = b.View(c)
	}
	return Status{Board: b.Summary(), Cells: cells}
}
