package mines

// revealArea opens the cell at i and, while it keeps landing on cells with
// no mined neighbours, every hidden unflagged cell around them. It returns
// copies of the cells that went from hidden to revealed.
func (b *Board) revealArea(i int) ([]Cell, error) {
	start := &b.Cells[i]
	if start.Revealed {
		return nil, ErrAlreadyRevealed
	}
	if start.Flagged {
		return nil, ErrCannotRevealFlagged
	}

	var revealed []Cell
	todo := newCellTodo(len(b.Cells))
	todo.add(i)

	for {
		j, ok := todo.pop()
		if !ok {
			break
		}
		c := &b.Cells[j]
		if c.Revealed || c.Flagged {
			continue
		}
		c.Revealed = true
		revealed = append(revealed, *c)

		if c.Content != 0 {
			continue
		}
		for nb := range b.Neighbors(c.X, c.Y) {
			if !nb.Revealed && !nb.Flagged {
				todo.add(b.index(nb.X, nb.Y))
			}
		}
	}

	return revealed, nil
}
