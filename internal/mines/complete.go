package mines

// CheckCompletion declares the game won once every mine is flagged and every
// safe cell is revealed. It reports whether this call ended the game.
//
// Flags on safe cells are not inspected, but a flagged safe cell can never be
// revealed, so it still keeps the board from being won until it is unflagged.
func (b *Board) CheckCompletion() bool {
	if b.Completed {
		return false
	}

	var flaggedMines, revealedSafe, safe int
	for _, c := range b.Cells {
		if c.Content == Mine {
			if c.Flagged {
				flaggedMines++
			}
			continue
		}
		safe++
		if c.Revealed {
			revealedSafe++
		}
	}

	if flaggedMines == b.MineCount && revealedSafe == safe {
		b.complete(true)
		return true
	}
	return false
}

func (b *Board) complete(outcome bool) {
	b.Completed = true
	b.Success = outcome
}
