package mines

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
)

var Log *slog.Logger = slog.Default()

// NewBoard builds a fully populated board for the level. size is only used
// for the Custom level. Mines are drawn from r without replacement, so the
// same seed always yields the same layout.
func NewBoard(level Level, size int, r *rand.Rand) (*Board, error) {
	size, err := level.BoardSize(size)
	if err != nil {
		return nil, err
	}

	mineCount := MineCountFor(size)
	if mineCount > size*size {
		return nil, invalidLevel(fmt.Sprintf(
			"%d mines do not fit on a %dx%d board", mineCount, size, size,
		))
	}

	b := &Board{
		Size:      size,
		Level:     level,
		MineCount: mineCount,
		Cells:     newGrid(size),
	}
	b.placeMines(r)
	b.countAdjacentMines()

	Log.Debug("generated board",
		slog.Int("size", size),
		slog.Int("mines", mineCount),
		slog.String("level", level.String()),
	)

	return b, nil
}

func (b *Board) placeMines(r *rand.Rand) {
	/*
	 * Write down the list of possible mine locations, then pick
	 * MineCount of them off the list at random, swapping each pick
	 * with the tail so no location is drawn twice.
	 */
	candidates := make([]int, len(b.Cells))
	for i := range candidates {
		candidates[i] = i
	}

	k := len(candidates)
	for range b.MineCount {
		i := r.IntN(k)
		b.Cells[candidates[i]].Content = Mine
		k--
		candidates[i] = candidates[k]
	}
}

func (b *Board) countAdjacentMines() {
	for i := range b.Cells {
		c := &b.Cells[i]
		if c.Content == Mine {
			continue
		}
		var n Content
		for nb := range b.Neighbors(c.X, c.Y) {
			if nb.Content == Mine {
				n++
			}
		}
		c.Content = n
	}
}
