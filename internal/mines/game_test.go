package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boardWithMines lays out a size x size board with mines at the given points.
func boardWithMines(size int, mines ...[2]int) *Board {
	b := &Board{
		Size:      size,
		Level:     Custom,
		MineCount: len(mines),
		Cells:     newGrid(size),
	}
	for _, m := range mines {
		b.At(m[0], m[1]).Content = Mine
	}
	b.countAdjacentMines()
	return b
}

func countCells(b *Board, pred func(Cell) bool) int {
	n := 0
	for _, c := range b.Cells {
		if pred(c) {
			n++
		}
	}
	return n
}

func TestNineBoardMineCount(t *testing.T) {
	b, err := NewBoard(Nine, 0, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	assert.Equal(t, 10, countCells(b, func(c Cell) bool { return c.Content == Mine }))
	assert.Equal(t, 71, countCells(b, func(c Cell) bool { return c.Content != Mine }))
}

func TestCornerFloodFill(t *testing.T) {
	b := boardWithMines(9, [2]int{8, 8})
	require.Equal(t, Content(0), b.At(0, 0).Content)

	revealed, err := b.Reveal(0, 0)
	require.NoError(t, err)

	assert.Len(t, revealed, 80)
	assert.False(t, b.At(8, 8).Revealed)
	assert.False(t, b.Completed, "mine is not flagged yet")

	_, err = b.Flag(8, 8)
	require.NoError(t, err)
	assert.Equal(t, Won, b.State())
}

func TestMineEndsGame(t *testing.T) {
	b := boardWithMines(9, [2]int{4, 4}, [2]int{0, 8})

	revealed, err := b.Reveal(4, 4)
	require.NoError(t, err)
	require.Len(t, revealed, 1)
	assert.Equal(t, Mine, revealed[0].Content)
	assert.True(t, revealed[0].Revealed)

	assert.True(t, b.Completed)
	require.NotNil(t, b.Outcome())
	assert.False(t, *b.Outcome())
	assert.Equal(t, Lost, b.State())

	_, err = b.Reveal(0, 0)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	_, err = b.Flag(0, 8)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	_, err = b.Reveal(4, 4)
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
}

func TestWinAfterAllFlagsAndReveals(t *testing.T) {
	b, err := NewBoard(Nine, 0, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	for _, c := range b.Cells {
		if c.Content == Mine {
			_, err := b.Flag(c.X, c.Y)
			require.NoError(t, err)
		}
	}
	require.False(t, b.Completed)

	for i := range b.Cells {
		c := b.Cells[i]
		if c.Content == Mine || c.Revealed {
			continue
		}
		_, err := b.Reveal(c.X, c.Y)
		require.NoError(t, err)
	}

	assert.True(t, b.Completed)
	require.NotNil(t, b.Outcome())
	assert.True(t, *b.Outcome())
	assert.False(t, b.CheckCompletion(), "completion is reported once")
}

func TestWinOnFinalFlag(t *testing.T) {
	b := boardWithMines(3, [2]int{0, 0})
	for _, p := range [][2]int{{1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}, {0, 2}, {1, 2}, {2, 2}} {
		if b.At(p[0], p[1]).Revealed {
			continue
		}
		_, err := b.Reveal(p[0], p[1])
		require.NoError(t, err)
	}
	require.False(t, b.Completed)

	cell, err := b.Flag(0, 0)
	require.NoError(t, err)
	assert.True(t, cell.Flagged)
	assert.Equal(t, Won, b.State())
}

func TestFlagToggle(t *testing.T) {
	b := boardWithMines(4, [2]int{3, 3})

	cell, err := b.Flag(1, 1)
	require.NoError(t, err)
	assert.True(t, cell.Flagged)
	assert.True(t, b.At(1, 1).Flagged)

	cell, err = b.Flag(1, 1)
	require.NoError(t, err)
	assert.False(t, cell.Flagged)
	assert.False(t, b.At(1, 1).Flagged)
}

func TestFlagRevealMutualExclusion(t *testing.T) {
	b := boardWithMines(4, [2]int{3, 3}, [2]int{0, 3})

	_, err := b.Flag(2, 2)
	require.NoError(t, err)
	before, err := b.Bytes()
	require.NoError(t, err)

	_, err = b.Reveal(2, 2)
	assert.ErrorIs(t, err, ErrCannotRevealFlagged)

	after, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, before, after, "rejected reveal must not change the board")

	_, err = b.Flag(2, 2)
	require.NoError(t, err)
	_, err = b.Reveal(2, 2)
	require.NoError(t, err)

	_, err = b.Flag(2, 2)
	assert.ErrorIs(t, err, ErrCannotFlagRevealed)
	assert.False(t, b.At(2, 2).Flagged)
}

func TestRevealTwice(t *testing.T) {
	b := boardWithMines(5, [2]int{4, 4})

	_, err := b.Reveal(3, 3)
	require.NoError(t, err)
	before, err := b.Bytes()
	require.NoError(t, err)

	for range 3 {
		revealed, err := b.Reveal(3, 3)
		assert.ErrorIs(t, err, ErrAlreadyRevealed)
		assert.Empty(t, revealed)
	}

	after, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOutOfBounds(t *testing.T) {
	b := boardWithMines(3)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, err := b.Reveal(p[0], p[1])
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = b.Flag(p[0], p[1])
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
}

func TestFlaggedSafeCellBlocksWin(t *testing.T) {
	b := boardWithMines(3, [2]int{0, 0})

	_, err := b.Flag(0, 0)
	require.NoError(t, err)
	_, err = b.Flag(2, 2)
	require.NoError(t, err)

	for _, c := range b.Cells {
		if c.Content == Mine || c.Flagged || b.At(c.X, c.Y).Revealed {
			continue
		}
		_, err := b.Reveal(c.X, c.Y)
		require.NoError(t, err)
	}
	assert.False(t, b.Completed, "flagged safe cell is still hidden")

	_, err = b.Flag(2, 2)
	require.NoError(t, err)
	assert.False(t, b.Completed, "unflagging does not reveal")

	_, err = b.Reveal(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Won, b.State())
}

func TestStatusMasksHiddenCells(t *testing.T) {
	b := boardWithMines(3, [2]int{2, 2})

	_, err := b.Reveal(0, 0)
	require.NoError(t, err)

	status := b.Status()
	assert.Equal(t, 3, status.Board.Size)
	assert.Equal(t, 1, status.Board.MineCount)
	assert.Nil(t, status.Board.Outcome)
	assert.Equal(t, InProgress, status.Board.State)
	require.Len(t, status.Cells, 9)

	for _, v := range status.Cells {
		if v.X == 2 && v.Y == 2 {
			assert.False(t, v.Revealed)
			assert.Nil(t, v.Content, "mine must stay hidden")
			continue
		}
		require.NotNil(t, v.Content)
		assert.True(t, v.Revealed)
	}

	_, err = b.Reveal(2, 2)
	require.NoError(t, err)
	for _, v := range b.Status().Cells {
		assert.NotNil(t, v.Content, "everything is shown after the game ends")
	}
}

func TestBytesRoundTripKeepsOutcome(t *testing.T) {
	b := boardWithMines(4, [2]int{1, 1})
	_, err := b.Reveal(1, 1)
	require.NoError(t, err)

	buf, err := b.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeBoard(buf)
	require.NoError(t, err)

	assert.Equal(t, b, decoded)
	assert.Equal(t, Lost, decoded.State())
}
