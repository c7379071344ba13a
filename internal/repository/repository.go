// Package repository persists boards and players. Each board row carries the
// whole board serialized as one blob, so every mutation is committed as a
// single write.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type Board struct {
	BoardId   int64      `db:"board_id"`
	PlayerId  *int64     `db:"player_id"`
	Size      int        `db:"size"`
	Level     int        `db:"level"`
	MineCount int        `db:"mine_count"`
	Completed bool       `db:"completed"`
	Success   *bool      `db:"success"`
	State     []byte     `db:"state"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

func (b Board) Decode() (*mines.Board, error) {
	return mines.DecodeBoard(b.State)
}

// Record is a won board with the time it took to win it.
type Record struct {
	BoardId    int64   `json:"board_id" db:"board_id"`
	Username   *string `json:"username" db:"username"`
	Size       int     `json:"size" db:"size"`
	Level      int     `json:"level" db:"level"`
	MineCount  int     `json:"mine_count" db:"mine_count"`
	PlaytimeMs float64 `json:"playtime_ms" db:"playtime_ms"`
}

type RecordFilter struct {
	Username *string
	Level    *mines.Level
	Limit    int
}

// MutateFunc changes a board in place. Returning an error discards the
// change.
type MutateFunc func(b *mines.Board) error

type Store interface {
	CreateBoard(ctx context.Context, playerId *int64, b *mines.Board) (*Board, error)
	FetchBoard(ctx context.Context, boardId int64) (*Board, error)
	// MutateBoard loads the board under an exclusive lock, applies fn and
	// stores the result. Concurrent mutations of the same board run one
	// after another.
	MutateBoard(ctx context.Context, boardId int64, fn MutateFunc) (*Board, *mines.Board, error)
	ListBoards(ctx context.Context, limit int) ([]Board, error)
	Records(ctx context.Context, filter RecordFilter) ([]Record, error)
	CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error)
	FetchPlayer(ctx context.Context, username string) (*Player, error)
}

// boardRow holds the columns written after a board changes.
type boardRow struct {
	completed bool
	success   *bool
	state     []byte
	endedAt   *time.Time
}

func newBoardRow(b *mines.Board, endedAt *time.Time) (*boardRow, error) {
	state, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	if b.Completed && endedAt == nil {
		now := time.Now().UTC()
		endedAt = &now
	}
	return &boardRow{
		completed: b.Completed,
		success:   b.Outcome(),
		state:     state,
		endedAt:   endedAt,
	}, nil
}

func defaultLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 100
	}
	return limit
}
