// Package journal appends one JSON line per committed board mutation to a
// size-rotated file, so games can be replayed or audited after the fact.
package journal

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/mines"
)

type Journal struct {
	log *logrus.Logger
}

func New(cfg *config.Journal) (*Journal, error) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.InfoLevel)

	if cfg != nil && cfg.Filename != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Level:      logrus.InfoLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, err
		}
		log.AddHook(hook)
	}

	return &Journal{log: log}, nil
}

// NewWithLogger writes events to an existing logger.
func NewWithLogger(log *logrus.Logger) *Journal {
	return &Journal{log: log}
}

func (j *Journal) board(boardId int64, b *mines.Board) *logrus.Entry {
	return j.log.WithFields(logrus.Fields{
		"board_id": boardId,
		"size":     b.Size,
		"level":    int(b.Level),
		"state":    b.State().String(),
	})
}

func (j *Journal) BoardCreated(boardId int64, playerId *int64, b *mines.Board) {
	e := j.board(boardId, b).WithField("mine_count", b.MineCount)
	if playerId != nil {
		e = e.WithField("player_id", *playerId)
	}
	e.Info("board created")
}

func (j *Journal) CellFlagged(boardId int64, b *mines.Board, c mines.Cell) {
	j.board(boardId, b).WithFields(logrus.Fields{
		"x":       c.X,
		"y":       c.Y,
		"flagged": c.Flagged,
	}).Info("cell flagged")
	j.gameOver(boardId, b)
}

func (j *Journal) CellsRevealed(boardId int64, b *mines.Board, x, y int, cells []mines.Cell) {
	j.board(boardId, b).WithFields(logrus.Fields{
		"x":        x,
		"y":        y,
		"revealed": len(cells),
	}).Info("cells revealed")
	j.gameOver(boardId, b)
}

func (j *Journal) gameOver(boardId int64, b *mines.Board) {
	switch b.State() {
	case mines.Won:
		j.board(boardId, b).Info("game won")
	case mines.Lost:
		j.board(boardId, b).Warn("game lost")
	}
}
