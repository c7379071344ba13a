package handlers

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/journal"
	"github.com/vancomm/minesweeper-board/internal/middleware"
	"github.com/vancomm/minesweeper-board/internal/mines"
	"github.com/vancomm/minesweeper-board/internal/repository"
)

type BoardHandler struct {
	logger  *slog.Logger
	store   repository.Store
	journal *journal.Journal
	ws      *config.WebSocket
	newRand func() *rand.Rand
}

// NewBoardHandler builds the board endpoints. newRand is called once per
// generated board.
func NewBoardHandler(
	logger *slog.Logger,
	store repository.Store,
	j *journal.Journal,
	ws *config.WebSocket,
	newRand func() *rand.Rand,
) *BoardHandler {
	handler := &BoardHandler{
		logger:  logger,
		store:   store,
		journal: j,
		ws:      ws,
		newRand: newRand,
	}

	return handler
}

func parseBoardId(r *http.Request) (int64, error) {
	boardId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, ErrBadBoardId
	}
	return boardId, nil
}

func playerId(ctx context.Context) *int64 {
	if claims, ok := middleware.PlayerClaims(ctx); ok {
		return &claims.PlayerId
	}
	return nil
}

// authorize rejects requests on a player's board from anyone but that
// player. Anonymous boards are open to everyone.
func authorize(ctx context.Context, record *repository.Board) error {
	if record.PlayerId == nil {
		return nil
	}
	if id := playerId(ctx); id == nil || *id != *record.PlayerId {
		return ErrNotOwner
	}
	return nil
}

func (h BoardHandler) load(ctx context.Context, boardId int64) (*repository.Board, *mines.Board, error) {
	record, err := h.store.FetchBoard(ctx, boardId)
	if err != nil {
		return nil, nil, err
	}
	b, err := record.Decode()
	if err != nil {
		return nil, nil, err
	}
	return record, b, nil
}

func (h BoardHandler) create(ctx context.Context, level mines.Level, size int) (*repository.Board, *mines.Board, error) {
	b, err := mines.NewBoard(level, size, h.newRand())
	if err != nil {
		return nil, nil, err
	}
	owner := playerId(ctx)
	record, err := h.store.CreateBoard(ctx, owner, b)
	if err != nil {
		return nil, nil, err
	}
	h.journal.BoardCreated(record.BoardId, owner, b)
	return record, b, nil
}

func (h BoardHandler) flag(ctx context.Context, boardId int64, x, y int) (*repository.Board, *mines.Board, []mines.Cell, error) {
	var cell mines.Cell
	record, b, err := h.store.MutateBoard(ctx, boardId, func(b *mines.Board) (err error) {
		cell, err = b.Flag(x, y)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}
	h.journal.CellFlagged(boardId, b, cell)
	return record, b, []mines.Cell{cell}, nil
}

func (h BoardHandler) reveal(ctx context.Context, boardId int64, x, y int) (*repository.Board, *mines.Board, []mines.Cell, error) {
	var cells []mines.Cell
	record, b, err := h.store.MutateBoard(ctx, boardId, func(b *mines.Board) (err error) {
		cells, err = b.Reveal(x, y)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}
	h.journal.CellsRevealed(boardId, b, x, y, cells)
	return record, b, cells, nil
}

func (h BoardHandler) NewBoard(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateBoardDTO(r.URL.Query())
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	level, err := mines.ParseLevel(dto.Level)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}

	record, b, err := h.create(r.Context(), level, dto.Size)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}

	h.logger.Debug(
		"created board",
		slog.Int64("boardId", record.BoardId),
		slog.Int("size", b.Size),
		slog.Int("mineCount", b.MineCount),
	)
	sendStatusJSONOrLog(w, h.logger, http.StatusCreated, NewBoardDTO(record, b))
}

func (h BoardHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	boardId, err := parseBoardId(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	record, b, err := h.load(r.Context(), boardId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}

	sendJSONOrLog(w, h.logger, NewBoardDTO(record, b))
}

func (h BoardHandler) Status(w http.ResponseWriter, r *http.Request) {
	boardId, err := parseBoardId(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	record, b, err := h.load(r.Context(), boardId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}

	sendJSONOrLog(w, h.logger, NewStatusDTO(record, b))
}

func (h BoardHandler) Cell(w http.ResponseWriter, r *http.Request) {
	boardId, err := parseBoardId(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	p, err := decodePoint(r.URL.Query())
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	_, b, err := h.load(r.Context(), boardId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}

	c := b.At(p.X, p.Y)
	if c == nil {
		sendError(w, h.logger, mines.ErrOutOfBounds)
		return
	}

	sendJSONOrLog(w, h.logger, NewCellDTO(b.View(*c)))
}

type moveFunc func(ctx context.Context, boardId int64, x, y int) (*repository.Board, *mines.Board, []mines.Cell, error)

func (h BoardHandler) move(w http.ResponseWriter, r *http.Request, fn moveFunc) {
	boardId, err := parseBoardId(r)
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	p, err := decodePoint(r.URL.Query())
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	owner, err := h.store.FetchBoard(r.Context(), boardId)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	if err := authorize(r.Context(), owner); err != nil {
		sendError(w, h.logger, err)
		return
	}

	record, b, cells, err := fn(r.Context(), boardId, p.X, p.Y)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}

	sendJSONOrLog(w, h.logger, MoveDTO{
		Board:        NewBoardDTO(record, b),
		UpdatedCells: newCellDTOs(b, cells),
	})
}

func (h BoardHandler) Flag(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.flag)
}

func (h BoardHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.reveal)
}

func (h BoardHandler) Records(w http.ResponseWriter, r *http.Request) {
	var dto RecordFilterDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		badRequest(w, h.logger, err)
		return
	}

	filter, err := dto.Filter()
	if err != nil {
		sendError(w, h.logger, err)
		return
	}

	records, err := h.store.Records(r.Context(), filter)
	if err != nil {
		sendError(w, h.logger, err)
		return
	}
	if records == nil {
		records = []repository.Record{}
	}

	sendJSONOrLog(w, h.logger, records)
}
