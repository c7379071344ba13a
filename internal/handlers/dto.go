package handlers

import (
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-board/internal/mines"
	"github.com/vancomm/minesweeper-board/internal/repository"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateBoardDTO struct {
	Level string `schema:"level,required"`
	Size  int    `schema:"size"`
}

func ParseCreateBoardDTO(src map[string][]string) (CreateBoardDTO, error) {
	var dto CreateBoardDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type point struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func decodePoint(src map[string][]string) (point, error) {
	var p point
	err := decoder.Decode(&p, src)
	return p, err
}

type RecordFilterDTO struct {
	Level    string `schema:"level"`
	Username string `schema:"username"`
	Limit    int    `schema:"limit"`
}

func (dto RecordFilterDTO) Filter() (repository.RecordFilter, error) {
	filter := repository.RecordFilter{Limit: dto.Limit}
	if dto.Username != "" {
		filter.Username = &dto.Username
	}
	if dto.Level != "" {
		level, err := mines.ParseLevel(dto.Level)
		if err != nil {
			return filter, err
		}
		filter.Level = &level
	}
	return filter, nil
}

type BoardDTO struct {
	BoardId   string `json:"board_id"`
	PlayerId  *int64 `json:"player_id,omitempty"`
	Size      int    `json:"size"`
	Level     int    `json:"level"`
	MineCount int    `json:"bomb_count"`
	Completed bool   `json:"is_completed"`
	Success   *bool  `json:"success"`
	State     string `json:"state"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	EndedAt   *int64 `json:"ended_at,omitempty"`
}

func NewBoardDTO(record *repository.Board, b *mines.Board) BoardDTO {
	var endedAt *int64
	if record.EndedAt != nil {
		e := record.EndedAt.UnixMilli()
		endedAt = &e
	}
	return BoardDTO{
		BoardId:   strconv.FormatInt(record.BoardId, 10),
		PlayerId:  record.PlayerId,
		Size:      b.Size,
		Level:     int(b.Level),
		MineCount: b.MineCount,
		Completed: b.Completed,
		Success:   b.Outcome(),
		State:     b.State().String(),
		CreatedAt: record.CreatedAt.UnixMilli(),
		UpdatedAt: record.UpdatedAt.UnixMilli(),
		EndedAt:   endedAt,
	}
}

// CellDTO carries the cell content in State: -1 for a mine, 0-8 for a
// count, null while hidden.
type CellDTO struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	State    *int `json:"state"`
	Revealed bool `json:"is_revealed"`
	Flagged  bool `json:"is_flagged"`
}

func NewCellDTO(v mines.CellView) CellDTO {
	var state *int
	if v.Content != nil {
		s := int(*v.Content)
		state = &s
	}
	return CellDTO{X: v.X, Y: v.Y, State: state, Revealed: v.Revealed, Flagged: v.Flagged}
}

func newCellDTOs(b *mines.Board, cells []mines.Cell) []CellDTO {
	dtos := make([]CellDTO, len(cells))
	for i, c := range cells {
		dtos[i] = NewCellDTO(b.View(c))
	}
	return dtos
}

type StatusDTO struct {
	Board BoardDTO  `json:"board"`
	Cells []CellDTO `json:"cells"`
}

type MoveDTO struct {
	Board        BoardDTO  `json:"board"`
	UpdatedCells []CellDTO `json:"updated_cells"`
}

func NewStatusDTO(record *repository.Board, b *mines.Board) StatusDTO {
	status := b.Status()
	cells := make([]CellDTO, len(status.Cells))
	for i, v := range status.Cells {
		cells[i] = NewCellDTO(v)
	}
	return StatusDTO{Board: NewBoardDTO(record, b), Cells: cells}
}
