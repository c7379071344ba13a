package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func pgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}

func (q Postgres) CreateBoard(
	ctx context.Context, playerId *int64, b *mines.Board,
) (*Board, error) {
	row, err := newBoardRow(b, nil)
	if err != nil {
		return nil, err
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO board (
			player_id, size, level, mine_count, completed, success, state, ended_at
		)
		VALUES (
			@player_id, @size, @level, @mine_count, @completed, @success, @state, @ended_at
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"player_id":  playerId,
			"size":       b.Size,
			"level":      int(b.Level),
			"mine_count": b.MineCount,
			"completed":  row.completed,
			"success":    row.success,
			"state":      row.state,
			"ended_at":   row.endedAt,
		},
	)
	board, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Board])
	return board, pgError(err)
}

func (q Postgres) FetchBoard(ctx context.Context, boardId int64) (*Board, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM board WHERE board_id = $1", boardId,
	)
	board, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Board])
	return board, pgError(err)
}

func (q Postgres) MutateBoard(
	ctx context.Context, boardId int64, fn MutateFunc,
) (record *Board, game *mines.Board, err error) {
	err = pgx.BeginFunc(ctx, q.db, func(tx pgx.Tx) error {
		rows, _ := tx.Query(
			ctx, "SELECT * FROM board WHERE board_id = $1 FOR UPDATE", boardId,
		)
		locked, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Board])
		if err != nil {
			return pgError(err)
		}

		game, err = locked.Decode()
		if err != nil {
			return fmt.Errorf("board %d has invalid state: %w", boardId, err)
		}
		if err := fn(game); err != nil {
			return err
		}

		row, err := newBoardRow(game, locked.EndedAt)
		if err != nil {
			return err
		}

		rows, _ = tx.Query(
			ctx,
			`UPDATE board
			SET completed = @completed,
				success = @success,
				state = @state,
				ended_at = @ended_at,
				updated_at = now()
			WHERE board_id = @board_id
			RETURNING *;`,
			pgx.NamedArgs{
				"board_id":  boardId,
				"completed": row.completed,
				"success":   row.success,
				"state":     row.state,
				"ended_at":  row.endedAt,
			},
		)
		record, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Board])
		return pgError(err)
	})
	if err != nil {
		return nil, nil, err
	}
	return record, game, nil
}

func (q Postgres) ListBoards(ctx context.Context, limit int) ([]Board, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM board ORDER BY board_id DESC LIMIT $1",
		defaultLimit(limit),
	)
	boards, err := pgx.CollectRows(rows, pgx.RowToStructByName[Board])
	return boards, pgError(err)
}

func (f RecordFilter) whereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{"limit": defaultLimit(f.Limit)}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Level != nil {
		clauses = append(clauses, "level = @level")
		args["level"] = int(*f.Level)
	}
	return strings.Join(clauses, " AND "), args
}

func (q Postgres) Records(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `
	SELECT
		board_id,
		username,
		size,
		level,
		mine_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from board.created_at)
		)::float8 * 1000 playtime_ms
	FROM board
		LEFT OUTER JOIN player USING (player_id)
	WHERE
		completed = true
		AND success = true
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.whereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms LIMIT @limit;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}

func (q Postgres) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	rows, _ := q.db.Query(
		ctx,
		"INSERT INTO player (username, password_hash) VALUES ($1, $2) RETURNING *",
		params.Username,
		params.PasswordHash,
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	return player, pgError(err)
}

func (q Postgres) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM player WHERE username = $1", username,
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	return player, pgError(err)
}
