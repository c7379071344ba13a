package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

// SQLite is a single-file store for local play. All access goes through one
// connection, which serializes board mutations.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path, creating parent
// directories and the schema as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS player (
			player_id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS board (
			board_id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id INTEGER REFERENCES player (player_id) ON DELETE SET NULL,
			size INTEGER NOT NULL CHECK (size > 0),
			level INTEGER NOT NULL,
			mine_count INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			success INTEGER,
			state BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			ended_at INTEGER
		);
		CREATE INDEX IF NOT EXISTS board_player_id_idx ON board (player_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func sqliteError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %s", ErrConflict, sqliteErr.Error())
	}
	return err
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

const boardColumns = `board_id, player_id, size, level, mine_count, completed,
	success, state, created_at, updated_at, ended_at`

func scanBoard(row rowScanner) (*Board, error) {
	var (
		b                    Board
		playerId, endedAt    sql.NullInt64
		success              sql.NullBool
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&b.BoardId, &playerId, &b.Size, &b.Level, &b.MineCount, &b.Completed,
		&success, &b.State, &createdAt, &updatedAt, &endedAt,
	)
	if err != nil {
		return nil, err
	}
	if playerId.Valid {
		b.PlayerId = &playerId.Int64
	}
	if success.Valid {
		b.Success = &success.Bool
	}
	if endedAt.Valid {
		t := fromMillis(endedAt.Int64)
		b.EndedAt = &t
	}
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)
	return &b, nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: millis(*t), Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func (s *SQLite) CreateBoard(
	ctx context.Context, playerId *int64, b *mines.Board,
) (*Board, error) {
	row, err := newBoardRow(b, nil)
	if err != nil {
		return nil, err
	}
	now := millis(time.Now())
	board, err := scanBoard(s.db.QueryRowContext(
		ctx,
		`INSERT INTO board (
			player_id, size, level, mine_count, completed, success, state,
			created_at, updated_at, ended_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+boardColumns,
		nullInt64(playerId), b.Size, int(b.Level), b.MineCount, row.completed,
		nullBool(row.success), row.state, now, now, nullMillis(row.endedAt),
	))
	return board, sqliteError(err)
}

func (s *SQLite) FetchBoard(ctx context.Context, boardId int64) (*Board, error) {
	board, err := scanBoard(s.db.QueryRowContext(
		ctx, "SELECT "+boardColumns+" FROM board WHERE board_id = ?", boardId,
	))
	return board, sqliteError(err)
}

func (s *SQLite) MutateBoard(
	ctx context.Context, boardId int64, fn MutateFunc,
) (*Board, *mines.Board, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	locked, err := scanBoard(tx.QueryRowContext(
		ctx, "SELECT "+boardColumns+" FROM board WHERE board_id = ?", boardId,
	))
	if err != nil {
		return nil, nil, sqliteError(err)
	}

	game, err := locked.Decode()
	if err != nil {
		return nil, nil, fmt.Errorf("board %d has invalid state: %w", boardId, err)
	}
	if err := fn(game); err != nil {
		return nil, nil, err
	}

	row, err := newBoardRow(game, locked.EndedAt)
	if err != nil {
		return nil, nil, err
	}

	record, err := scanBoard(tx.QueryRowContext(
		ctx,
		`UPDATE board
		SET completed = ?, success = ?, state = ?, ended_at = ?, updated_at = ?
		WHERE board_id = ?
		RETURNING `+boardColumns,
		row.completed, nullBool(row.success), row.state, nullMillis(row.endedAt),
		millis(time.Now()), boardId,
	))
	if err != nil {
		return nil, nil, sqliteError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return record, game, nil
}

func (s *SQLite) ListBoards(ctx context.Context, limit int) ([]Board, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT "+boardColumns+" FROM board ORDER BY board_id DESC LIMIT ?",
		defaultLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *b)
	}
	return boards, rows.Err()
}

func (s *SQLite) Records(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `
	SELECT
		board_id,
		username,
		size,
		level,
		mine_count,
		CAST(ended_at - board.created_at AS REAL) playtime_ms
	FROM board
		LEFT OUTER JOIN player USING (player_id)
	WHERE
		completed = 1
		AND success = 1
		AND ended_at IS NOT NULL
	`
	args := make([]any, 0, 3)
	if filter.Username != nil {
		query += " AND username = ?"
		args = append(args, *filter.Username)
	}
	if filter.Level != nil {
		query += " AND level = ?"
		args = append(args, int(*filter.Level))
	}
	query += " ORDER BY playtime_ms LIMIT ?"
	args = append(args, defaultLimit(filter.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			r        Record
			username sql.NullString
		)
		err := rows.Scan(&r.BoardId, &username, &r.Size, &r.Level, &r.MineCount, &r.PlaytimeMs)
		if err != nil {
			return nil, err
		}
		if username.Valid {
			r.Username = &username.String
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanPlayer(row rowScanner) (*Player, error) {
	var (
		p                    Player
		createdAt, updatedAt int64
	)
	err := row.Scan(&p.PlayerId, &p.Username, &p.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

func (s *SQLite) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	now := millis(time.Now())
	player, err := scanPlayer(s.db.QueryRowContext(
		ctx,
		`INSERT INTO player (username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING player_id, username, password_hash, created_at, updated_at`,
		params.Username, params.PasswordHash, now, now,
	))
	return player, sqliteError(err)
}

func (s *SQLite) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	player, err := scanPlayer(s.db.QueryRowContext(
		ctx,
		`SELECT player_id, username, password_hash, created_at, updated_at
		FROM player WHERE username = ?`,
		username,
	))
	return player, sqliteError(err)
}
