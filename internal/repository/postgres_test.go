package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-board/internal/database"
	"github.com/vancomm/minesweeper-board/internal/mines"
)

// setupPostgres connects to the database named by DATABASE_URL and applies
// the migrations. Tests are skipped without one.
func setupPostgres(t *testing.T) *Postgres {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL is not set")
	}
	pool, migrator, err := database.ConnectAndMigrate(context.Background())
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
		migrator.Close()
	})
	return NewPostgres(pool)
}

func TestPostgresCreateAndFetchBoard(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	game := newTestBoard(t)

	created, err := s.CreateBoard(ctx, nil, game)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	if created.BoardId == 0 || created.Completed || created.Success != nil {
		t.Fatalf("unexpected new board row: %+v", created)
	}

	fetched, err := s.FetchBoard(ctx, created.BoardId)
	if err != nil {
		t.Fatalf("failed to fetch board: %v", err)
	}
	decoded, err := fetched.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Layout() != game.Layout() {
		t.Fatalf("stored layout differs:\n%s\n%s", decoded.Layout(), game.Layout())
	}

	if _, err := s.FetchBoard(ctx, -1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestPostgresMutateBoardRejected(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	created, err := s.CreateBoard(ctx, nil, newTestBoard(t))
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = s.MutateBoard(ctx, created.BoardId, func(b *mines.Board) error {
		b.At(1, 1).Flagged = true
		return mines.ErrGameAlreadyOver
	})
	if !errors.Is(err, mines.ErrGameAlreadyOver) {
		t.Fatalf("expected the mutation error back, received %v", err)
	}

	fetched, err := s.FetchBoard(ctx, created.BoardId)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := fetched.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if decoded.At(1, 1).Flagged {
		t.Fatalf("rejected mutation was stored")
	}
}

func TestPostgresConcurrentMutations(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	created, err := s.CreateBoard(ctx, nil, newTestBoard(t))
	if err != nil {
		t.Fatal(err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	for x := range 9 {
		g.Go(func() error {
			_, _, err := s.MutateBoard(gCtx, created.BoardId, func(b *mines.Board) error {
				_, err := b.Flag(x, 8)
				return err
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	fetched, err := s.FetchBoard(ctx, created.BoardId)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := fetched.Decode()
	if err != nil {
		t.Fatal(err)
	}
	for x := range 9 {
		if !decoded.At(x, 8).Flagged {
			t.Errorf("flag on %d:8 was lost", x)
		}
	}
}

func TestPostgresRecords(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	username := fmt.Sprintf("winner-%d", time.Now().UnixNano())
	player, err := s.CreatePlayer(ctx, CreatePlayerParams{Username: username, PasswordHash: []byte("hash")})
	if err != nil {
		t.Fatal(err)
	}
	won, err := s.CreateBoard(ctx, &player.PlayerId, newTestBoard(t))
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = s.MutateBoard(ctx, won.BoardId, func(b *mines.Board) error {
		for _, c := range b.Cells {
			if c.Content == mines.Mine {
				if _, err := b.Flag(c.X, c.Y); err != nil {
					return err
				}
			}
		}
		for _, c := range b.Cells {
			if c.Content != mines.Mine && !b.At(c.X, c.Y).Revealed {
				if _, err := b.Reveal(c.X, c.Y); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := s.Records(ctx, RecordFilter{Username: &username})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].BoardId != won.BoardId {
		t.Fatalf("have records %+v, want only board %d", records, won.BoardId)
	}
	if records[0].PlaytimeMs < 0 {
		t.Fatalf("negative playtime %v", records[0].PlaytimeMs)
	}
}

func TestPostgresPlayerConflict(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	params := CreatePlayerParams{
		Username:     fmt.Sprintf("player-%d", time.Now().UnixNano()),
		PasswordHash: []byte("hash"),
	}
	if _, err := s.CreatePlayer(ctx, params); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePlayer(ctx, params); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict error, received %v", err)
	}

	player, err := s.FetchPlayer(ctx, params.Username)
	if err != nil {
		t.Fatal(err)
	}
	if string(player.PasswordHash) != "hash" {
		t.Fatalf("have hash %q", player.PasswordHash)
	}
}
