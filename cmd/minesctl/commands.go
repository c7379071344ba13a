package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-board/internal/mines"
	"github.com/vancomm/minesweeper-board/internal/repository"
)

func printBoard(w io.Writer, record *repository.Board, b *mines.Board) {
	fmt.Fprintf(w, "board %d: %dx%d, %d mines, %s\n\n", record.BoardId, b.Size, b.Size, b.MineCount, b.State())
	if b.Completed {
		fmt.Fprint(w, b.Layout())
		return
	}
	fmt.Fprint(w, b.String())
}

func newNewCmd(opts *options) *cobra.Command {
	var level string
	var size int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("level") {
				level = opts.cfg.Level
			}
			if !cmd.Flags().Changed("size") {
				size = opts.cfg.Size
			}
			l, err := mines.ParseLevel(level)
			if err != nil {
				return err
			}

			b, err := mines.NewBoard(l, size, opts.rand())
			if err != nil {
				return err
			}

			store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.CreateBoard(cmd.Context(), nil, b)
			if err != nil {
				return fmt.Errorf("unable to save board: %w", err)
			}

			printBoard(cmd.OutOrStdout(), record, b)
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "9", "Level: 9, 16, 24 or custom")
	cmd.Flags().IntVar(&size, "size", 0, "Board size for the custom level")

	return cmd
}

func parseArgs(args []string) (boardId int64, x, y int, err error) {
	if boardId, err = strconv.ParseInt(args[0], 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("board must be an integer")
	}
	if x, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("x must be an integer")
	}
	if y, err = strconv.Atoi(args[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("y must be an integer")
	}
	return boardId, x, y, nil
}

func move(ctx context.Context, store repository.Store, name string, boardId int64, x, y int) (*repository.Board, *mines.Board, int, error) {
	var changed int
	record, b, err := store.MutateBoard(ctx, boardId, func(b *mines.Board) error {
		if name == "flag" {
			_, err := b.Flag(x, y)
			changed = 1
			return err
		}
		cells, err := b.Reveal(x, y)
		changed = len(cells)
		return err
	})
	return record, b, changed, err
}

func newMoveCmd(opts *options, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <board> <x> <y>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			boardId, x, y, err := parseArgs(args)
			if err != nil {
				return err
			}

			store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			record, b, changed, err := move(cmd.Context(), store, name, boardId, x, y)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d cell(s) updated\n", changed)
			printBoard(cmd.OutOrStdout(), record, b)
			return nil
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <board>",
		Short: "Print a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boardId, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("board must be an integer")
			}

			store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.FetchBoard(cmd.Context(), boardId)
			if err != nil {
				return err
			}
			b, err := record.Decode()
			if err != nil {
				return err
			}

			printBoard(cmd.OutOrStdout(), record, b)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			boards, err := store.ListBoards(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(boards) == 0 {
				fmt.Fprintln(out, "No boards yet.")
				fmt.Fprintln(out, "Run 'minesctl new' to start one.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSize\tMines\tState\tCreated")
			for _, record := range boards {
				state := mines.InProgress
				if record.Completed {
					state = mines.Lost
					if record.Success != nil && *record.Success {
						state = mines.Won
					}
				}
				fmt.Fprintf(w, "%d\t%dx%d\t%d\t%s\t%s\n",
					record.BoardId, record.Size, record.Size, record.MineCount, state,
					record.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of boards to show")

	return cmd
}
