package main

import (
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-board/internal/mines"
	"github.com/vancomm/minesweeper-board/internal/repository"
)

type options struct {
	configPath string
	dbPath     string
	seed       uint64
	debug      bool

	cfg Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "minesctl",
		Short: "Play minesweeper boards from the terminal",
		Long: `minesctl generates minesweeper boards and plays them move by move.
Boards are kept in a local SQLite database, so a game can span many
invocations.

Examples:
  minesctl new --level 16
  minesctl reveal 1 4 4
  minesctl flag 1 0 3
  minesctl status 1`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if opts.dbPath != "" {
				cfg.Database = opts.dbPath
			}
			if opts.seed != 0 {
				cfg.Seed = opts.seed
			}
			opts.cfg = cfg

			if opts.debug {
				mines.Log = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
					Level: slog.LevelDebug,
				}))
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to boards database")
	root.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "RNG seed (0 = random)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log board generation")

	root.AddCommand(newNewCmd(opts))
	root.AddCommand(newMoveCmd(opts, "reveal", "Reveal a cell"))
	root.AddCommand(newMoveCmd(opts, "flag", "Toggle the flag on a cell"))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newListCmd(opts))

	return root
}

func (o *options) open() (*repository.SQLite, error) {
	return repository.OpenSQLite(o.cfg.Database)
}

func (o *options) rand() *rand.Rand {
	if o.cfg.Seed != 0 {
		return rand.New(rand.NewPCG(o.cfg.Seed, o.cfg.Seed))
	}
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}
