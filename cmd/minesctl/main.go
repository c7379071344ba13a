// minesctl plays minesweeper boards stored in a local SQLite database.
//
// Usage:
//
//	minesctl new [--level 9] [--size N]   - Generate a board
//	minesctl reveal <board> <x> <y>       - Reveal a cell
//	minesctl flag <board> <x> <y>         - Toggle a flag
//	minesctl status <board>               - Print a board
//	minesctl list                         - List recent boards
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.minesctl.yaml)
//	--db <path>      - Database path, overrides the config file
//	--seed <value>   - RNG seed for reproducible boards
//	--debug          - Log board generation to stderr
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
