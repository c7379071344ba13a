package config

import (
	"fmt"
	"os"
	"strconv"
)

// Journal configures the rotating game event log. An empty Filename turns
// the journal off.
type Journal struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func NewJournal() (*Journal, error) {
	j := &Journal{
		Filename:   os.Getenv("JOURNAL_FILE"),
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}

	for name, dst := range map[string]*int{
		"JOURNAL_MAX_SIZE_MB":  &j.MaxSizeMB,
		"JOURNAL_MAX_BACKUPS":  &j.MaxBackups,
		"JOURNAL_MAX_AGE_DAYS": &j.MaxAgeDays,
	} {
		s, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = n
	}

	return j, nil
}
