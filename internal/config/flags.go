package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/persistmap/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   path to the database journal file (default from Config)
//	-t int      compaction threshold in journal records (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "f", cfg.DBPath, "path to the database journal file")
	fs.IntVar(&cfg.CompactThreshold, "t", cfg.CompactThreshold, "journal compaction threshold (records)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
