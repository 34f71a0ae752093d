package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/flagx"
)

// Flags shares with the cobra root command, which declares the same names
// so that its own parser accepts them.
var Flags = []string{"-a", "--server", "-state", "--state", "-timeout", "--timeout"}

// parseFlags populates Config from the flags it owns:
//
//	-a, --server string  server base URL
//	--state string       local state database path
//	--timeout int        request timeout (seconds)
//
// Everything else on the command line belongs to cobra and is filtered out
// with flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "learnjournal server URL")
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "learnjournal server URL")
	fs.StringVar(&cfg.StatePath, "state", cfg.StatePath, "local state database")
	timeout := fs.Int("timeout", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
