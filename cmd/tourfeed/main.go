// Command tourfeed browses travel posts recommended for a personality type
// and the details of a guided tour.
//
// Usage:
//
//	tourfeed [--config FILE] [--debug]   Run the terminal UI
//	tourfeed tui                         Run the terminal UI
//	tourfeed serve --addr :8080          Serve the JSON API
//	tourfeed seed                        Copy configured sources into the SQLite cache
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abelbrown/tourfeed/internal/config"
	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/abelbrown/tourfeed/internal/store"
	"github.com/jessevdk/go-flags"
)

var opts config.Options

func main() {
	parser := newParser()

	if _, err := parser.Parse(); err != nil {
		if config.IsHelp(err) {
			return
		}
		os.Exit(1)
	}

	// No subcommand: run the UI.
	if parser.Active == nil {
		if err := (&tuiCommand{}).Execute(nil); err != nil {
			fatal("Error: %v", err)
		}
	}
}

func newParser() *flags.Parser {
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true

	mustAdd(parser, "tui", "Run the terminal UI", "Browse the trait feed and tour details.", &tuiCommand{})
	mustAdd(parser, "serve", "Serve the JSON API", "Expose profiles, the paged feed and tours over HTTP.", &serveCommand{})
	mustAdd(parser, "seed", "Fill the SQLite cache", "Load the configured sources and write them to the store.", &seedCommand{})
	mustAdd(parser, "version", "Print the version", "Print the version and exit.", &versionCommand{})
	return parser
}

func mustAdd(p *flags.Parser, name, short, long string, data any) {
	if _, err := p.AddCommand(name, short, long, data); err != nil {
		panic(err)
	}
}

// resolve loads the config and starts logging to the given destination.
func resolve(logOpts logging.Options) (*config.Config, error) {
	logOpts.Debug = opts.Debug
	if err := logging.Init(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	cfg, err := opts.Resolve()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the cache when required is set, creating its directory.
func openStore(cfg *config.Config, required bool) (*store.Store, error) {
	if !required {
		return nil, nil
	}
	if cfg.Store.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logging.Info("Store opened", "path", cfg.Store.Path)
	return st, nil
}

type versionCommand struct{}

func (c *versionCommand) Execute(args []string) error {
	fmt.Printf("tourfeed %s\n", config.GetVersion())
	return nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
