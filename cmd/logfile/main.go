package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hpungsan/logfile/internal/config"
	"github.com/hpungsan/logfile/internal/db"
	"github.com/hpungsan/logfile/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// runMode is what the binary does for a given invocation.
type runMode int

const (
	modeMCP     runMode = iota // serve MCP over stdio
	modeBanner                 // interactive, no args
	modeHelp                   // --help / --version, no store needed
	modeCLI                    // known subcommand
	modeUnknown                // unknown argument typed at a terminal
)

var subcommands = map[string]bool{"write": true, "trace": true, "history": true}

var helpArgs = map[string]bool{"help": true, "--help": true, "-h": true, "--version": true, "-v": true}

// detectMode picks the run mode from the arguments after the program name
// and whether stdin is an interactive terminal.
func detectMode(args []string, terminal bool) runMode {
	switch {
	case len(args) == 0 && terminal:
		return modeBanner
	case len(args) == 0:
		return modeMCP
	case helpArgs[args[0]]:
		return modeHelp
	case subcommands[args[0]]:
		return modeCLI
	case terminal:
		return modeUnknown
	}
	return modeMCP
}

func stdinIsTerminal() bool {
	stat, err := os.Stdin.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}

const banner = `
   _                __ _ _
  | | ___   __ _   / _(_) | ___
  | |/ _ \ / _' | | |_| | |/ _ \
  | | (_) | (_| | |  _| | |  __/
  |_|\___/ \__, | |_| |_|_|\___|
           |___/

  Plain-text execution logs

  Usage: logfile <command> [options]
         logfile --help

  MCP server mode requires piped input.`

// loadConfig reads the global config and overlays the nearest repo config.
func loadConfig(baseDir string) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Load(baseDir)
	}
	return config.LoadWithRepo(baseDir, wd)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	mode := detectMode(os.Args[1:], stdinIsTerminal())

	switch mode {
	case modeBanner:
		fmt.Println(banner)
		return
	case modeUnknown:
		fail("unknown command %q\nRun 'logfile --help' for usage.", os.Args[1])
	case modeHelp:
		if err := newCLIApp(nil, config.DefaultConfig()).Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fail("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".logfile")

	cfg, err := loadConfig(baseDir)
	if err != nil {
		fail("failed to load config: %v", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fail("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	if mode == modeCLI {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = newCLIApp(database, cfg).RunContext(ctx, os.Args)
	} else {
		err = mcp.Run(database, cfg, Version)
	}
	if err != nil {
		database.Close()
		fail("%v", err)
	}
}
