package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/logfile/internal/config"
	"github.com/hpungsan/logfile/internal/errors"
	"github.com/hpungsan/logfile/internal/ops"
)

// writeFunc is the shape shared by ops.WriteNotes and ops.WriteTrace.
type writeFunc = func(ctx context.Context, database *sql.DB, r io.Reader, input ops.WriteInput) (*ops.WriteOutput, error)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "logfile",
		Usage:   "Plain-text execution logs",
		Version: Version,
		Commands: []*cli.Command{
			writeCmd(db, cfg),
			traceCmd(db, cfg),
			historyCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// writeCmd creates the write command.
func writeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "write",
		Usage: `Write a free-form log from JSONL on stdin ({"title":...,"context":...} per line)`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file name, including extension"},
			&cli.StringFlag{Name: "separator", Aliases: []string{"s"}, Value: string(cfg.SeparatorRune()), Usage: "Single character between title and context"},
			&cli.BoolFlag{Name: "timestamp", Aliases: []string{"t"}, Value: cfg.StampEntries(), Usage: "Prefix each entry with its elapsed time"},
			&cli.BoolFlag{Name: "stdout", Usage: "Print the log instead of writing a file"},
		},
		Action: func(c *cli.Context) error {
			return runWrite(c, db, ops.WriteNotes, c.Bool("timestamp"))
		},
	}
}

// traceCmd creates the trace command.
func traceCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "trace",
		Usage: `Write a structured log from JSONL on stdin ({"function","kind","name","extra"} per line)`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file name, including extension"},
			&cli.StringFlag{Name: "separator", Aliases: []string{"s"}, Value: cfg.TraceSeparator, Usage: "Text between function and context"},
			&cli.BoolFlag{Name: "show-time", Aliases: []string{"t"}, Value: cfg.ShowTimes(), Usage: "Prefix each line with its elapsed time"},
			&cli.BoolFlag{Name: "stdout", Usage: "Print the log instead of writing a file"},
		},
		Action: func(c *cli.Context) error {
			return runWrite(c, db, ops.WriteTrace, c.Bool("show-time"))
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previous saves, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Only saves to this exact path"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Maximum items"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.History(c.Context, db, ops.HistoryInput{
				Path:   c.String("path"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// runWrite streams stdin records through fn and reports the result.
func runWrite(c *cli.Context, db *sql.DB, fn writeFunc, timestamp bool) error {
	if c.App.Reader == os.Stdin && !stdinHasData() {
		return outputError(errors.NewInvalidRequest("records must be piped via stdin"))
	}

	// The flag defaults to the configured separator, so an explicit "" survives.
	sep := c.String("separator")
	toStdout := c.Bool("stdout")
	output, err := fn(c.Context, db, c.App.Reader, ops.WriteInput{
		Path:      c.String("path"),
		Separator: &sep,
		Timestamp: timestamp,
		DryRun:    toStdout,
	})
	if err != nil {
		return outputError(err)
	}

	if toStdout {
		_, err := io.WriteString(c.App.Writer, output.Text)
		return err
	}
	return outputJSON(c.App.Writer, output.SaveOutput)
}

// Helper functions

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lErr, ok := err.(*errors.LogError); ok {
		if line, ok := lErr.Details["line"]; ok {
			return cli.Exit(fmt.Sprintf("[%s] line %v: %s", lErr.Code, line, lErr.Message), 1)
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", lErr.Code, lErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
