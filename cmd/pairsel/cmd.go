package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pairsel"
)

// CLI holds the global flags.
type CLI struct {
	logFormat string
	logLevel  string
	stderr    io.Writer
}

func (cli *CLI) RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pairsel",
		Short:         "Select object pairs and angular matches in collision events",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&cli.logFormat, "log-format", "text", "log format (text, json)")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(versionCmd())
	cmd.AddCommand(cli.validateCmd())
	cmd.AddCommand(cli.runCmd())

	return cmd
}

func (cli *CLI) logger() (*pairsel.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", cli.logLevel)
	}

	w := cli.stderr
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cli.logFormat) {
	case "json":
		return pairsel.NewLogger(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return pairsel.NewLogger(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cli.logFormat)
	}
}
