// Package cli implements the homesim command tree. Every invocation builds a
// fresh home from the configuration file; nothing survives the process.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/carlos-arino/mcp-home-simulator/pkg/config"
	"github.com/carlos-arino/mcp-home-simulator/pkg/home"
)

// errSubcommandRequired is returned when a command group is invoked bare.
var errSubcommandRequired = errors.New("a subcommand is required")

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	mcp        bool
}

// NewRootCommand builds the homesim command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "homesim",
		Short: "Simulate a home automation panel (lights, alarm, presence).",
		Long: `homesim keeps an in-memory home built from a YAML configuration file.

Commands act on a fresh home every time they run. Use "serve" (or --mcp) to keep
one home alive for a whole session driven over stdin/stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.mcp {
				return runServe(cmd, opts, transportLine)
			}
			_ = cmd.Help()
			return errSubcommandRequired
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.PathFromEnv(), "path to configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.Flags().BoolVar(&opts.mcp, "mcp", false, "serve the line protocol on stdin/stdout (same as \"serve\")")

	root.AddCommand(
		newStatusCommand(opts),
		newLightsCommand(opts),
		newAlarmCommand(opts),
		newPresenceCommand(opts),
		newServeCommand(opts),
	)

	return root
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// newGroupCommand builds a command that only dispatches to subcommands.
func newGroupCommand(use, short string, children ...*cobra.Command) *cobra.Command {
	group := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return fmt.Errorf("%w for %q", errSubcommandRequired, cmd.Name())
		},
	}
	group.AddCommand(children...)
	return group
}

// loadHome builds the home described by the configuration file.
func loadHome(opts *options) (*home.State, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("config", opts.configPath).
		Strs("lights", cfg.Lights).
		Bool("alarm_default", cfg.AlarmDefault).
		Msg("Configuration loaded")

	return home.New(cfg), nil
}

func setupLogging(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	// stdout carries protocol traffic; logs go to stderr.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w}).Level(lvl)

	return nil
}
