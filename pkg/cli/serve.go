package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/carlos-arino/mcp-home-simulator/pkg/mcp"
	"github.com/carlos-arino/mcp-home-simulator/pkg/protocol"
	"github.com/carlos-arino/mcp-home-simulator/pkg/schema"
	"github.com/carlos-arino/mcp-home-simulator/pkg/tools"
)

const (
	transportLine = "line"
	transportMCP  = "mcp"
)

func newServeCommand(opts *options) *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the home tools over stdin/stdout.",
		Long: `Serve keeps one home alive and exposes it as tools over stdin/stdout.

The "line" transport speaks newline-delimited JSON: a "ready" handshake, then one
reply per "call" message until "quit" or end of input. The "mcp" transport speaks
the Model Context Protocol (JSON-RPC) with the same tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, transport)
		},
	}

	cmd.Flags().StringVarP(&transport, "transport", "t", transportLine, "wire protocol: line or mcp")

	return cmd
}

func runServe(cmd *cobra.Command, opts *options, transport string) error {
	if transport != transportLine && transport != transportMCP {
		return fmt.Errorf("unknown transport %q (want %q or %q)", transport, transportLine, transportMCP)
	}

	state, err := loadHome(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	registry := tools.NewRegistry(state, schema.NewValidator())

	log.Info().Str("transport", transport).Msg("Starting server on stdio")

	if transport == transportMCP {
		return mcp.NewServer(registry).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return protocol.NewServer(registry, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
}
