// ABOUTME: CLI commands for the MCP server, the HTTP API and version info.
// ABOUTME: Both servers run until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/nourish/internal/httpapi"
	"github.com/harperreed/nourish/internal/mcp"
	"github.com/spf13/cobra"
)

var serveAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "nourish": {
        "command": "nourish",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  lookup_nutrition   Resolve a food through the nutrition chain
  add_meal           Log a meal (lookup, manual fallback, flagging)
  list_meals         List meals for a day
  delete_meal        Delete a meal by ID prefix
  flag_meal          Check a name and calorie value against the flag rules
  log_activity       Log an exercise session
  record_fitness     Update a day's burned calories, heart rate and sleep
  estimate_target    Daily calorie target for the stored profile
  daily_summary      Intake, target, burn and lifestyle score for a day
  score_day          Lifestyle score for ad hoc signals

AVAILABLE RESOURCES:

  nourish://today     Today's summary
  nourish://profile   Profile and current target`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API with Prometheus metrics at /metrics.

ROUTES:

  GET    /healthz
  GET    /api/nutrition?query=<food>
  GET    /api/meals?date=YYYY-MM-DD
  POST   /api/meals
  DELETE /api/meals/{id}
  POST   /api/activities
  PUT    /api/fitness/{date}
  GET    /api/summary?date=YYYY-MM-DD
  GET    /api/target
  POST   /api/score
  POST   /api/flag
  GET    /metrics

EXAMPLES:

  nourish serve                  # Listen on the configured address (default :8080)
  nourish serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.GetListenAddr()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Debug("starting http api", "backend", cfg.GetBackend())
		return httpapi.New(svc, collector, logger).ListenAndServe(ctx, addr)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nourish %s\n", mcp.Version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")

	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
