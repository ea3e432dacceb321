// ABOUTME: Root Cobra command for the nourish CLI.
// ABOUTME: Wires config, logging, storage, lookup chain and estimator via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nourish/internal/config"
	"github.com/harperreed/nourish/internal/logging"
	"github.com/harperreed/nourish/internal/metrics"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/harperreed/nourish/internal/targets"
	"github.com/harperreed/nourish/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	logger    *log.Logger
	repo      storage.Repository
	svc       *tracker.Service
	collector *metrics.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "nourish",
	Short: "Meal logging, calorie targets and lifestyle scoring",
	Long: `Nourish is a CLI tool for logging meals and scoring how balanced each day was.

WHAT IT TRACKS:

  Meals        name, calories and macros, looked up automatically
  Activities   exercise sessions with duration and calories burned
  Fitness      daily calories burned, average heart rate, sleep hours
  Lifestyle    a 0-100 score per day, refreshed on every change

QUICK START:

  $ nourish profile set --sex female --height 165 --weight 60 --activity moderate
  $ nourish meal add "2 eggs and toast"      # Looked up via the nutrition chain
  $ nourish meal add "grandma's stew" -c 650 # Manual calories as fallback
  $ nourish activity add run --calories 300
  $ nourish fitness set --sleep 7.5 --bpm 68
  $ nourish summary                          # Intake vs target and the day's score

NUTRITION LOOKUP:

  Meals are resolved through CalorieNinjas, then Edamam, then a local table.
  Set CALORIE_NINJAS_KEY, EDAMAM_APP_ID and EDAMAM_APP_KEY (a .env file works).

CALORIE TARGET:

  An explicit --target on the profile wins. Otherwise a trained model is used
  when present ('nourish model train'), falling back to the Mifflin-St Jeor
  formula times the activity multiplier.

MCP INTEGRATION:

  Run 'nourish mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "nourish": { "command": "nourish", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  SQLite at ~/.local/share/nourish/nourish.db by default.
  Set NOURISH_BACKEND=charm to store in Charm KV with encrypted sync.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need storage
		switch cmd.Name() {
		case "version", "help":
			return nil
		}
		if cmd.Annotations[skipStorage] == "true" {
			return nil
		}
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute runs the root command. Storage is closed even when a command fails,
// since cobra skips post-run hooks on error.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := teardown(); err == nil {
		err = cerr
	}
	return err
}

func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = logging.New(os.Stderr, cfg.GetLogLevel())
	collector = metrics.New()

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	svc = buildService(cfg, repo, logger, collector)
	return nil
}

func teardown() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	svc = nil
	return err
}

// buildService assembles the lookup chain and estimator around repo.
func buildService(c *config.Config, r storage.Repository, l *log.Logger, m *metrics.Metrics) *tracker.Service {
	client := &http.Client{Timeout: c.GetLookupTimeout()}
	sources := []nutrition.Source{
		nutrition.NewCalorieNinjas(c.Env.NinjasKey(), client),
		nutrition.NewEdamam(c.Env.EdamamAppID, c.Env.EdamamAppKey, client),
	}

	table, err := nutrition.LoadTable(c.GetNutritionTablePath())
	switch {
	case err == nil:
		sources = append(sources, table)
	case errors.Is(err, fs.ErrNotExist):
		l.Debug("no local nutrition table", "path", c.GetNutritionTablePath())
	default:
		l.Warn("local nutrition table unusable", "path", c.GetNutritionTablePath(), "err", err)
	}

	chain := nutrition.NewChain(l, m, sources...)
	cache := targets.NewModelCache(c.GetModelPath(), l, m)
	estimator := targets.NewEstimator(cache, l, m)

	return tracker.New(r, chain, estimator, l).WithFlagObserver(m)
}
