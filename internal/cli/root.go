// Package cli provides the command-line interface for the pipeline.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"marketintel/internal/agents"
	"marketintel/internal/cluster"
	"marketintel/internal/config"
	"marketintel/internal/constitution"
	"marketintel/internal/logging"
	"marketintel/internal/marketdata"
	"marketintel/internal/notify"
	"marketintel/internal/pipeline"
	"marketintel/internal/router"
	"marketintel/internal/shadow"
	"marketintel/internal/store"
)

// Version information.
const (
	Version   = "0.1.0"
	BuildDate = "2026-01-01"
)

// App holds the application dependencies shared across commands.
type App struct {
	Config        *config.Config
	Logger        zerolog.Logger
	Store         *store.SQLiteStore
	Constitution  *constitution.Constitution
	MarketData    *marketdata.StaticClient
	Orchestrator  *pipeline.Orchestrator
	ShadowTracker *shadow.Tracker
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) (*cobra.Command, error) {
	app := &App{Config: cfg, Logger: logger}

	dbPath := config.DefaultConfigDir() + "/marketintel.db"
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	app.Store = dataStore

	con, err := constitution.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("constitution failed integrity check")
		return nil, err
	}
	app.Constitution = con

	mkt := marketdata.New(defaultMarketContext())
	app.MarketData = mkt

	var completer agents.Completer
	if cfg.Credentials.OpenAI.APIKey != "" {
		model := cfg.Credentials.OpenAI.Model
		if model == "" {
			model = openai.GPT4o
		}
		completer = agents.NewOpenAICompleter(cfg.Credentials.OpenAI.APIKey, model, "openai")
		logger.Debug().Str("model", model).Msg("OpenAI completer initialized")
	} else {
		completer = &agents.MockCompleter{Response: ""}
		logger.Warn().Msg("no OpenAI API key configured, falling back to keyword heuristics for every article")
	}

	sink := buildNotifier(cfg)

	clusterEngine := cluster.NewEngine(
		durationMinutes(cfg.Cluster.TimeWindowMinutes),
		cfg.Cluster.MinSize,
		durationHours(cfg.Cluster.MaxAgeHours),
	)

	validator := agents.NewValidator(agents.ValidatorConfig{
		MinConfidence:        cfg.Signal.MinConfidence,
		MaxPositionSize:      cfg.Signal.MaxPositionSize,
		DailyTradeLimit:      cfg.Validator.DailyTradeLimit,
		DailyLossLimitPct:    cfg.Validator.DailyLossLimitPct,
		MaxConsecutiveLosses: cfg.Validator.MaxConsecutiveLosses,
		MarketHoursOnly:      cfg.Validator.MarketHoursOnly,
	})

	tracker := shadow.NewTracker(mkt.SpotPrice)
	app.ShadowTracker = tracker

	signalCfg := agents.DefaultSignalGeneratorConfig()
	signalCfg.BaseSize = cfg.Signal.BasePositionSize
	signalCfg.MaxPositionSize = cfg.Signal.MaxPositionSize
	signalCfg.MinConfidenceThreshold = cfg.Signal.MinConfidence
	signalCfg.SentimentThreshold = cfg.Signal.SentimentThreshold
	signalCfg.ImpactThreshold = cfg.Signal.ImpactThreshold
	signalCfg.AutoExecuteEnabled = cfg.Signal.EnableAutoExecute

	pcfg := pipeline.Config{
		PollInterval:         durationSeconds(cfg.Pipeline.PollIntervalSeconds),
		MaxPerCycle:          cfg.Pipeline.MaxPerCycle,
		AnalysisBatchSize:    cfg.Pipeline.AnalysisBatchSize,
		QualityMinConfidence: cfg.Signal.MinConfidence,
		QualityMinSize:       0.01,
		ShadowTrackingDays:   cfg.Shadow.TrackingDays,
	}

	app.Orchestrator = pipeline.New(
		pcfg, logger,
		store.ArticleRepo{SQLiteStore: dataStore},
		store.ProposalRepo{SQLiteStore: dataStore},
		store.ShadowRepo{SQLiteStore: dataStore},
		completer,
		router.NewDefaultRouter(),
		mkt,
		sink,
		clusterEngine,
		con,
		validator,
		tracker,
		signalCfg,
	)

	rootCmd := &cobra.Command{
		Use:   "marketintel",
		Short: "Market intelligence pipeline and constitutional decision core",
		Long: `marketintel turns a stream of financial news articles into constitutionally
validated trading proposals.

It classifies sources, detects coordinated clusters, scores source-diversity/
timing/narrative-independence/event-legitimacy signals, generates candidate
trades, runs them through a
risk validator and an immutable constitution, and tracks what would have
happened to everything it rejected.

Use 'marketintel help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (accepted but not read: configuration always loads from ~/.config/marketintel)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addPipelineCommands(rootCmd, app)
	addShieldCommands(rootCmd, app)
	addConstitutionCommands(rootCmd, app)

	return rootCmd, nil
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	if !cfg.Notifications.Enabled {
		return notify.NewNoOpNotifier()
	}
	return notify.NewMultiNotifier(&cfg.Notifications)
}

func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version, "build_date": BuildDate})
				return
			}
			output.Printf("marketintel v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage pipeline configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
				return
			}
			output.Println(config.DefaultConfigDir())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Pipeline")
	output.Printf("  Max per cycle:     %d\n", cfg.Pipeline.MaxPerCycle)
	output.Printf("  Batch size:        %d\n", cfg.Pipeline.AnalysisBatchSize)
	output.Printf("  Poll interval:     %ds\n", cfg.Pipeline.PollIntervalSeconds)
	output.Println()

	output.Bold("Signal Generator")
	output.Printf("  Base size:         %.0f%%\n", cfg.Signal.BasePositionSize*100)
	output.Printf("  Max size:          %.0f%%\n", cfg.Signal.MaxPositionSize*100)
	output.Printf("  Min confidence:    %.0f%%\n", cfg.Signal.MinConfidence*100)
	output.Printf("  Auto-execute:      %v\n", cfg.Signal.EnableAutoExecute)
	output.Println()

	output.Bold("Signal Validator")
	output.Printf("  Daily trade limit: %d\n", cfg.Validator.DailyTradeLimit)
	output.Printf("  Daily loss limit:  %.1f%%\n", cfg.Validator.DailyLossLimitPct)
	output.Printf("  Max consec. losses: %d\n", cfg.Validator.MaxConsecutiveLosses)
	output.Println()

	output.Bold("Shadow Tracker")
	output.Printf("  Tracking days:     %d\n", cfg.Shadow.TrackingDays)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:           %v\n", cfg.Notifications.Enabled)
	output.Printf("  Level:             %s\n", cfg.Notifications.Level)
	output.Printf("  Webhook:           %v\n", cfg.Notifications.Webhook.Enabled)
	output.Printf("  Telegram:          %v\n", cfg.Notifications.Telegram.Enabled)
	output.Printf("  Email:             %v\n", cfg.Notifications.Email.Enabled)

	return nil
}
