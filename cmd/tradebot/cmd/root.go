package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/tradebot/config"
	"github.com/rustyeddy/tradebot/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "tradebot",
	Short: "Single-instrument MA crossover trading simulator",
	Long: `Tradebot simulates a moving-average crossover strategy with an RSI filter
over daily bars of one instrument.

With no subcommand it reads the config file and runs the mode it names
(backtest unless mode=live). --live forces the live simulation.

Examples:
  tradebot
  tradebot --live
  tradebot --config my.yaml
  tradebot backtest --data data/nifty50_data.csv --short 10 --long 50`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

var (
	cfgPath   string
	liveFlag  bool
	logLevel  string
	logFormat string
)

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.txt", "config file (key=value, .yaml or .json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log encoding: console or json (overrides config)")

	rootCmd.Flags().BoolVar(&liveFlag, "live", false, "run the live simulation regardless of the configured mode")
}

// newLogger builds the process logger from the config and the global flags.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	opts := logger.Options{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding}
	if logLevel != "" {
		opts.Level = logLevel
	}
	if logFormat != "" {
		opts.Encoding = logFormat
	}
	return logger.NewLogger(opts)
}

// loadConfig reads --config. A missing file yields the defaults.
func loadConfig() (*config.Config, *logger.Logger, error) {
	// config warnings are reported before the configured logger exists
	boot, err := newLogger(config.Default())
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cfgPath, boot.Logger)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if liveFlag {
		cfg.Mode = config.ModeLive
	}
	log.Debug("config loaded", zap.String("path", cfgPath), zap.String("mode", cfg.Mode))

	if cfg.Mode == config.ModeLive {
		return runLiveSim(cmd.Context(), cmd.OutOrStdout(), cfg, log.Logger)
	}
	return runBacktestSim(cmd.Context(), cmd.OutOrStdout(), cfg, log.Logger, "")
}
