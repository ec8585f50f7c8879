package cmd

import (
	"github.com/rustyeddy/tradebot/config"
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the live simulation on synthetic bars",
	Long: `Live seeds a buffer with the last --history bars of the data file, then
generates one random bar per iteration and trades on it. Open positions are
left open when the run ends. Ctrl+C stops the run and prints the summary.

Example:
  tradebot live --iterations 50 --delay 0 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runLive,
}

var (
	lvData       string
	lvSymbol     string
	lvBalance    float64
	lvShort      int
	lvLong       int
	lvRiskPct    float64
	lvDBPath     string
	lvIterations int
	lvHistory    int
	lvDelay      string
	lvSeed       int64
	lvTrades     string
)

func init() {
	rootCmd.AddCommand(liveCmd)

	addRunFlags(liveCmd, &lvData, &lvSymbol, &lvBalance, &lvShort, &lvLong, &lvRiskPct, &lvDBPath)
	liveCmd.Flags().IntVarP(&lvIterations, "iterations", "n", 0, "number of synthetic bars")
	liveCmd.Flags().IntVar(&lvHistory, "history", 0, "historical bars used to seed the buffer")
	liveCmd.Flags().StringVar(&lvDelay, "delay", "", "pause between iterations, e.g. 500ms or 0")
	liveCmd.Flags().Int64Var(&lvSeed, "seed", 0, "random seed for the bar generator (0 = time based)")
	liveCmd.Flags().StringVar(&lvTrades, "trades", "", "trade log CSV path")
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg.Mode = config.ModeLive
	f := cmd.Flags()
	if f.Changed("iterations") {
		cfg.Live.Iterations = lvIterations
	}
	if f.Changed("history") {
		cfg.Live.HistorySize = lvHistory
	}
	if f.Changed("delay") {
		cfg.Live.Delay = lvDelay
	}
	if f.Changed("seed") {
		cfg.Live.Seed = lvSeed
	}
	if f.Changed("trades") {
		cfg.Journal.LiveTradesFile = lvTrades
	}
	if err := applyRunFlags(cmd, cfg, lvData, lvSymbol, lvBalance, lvShort, lvLong, lvRiskPct, lvDBPath); err != nil {
		return err
	}

	return runLiveSim(cmd.Context(), cmd.OutOrStdout(), cfg, log.Logger)
}
