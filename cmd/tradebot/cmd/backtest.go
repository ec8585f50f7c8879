package cmd

import (
	"github.com/rustyeddy/tradebot/config"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the strategy over the historical bar file",
	Long: `Backtest walks every bar of the data file once the long moving average is
defined, buying on a golden cross and selling on a death cross. A position
still open at the end is closed at the last close.

Flags override the values read from the config file.

Example:
  tradebot backtest --data data/nifty50_data.csv --short 10 --long 50 --risk 2 --db runs.sqlite`,
	Args: cobra.NoArgs,
	RunE: runBacktest,
}

var (
	btData    string
	btSymbol  string
	btBalance float64
	btShort   int
	btLong    int
	btRiskPct float64
	btTrades  string
	btEquity  string
	btDBPath  string
	btOrgPath string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	addRunFlags(backtestCmd, &btData, &btSymbol, &btBalance, &btShort, &btLong, &btRiskPct, &btDBPath)
	backtestCmd.Flags().StringVar(&btTrades, "trades", "", "trade log CSV path")
	backtestCmd.Flags().StringVar(&btEquity, "equity", "", "equity curve CSV path")
	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "write an Org-mode run report to this path")
}

// addRunFlags registers the flags shared by backtest and live.
func addRunFlags(cmd *cobra.Command, data, symbol *string, balance *float64, short, long *int, riskPct *float64, db *string) {
	cmd.Flags().StringVarP(data, "data", "d", "", "bar CSV path (date,open,high,low,close,volume)")
	cmd.Flags().StringVarP(symbol, "symbol", "s", "", "instrument symbol")
	cmd.Flags().Float64VarP(balance, "balance", "b", 0, "initial cash balance")
	cmd.Flags().IntVar(short, "short", 0, "short moving average period")
	cmd.Flags().IntVar(long, "long", 0, "long moving average period")
	cmd.Flags().Float64Var(riskPct, "risk", 0, "percent of cash risked per trade (2 = 2%)")
	cmd.Flags().StringVar(db, "db", "", "SQLite journal path")
}

// applyRunFlags copies the flags the user set onto cfg and revalidates.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, data, symbol string, balance float64, short, long int, riskPct float64, db string) error {
	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Data.Path = data
	}
	if f.Changed("symbol") {
		cfg.Data.Symbol = symbol
	}
	if f.Changed("balance") {
		cfg.Account.Balance = balance
	}
	if f.Changed("short") {
		cfg.Strategy.ShortPeriod = short
	}
	if f.Changed("long") {
		cfg.Strategy.LongPeriod = long
	}
	if f.Changed("risk") {
		cfg.Risk.RiskPct = riskPct
	}
	if f.Changed("db") {
		cfg.Journal.DBPath = db
	}
	return cfg.Validate()
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg.Mode = config.ModeBacktest
	if err := applyRunFlags(cmd, cfg, btData, btSymbol, btBalance, btShort, btLong, btRiskPct, btDBPath); err != nil {
		return err
	}
	if cmd.Flags().Changed("trades") {
		cfg.Journal.TradesFile = btTrades
	}
	if cmd.Flags().Changed("equity") {
		cfg.Journal.EquityFile = btEquity
	}

	return runBacktestSim(cmd.Context(), cmd.OutOrStdout(), cfg, log.Logger, btOrgPath)
}
