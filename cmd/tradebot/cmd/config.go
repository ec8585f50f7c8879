package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradebot/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage tradebot configuration files.

The format follows the file extension: .yaml/.yml, .json, or the flat
key=value format for anything else.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradebot config init -o config.txt
  tradebot config validate -f config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configInitForce    bool
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "config.txt", "output config file path")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	_ = configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if !configInitForce && fileExists(configInitOutput) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configInitOutput)
	}

	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  tradebot --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if !fileExists(configValidatePath) {
		return fmt.Errorf("config file %s not found", configValidatePath)
	}
	cfg, err := config.Load(configValidatePath, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration is valid: %s\n\n", configValidatePath)
	fmt.Fprintf(out, "Mode:     %s\n", cfg.Mode)
	fmt.Fprintf(out, "Symbol:   %s (%s)\n", cfg.Data.Symbol, cfg.Data.Path)
	fmt.Fprintf(out, "Balance:  %s %.2f\n", cfg.Account.Currency, cfg.Account.Balance)
	fmt.Fprintf(out, "Strategy: MA Crossover (%d/%d), RSI(%d) %g/%g\n",
		cfg.Strategy.ShortPeriod, cfg.Strategy.LongPeriod,
		cfg.Strategy.RSIPeriod, cfg.Strategy.Oversold, cfg.Strategy.Overbought)
	fmt.Fprintf(out, "Risk:     %g%% per trade, %g%% max exposure\n", cfg.Risk.RiskPct, cfg.Risk.MaxExposurePct)
	return nil
}
