package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/tradebot/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite run journal",
	Long: `Query runs and trades recorded with --db.

Subcommands:
  runs            - List recorded runs, newest first
  trades <run-id> - List the trades of a run
  org <run-id>    - Print the Org-mode report of a run

Examples:
  tradebot journal runs --db runs.sqlite
  tradebot journal trades 01HV... --db runs.sqlite`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List the trades of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalOrgCmd = &cobra.Command{
	Use:   "org <run-id>",
	Short: "Print the Org-mode report of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalOrg,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalOrgCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "./tradebot.sqlite", "path to SQLite journal DB")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum runs to list (0 = all)")
}

func openJournalDB() (*journal.SQLiteJournal, error) {
	if !fileExists(journalDBPath) {
		return nil, fmt.Errorf("journal %s not found", journalDBPath)
	}
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), journalLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tMODE\tSYMBOL\tSTRATEGY\tTRADES\tWIN %\tNET P/L\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
			r.RunID, r.Mode, r.Symbol, r.Strategy, r.Trades, r.WinRate, r.NetPL,
			r.Created.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTrades(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no trades for run %s\n", args[0])
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tSYMBOL\tSIGNAL\tPRICE\tQTY\tVALUE\tBALANCE\tP/L")
	for _, t := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\t%.2f\t%.2f\t%.2f\n",
			t.Timestamp, t.Symbol, t.Side, t.Price, t.Quantity, t.Value, t.Balance, t.RealizedPL)
	}
	return tw.Flush()
}

func runJournalOrg(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	org, err := j.ExportOrg(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), org)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
