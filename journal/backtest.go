package journal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"
)

// BacktestRun mirrors the runs table.
type BacktestRun struct {
	RunID   string
	Created time.Time
	Mode    string // backtest or live
	Dataset string

	Symbol   string
	Strategy string
	Config   []byte // strategy parameters as JSON

	RiskPct float64 // whole percent, 2 means 2%

	// Bar date labels of the first and last simulated bar.
	Start string
	End   string
	Bars  int

	Trades int
	Wins   int
	Losses int

	StartBalance float64
	EndBalance   float64
	FinalValue   float64

	NetPL        float64
	ReturnPct    float64
	WinRate      float64 // percent
	ProfitFactor float64
	MaxDDPct     float64

	OrgPath string
	Notes   []string
}

var backtestOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}

var backtestOrg = template.Must(template.New("backtest").Funcs(backtestOrgFuncs).Parse(BacktestOrgTemplate))

// WriteOrg renders the run as an Org-mode block.
func (v *BacktestRun) WriteOrg(w io.Writer) error {
	if err := backtestOrg.Execute(w, v); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

func (v *BacktestRun) FormatOrg() (string, error) {
	var buf bytes.Buffer
	if err := v.WriteOrg(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrgFile writes the report to OrgPath.
func (v *BacktestRun) WriteOrgFile() error {
	if v.OrgPath == "" {
		return fmt.Errorf("write org report: no path for run %s", v.RunID)
	}
	s, err := v.FormatOrg()
	if err != nil {
		return err
	}
	return os.WriteFile(v.OrgPath, []byte(s), 0o644)
}

const BacktestOrgTemplate = `* {{if eq .Mode "live"}}LIVE SIM{{else}}BACKTEST{{end}}: {{.Strategy}} {{.Symbol}}
:PROPERTIES:
:RUN_ID:      {{orDash .RunID}}
:MODE:        {{orDash .Mode}}
:STRATEGY:    {{.Strategy}}
:SYMBOL:      {{.Symbol}}
:DATASET:     {{orDash .Dataset}}
:START_DATE:  {{orDash .Start}}
:END_DATE:    {{orDash .End}}
:BARS:        {{.Bars}}
:START_BAL:   {{printf "%.2f" .StartBalance}}
:END_BAL:     {{printf "%.2f" .EndBalance}}
:NET_PL:      {{printf "%.2f" .NetPL}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRate}}
:PROFIT_FAC:  {{printf "%.2f" .ProfitFactor}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
| Parameter        | Value |
|------------------+-------|
| Config           | {{printf "%s" .Config}} |
| Risk per Trade % | {{printf "%.2f" .RiskPct}} |

** Performance Summary
- Net P/L:        *{{printf "%.2f" .NetPL}}*
- Final Value:    *{{printf "%.2f" .FinalValue}}*
- Return:         *{{printf "%.2f" .ReturnPct}}%*
- Max Drawdown:   *{{printf "%.2f" .MaxDDPct}}%*
- Win Rate:       *{{printf "%.2f" .WinRate}}%*
- Profit Factor:  *{{printf "%.2f" .ProfitFactor}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |
{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
