package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/credyukti/syndata-go/internal/scraper"
	"github.com/credyukti/syndata-go/internal/table"
)

var (
	fetchOutput      string
	fetchOutDir      string
	fetchTickersFile string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [company name]...",
	Short: "Fetch financial ratios for listed companies",
	Long: `Resolve company names to tickers and pull the latest annual statement
ratios from Yahoo Finance into a CSV suitable as generate input.

Symbols can also be read from a tickers CSV (SYMBOL column, NSE suffix
added automatically); with --out-dir every ticker additionally gets its
own statement artifact. Companies that cannot be resolved are skipped
with a warning.

Examples:
  syndata fetch "Reliance Industries" "Tata Motors" -o companies.csv
  syndata fetch --tickers-file equity_tickers.csv -o companies.csv --out-dir financials`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "combined ratios CSV (required)")
	fetchCmd.Flags().StringVar(&fetchOutDir, "out-dir", "", "directory for per-ticker statement artifacts")
	fetchCmd.Flags().StringVar(&fetchTickersFile, "tickers-file", "", "CSV with a SYMBOL column of NSE tickers")
	_ = fetchCmd.MarkFlagRequired("output")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && fetchTickersFile == "" {
		return fmt.Errorf("provide company names or --tickers-file")
	}

	if fetchOutDir != "" {
		if err := os.MkdirAll(fetchOutDir, 0755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}

	client := scraper.NewClient()
	ctx := cmd.Context()

	// Companies named on the command line need a search; tickers from a
	// file are used as-is with the NSE suffix.
	type target struct {
		label  string
		symbol string
	}
	var targets []target

	for _, company := range args {
		symbol, err := client.SearchTicker(ctx, company)
		if err != nil {
			fmt.Printf("Skipping %q: %v\n", company, err)
			continue
		}
		targets = append(targets, target{label: company, symbol: symbol})
	}

	if fetchTickersFile != "" {
		symbols, err := readTickersFile(fetchTickersFile)
		if err != nil {
			return err
		}
		for _, s := range symbols {
			targets = append(targets, target{label: s, symbol: s})
		}
	}

	tbl := &table.Table{
		Header: []string{
			"Company", "Ticker", "Financial Year",
			"Net Profit Margin", "Return on Equity", "Return on Assets",
			"Current Ratio", "Asset Turnover Ratio", "Debt Equity Ratio",
			"Debt to Asset Ratio", "Interest Coverage Ratio",
		},
	}

	skipped := 0
	for _, tgt := range targets {
		st, err := client.FetchStatement(ctx, tgt.symbol)
		if err != nil {
			fmt.Printf("Skipping %q (%s): %v\n", tgt.label, tgt.symbol, err)
			skipped++
			continue
		}

		tbl.Rows = append(tbl.Rows, []string{
			tgt.label,
			tgt.symbol,
			strconv.Itoa(st.FiscalYear),
			formatRatio(st.Financials.NetProfitMargin),
			formatRatio(st.ReturnOnEquity),
			formatRatio(st.ReturnOnAssets),
			formatRatio(st.CurrentRatio),
			formatRatio(st.AssetTurnoverRatio),
			formatRatio(st.DebtEquityRatio),
			formatRatio(st.DebtToAssetRatio),
			formatRatio(st.InterestCoverageRatio),
		})

		if fetchOutDir != "" {
			if err := writeStatementArtifact(fetchOutDir, st); err != nil {
				fmt.Printf("Artifact for %s failed: %v\n", tgt.symbol, err)
			}
		}
	}

	if len(tbl.Rows) == 0 {
		return fmt.Errorf("no companies could be resolved")
	}

	if err := tbl.WriteCSV(fetchOutput); err != nil {
		return err
	}
	fmt.Printf("Wrote %d companies to %s (%d skipped)\n", len(tbl.Rows), fetchOutput, skipped)
	return nil
}

// readTickersFile extracts the SYMBOL column and applies the NSE suffix,
// matching the exchange the original dataset covers.
func readTickersFile(path string) ([]string, error) {
	tbl, err := table.ReadCSV(path)
	if err != nil {
		return nil, err
	}

	col := -1
	for i, name := range tbl.Header {
		if strings.EqualFold(strings.TrimSpace(name), "SYMBOL") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%s has no SYMBOL column", path)
	}

	seen := make(map[string]bool)
	var symbols []string
	for _, row := range tbl.Rows {
		if col >= len(row) {
			continue
		}
		s := strings.ToUpper(strings.TrimSpace(row[col]))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if !strings.Contains(s, ".") {
			s += ".NS"
		}
		symbols = append(symbols, s)
	}
	return symbols, nil
}

// writeStatementArtifact saves one ticker's raw statement values.
func writeStatementArtifact(dir string, st *scraper.Statement) error {
	tbl := &table.Table{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Financial Year", strconv.Itoa(st.FiscalYear)},
			{"Total Assets", formatRatio(st.Financials.TotalAssets)},
			{"Net Income", formatRatio(st.Financials.NetIncome)},
			{"Stockholders Equity", formatRatio(st.Financials.Equity)},
			{"Total Debt", formatRatio(st.Financials.TotalDebt)},
			{"Current Assets", formatRatio(st.Financials.CurrentAssets)},
			{"Current Liabilities", formatRatio(st.Financials.CurrentLiabilities)},
			{"EBIT", formatRatio(st.Financials.EBIT)},
			{"Net Profit Margin", formatRatio(st.Financials.NetProfitMargin)},
		},
	}
	return tbl.WriteCSV(filepath.Join(dir, st.Symbol+"_financials.csv"))
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
