package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/credyukti/syndata-go/internal/rules"
	"github.com/credyukti/syndata-go/internal/scraper"
)

var (
	scoreLoan       float64
	scoreCollateral float64
	scoreCredit     int
)

var scoreCmd = &cobra.Command{
	Use:   "score <company name>",
	Short: "Score a listed company with the rule-based risk model",
	Long: `Resolve a company name to its ticker, pull the latest annual statements
from Yahoo Finance and apply the rule-based risk scorer.

Examples:
  syndata score "Reliance Industries" --loan 25000000 --collateral 40000000
  syndata score "Tata Motors"`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().Float64Var(&scoreLoan, "loan", 0, "proposed loan value")
	scoreCmd.Flags().Float64Var(&scoreCollateral, "collateral", 0, "offered collateral value")
	scoreCmd.Flags().IntVar(&scoreCredit, "credit", 0, "known credit score, if any")
}

func runScore(cmd *cobra.Command, args []string) error {
	company := args[0]
	client := scraper.NewClient()
	ctx := cmd.Context()

	symbol, err := client.SearchTicker(ctx, company)
	if err != nil {
		return fmt.Errorf("resolve ticker for %q: %w", company, err)
	}
	fmt.Printf("Company: %s | Ticker: %s\n", company, symbol)

	st, err := client.FetchStatement(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch statements for %s: %w", symbol, err)
	}

	risk := rules.RiskScore(st.Financials)

	fmt.Printf("\nFY%d statement ratios:\n", st.FiscalYear)
	fmt.Printf("  Net Profit Margin %%:     %.2f\n", st.Financials.NetProfitMargin)
	fmt.Printf("  Return on Equity %%:      %.2f\n", st.ReturnOnEquity)
	fmt.Printf("  Return on Assets %%:      %.2f\n", st.ReturnOnAssets)
	fmt.Printf("  Current Ratio:           %.2f\n", st.CurrentRatio)
	fmt.Printf("  Asset Turnover Ratio:    %.2f\n", st.AssetTurnoverRatio)
	fmt.Printf("  Debt Equity Ratio:       %.2f\n", st.DebtEquityRatio)
	fmt.Printf("  Debt to Asset Ratio:     %.2f\n", st.DebtToAssetRatio)
	fmt.Printf("  Interest Coverage Ratio: %.2f\n", st.InterestCoverageRatio)

	if scoreLoan > 0 && scoreCollateral > 0 {
		fmt.Printf("\n  Loan Value:              %.0f\n", scoreLoan)
		fmt.Printf("  Collateral Value:        %.0f\n", scoreCollateral)
		fmt.Printf("  Loan to Collateral:      %.3f\n", scoreLoan/scoreCollateral)
	}
	if scoreCredit > 0 {
		fmt.Printf("  Credit Score (given):    %d\n", scoreCredit)
	} else {
		fmt.Printf("  Credit Score (derived):  %d\n", rules.CreditScore(risk))
	}

	fmt.Printf("\nFinal Risk Score: %d\n%s\n", risk, rules.Explain(st.Financials))
	return nil
}
