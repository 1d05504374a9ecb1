package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/credyukti/syndata-go/internal/rules"
	"github.com/credyukti/syndata-go/internal/table"
)

var (
	simulateRows   int
	simulateSeed   int64
	simulateOutput string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a synthetic loan portfolio without any API",
	Long: `Simulate company financials and derive loan values, credit scores and
risk scores with the rule-based scorer. No network access is needed;
the same seed always reproduces the same portfolio.

Examples:
  syndata simulate --rows 50 -o portfolio.csv
  syndata simulate --rows 100 --seed 42 -o portfolio.csv`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateRows, "rows", 50, "number of companies to simulate")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "random seed (0 uses the current time)")
	simulateCmd.Flags().StringVarP(&simulateOutput, "output", "o", "", "output CSV (required)")
	_ = simulateCmd.MarkFlagRequired("output")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if simulateRows <= 0 {
		return fmt.Errorf("--rows must be positive, got %d", simulateRows)
	}

	seed := simulateSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	companies := rules.NewSimulator(seed).Generate(simulateRows)

	tbl := &table.Table{
		Header: []string{
			"Loan Value", "Collateral Value", "Loan Tenure (Months)",
			"Loan to Collateral Ratio", "Credit Score", "Risk Score", "Explanation",
		},
		Rows: make([][]string, len(companies)),
	}
	for i, co := range companies {
		tbl.Rows[i] = []string{
			strconv.FormatFloat(co.LoanValue, 'f', -1, 64),
			strconv.FormatFloat(co.CollateralValue, 'f', -1, 64),
			strconv.Itoa(co.LoanTenureMonths),
			strconv.FormatFloat(co.LoanToCollateralRatio, 'f', 3, 64),
			strconv.Itoa(co.CreditScore),
			strconv.Itoa(co.RiskScore),
			co.Explanation,
		}
	}

	if err := tbl.WriteCSV(simulateOutput); err != nil {
		return err
	}
	fmt.Printf("Wrote %d simulated companies to %s (seed %d)\n", len(companies), simulateOutput, seed)
	return nil
}
