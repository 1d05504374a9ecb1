// Package rules implements the offline, rule-based counterpart to the
// LLM pipeline: a deterministic risk scorer over raw financials and a
// seeded simulator for producing sample portfolios without any API.
package rules

import "fmt"

// Financials holds the raw statement values the scorer reads. Amounts
// are in the portfolio's base currency.
type Financials struct {
	TotalAssets        float64
	NetIncome          float64
	Equity             float64
	TotalDebt          float64
	CurrentLiabilities float64
	CurrentAssets      float64
	EBIT               float64
	NetProfitMargin    float64 // percent
}

// RiskScore applies the additive threshold rules. Each triggered rule
// adds a fixed penalty; a fully healthy company scores 0, the worst
// case 75.
func RiskScore(f Financials) int {
	score := 0
	if f.NetIncome < 0 {
		score += 20
	}
	if f.TotalDebt > 20_000_000 {
		score += 15
	}
	if f.Equity < 10_000_000 {
		score += 15
	}
	if f.CurrentLiabilities > f.CurrentAssets {
		score += 10
	}
	if f.EBIT < 0 {
		score += 10
	}
	if f.NetProfitMargin < 0 {
		score += 5
	}
	return score
}

// CreditScore maps a risk score onto the 300-900 credit band. The
// mapping is inverse and floored at 300.
func CreditScore(riskScore int) int {
	credit := 800 - riskScore
	if credit < 300 {
		credit = 300
	}
	return credit
}

// Explain renders the scorer's reasoning for one company.
func Explain(f Financials) string {
	return fmt.Sprintf(
		"Risk score is based on financial health. Net income: %.0f, Debt: %.0f, Equity: %.0f, Liquidity: %.0f, Profit margin: %.2f%%",
		f.NetIncome, f.TotalDebt, f.Equity, f.CurrentLiabilities-f.CurrentAssets, f.NetProfitMargin,
	)
}
