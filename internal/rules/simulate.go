package rules

import (
	"math"
	"math/rand"
)

// SimulatedCompany is one synthetic portfolio row produced without any
// LLM call.
type SimulatedCompany struct {
	Financials Financials

	LoanValue             float64
	CollateralValue       float64
	LoanTenureMonths      int
	LoanToCollateralRatio float64
	CreditScore           int
	RiskScore             int
	Explanation           string
}

// Simulator generates companies from a seeded source, so identical
// seeds reproduce identical portfolios.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a simulator with the given seed.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces n simulated companies.
func (s *Simulator) Generate(n int) []SimulatedCompany {
	companies := make([]SimulatedCompany, n)
	for i := range companies {
		companies[i] = s.one()
	}
	return companies
}

func (s *Simulator) one() SimulatedCompany {
	f := Financials{
		TotalAssets:        float64(s.intBetween(10_000_000, 100_000_000)),
		NetIncome:          float64(s.intBetween(-50_000_000, 50_000_000)),
		Equity:             float64(s.intBetween(5_000_000, 50_000_000)),
		TotalDebt:          float64(s.intBetween(1_000_000, 30_000_000)),
		CurrentLiabilities: float64(s.intBetween(500_000, 15_000_000)),
		CurrentAssets:      float64(s.intBetween(2_000_000, 15_000_000)),
		EBIT:               float64(s.intBetween(-10_000_000, 30_000_000)),
		NetProfitMargin:    s.floatBetween(-5, 20),
	}

	risk := RiskScore(f)

	// Loan sizing follows assets and profitability; collateral tracks
	// equity. Both are clamped to the portfolio's lending band.
	loan := clamp(f.TotalAssets*0.1+f.NetIncome*0.03, 1_000_000, 50_000_000)
	collateral := clamp(f.Equity*0.8, 1_000_000, 55_000_000)

	return SimulatedCompany{
		Financials:            f,
		LoanValue:             loan,
		CollateralValue:       collateral,
		LoanTenureMonths:      s.intBetween(12, 240),
		LoanToCollateralRatio: math.Round(loan/collateral*1000) / 1000,
		CreditScore:           CreditScore(risk),
		RiskScore:             risk,
		Explanation:           Explain(f),
	}
}

// intBetween returns an int in [lo, hi].
func (s *Simulator) intBetween(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

// floatBetween returns a float in [lo, hi).
func (s *Simulator) floatBetween(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
