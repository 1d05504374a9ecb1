package rules

import (
	"strings"
	"testing"
)

func healthyFinancials() Financials {
	return Financials{
		TotalAssets:        80_000_000,
		NetIncome:          12_000_000,
		Equity:             40_000_000,
		TotalDebt:          5_000_000,
		CurrentLiabilities: 3_000_000,
		CurrentAssets:      9_000_000,
		EBIT:               15_000_000,
		NetProfitMargin:    14.2,
	}
}

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Financials)
		want   int
	}{
		{"healthy company scores zero", func(f *Financials) {}, 0},
		{"net loss", func(f *Financials) { f.NetIncome = -1_000_000 }, 20},
		{"heavy debt", func(f *Financials) { f.TotalDebt = 25_000_000 }, 15},
		{"thin equity", func(f *Financials) { f.Equity = 8_000_000 }, 15},
		{"liquidity squeeze", func(f *Financials) { f.CurrentLiabilities = 12_000_000 }, 10},
		{"negative ebit", func(f *Financials) { f.EBIT = -500_000 }, 10},
		{"negative margin", func(f *Financials) { f.NetProfitMargin = -2.5 }, 5},
		{
			"worst case stacks every rule",
			func(f *Financials) {
				f.NetIncome = -5_000_000
				f.TotalDebt = 30_000_000
				f.Equity = 6_000_000
				f.CurrentLiabilities = 14_000_000
				f.CurrentAssets = 3_000_000
				f.EBIT = -2_000_000
				f.NetProfitMargin = -4.0
			},
			75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := healthyFinancials()
			tt.mutate(&f)
			if got := RiskScore(f); got != tt.want {
				t.Errorf("RiskScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCreditScore(t *testing.T) {
	if got := CreditScore(0); got != 800 {
		t.Errorf("CreditScore(0) = %d, want 800", got)
	}
	if got := CreditScore(30); got != 770 {
		t.Errorf("CreditScore(30) = %d, want 770", got)
	}
	// Floor at 300 even for scores that would map below it.
	if got := CreditScore(600); got != 300 {
		t.Errorf("CreditScore(600) = %d, want 300", got)
	}
}

func TestExplainMentionsDrivers(t *testing.T) {
	f := healthyFinancials()
	text := Explain(f)
	for _, want := range []string{"Net income", "Debt", "Equity", "Liquidity", "Profit margin"} {
		if !strings.Contains(text, want) {
			t.Errorf("Explain() missing %q: %s", want, text)
		}
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	a := NewSimulator(42).Generate(10)
	b := NewSimulator(42).Generate(10)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at row %d", i)
		}
	}

	c := NewSimulator(7).Generate(10)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical portfolios")
	}
}

func TestSimulatorBounds(t *testing.T) {
	for _, co := range NewSimulator(1).Generate(200) {
		if co.LoanValue < 1_000_000 || co.LoanValue > 50_000_000 {
			t.Errorf("loan value %f out of band", co.LoanValue)
		}
		if co.CollateralValue < 1_000_000 || co.CollateralValue > 55_000_000 {
			t.Errorf("collateral value %f out of band", co.CollateralValue)
		}
		if co.LoanTenureMonths < 12 || co.LoanTenureMonths > 240 {
			t.Errorf("tenure %d out of band", co.LoanTenureMonths)
		}
		if co.CreditScore < 300 || co.CreditScore > 800 {
			t.Errorf("credit score %d out of band", co.CreditScore)
		}
		if co.RiskScore != RiskScore(co.Financials) {
			t.Errorf("risk score %d does not match its financials", co.RiskScore)
		}
		if co.CreditScore != CreditScore(co.RiskScore) {
			t.Errorf("credit score %d inconsistent with risk %d", co.CreditScore, co.RiskScore)
		}
	}
}
