package models

import "fmt"

// SentinelExplanation marks rows whose generation or parsing failed.
const SentinelExplanation = "Generation failed"

// SyntheticFields is the generated output for one company row.
type SyntheticFields struct {
	LoanValue        float64
	CollateralValue  float64
	LoanTenureMonths int
	CreditScore      int
	RiskScore        int
	Explanation      string
}

// Bounds are the domain limits every generated record must satisfy.
type Bounds struct {
	LoanMin       float64
	LoanMax       float64
	CollateralMin float64
	CollateralMax float64
	TenureMin     int
	TenureMax     int
	CreditMin     int
	CreditMax     int
}

// DefaultBounds matches the ranges the original prompts demanded:
// loan ₹10L–₹50Cr, collateral ₹10L–₹55Cr, tenure 6–240 months,
// credit score 300–900, risk score 0–100.
func DefaultBounds() Bounds {
	return Bounds{
		LoanMin:       1_000_000,
		LoanMax:       500_000_000,
		CollateralMin: 1_000_000,
		CollateralMax: 550_000_000,
		TenureMin:     6,
		TenureMax:     240,
		CreditMin:     300,
		CreditMax:     900,
	}
}

// Validate checks every numeric field against its bound. The risk score
// range is fixed at 0–100 regardless of configuration.
func (b Bounds) Validate(f SyntheticFields) error {
	if f.LoanValue < b.LoanMin || f.LoanValue > b.LoanMax {
		return fmt.Errorf("loan value %.0f outside [%.0f, %.0f]", f.LoanValue, b.LoanMin, b.LoanMax)
	}
	if f.CollateralValue < b.CollateralMin || f.CollateralValue > b.CollateralMax {
		return fmt.Errorf("collateral value %.0f outside [%.0f, %.0f]", f.CollateralValue, b.CollateralMin, b.CollateralMax)
	}
	if f.LoanTenureMonths < b.TenureMin || f.LoanTenureMonths > b.TenureMax {
		return fmt.Errorf("loan tenure %d outside [%d, %d]", f.LoanTenureMonths, b.TenureMin, b.TenureMax)
	}
	if f.CreditScore < b.CreditMin || f.CreditScore > b.CreditMax {
		return fmt.Errorf("credit score %d outside [%d, %d]", f.CreditScore, b.CreditMin, b.CreditMax)
	}
	if f.RiskScore < 0 || f.RiskScore > 100 {
		return fmt.Errorf("risk score %d outside [0, 100]", f.RiskScore)
	}
	return nil
}

// GenerationResult is the outcome for one record: either parsed synthetic
// fields or a sentinel. Results are never mutated after creation.
type GenerationResult struct {
	// Fields is nil for sentinel results.
	Fields *SyntheticFields

	// FailureReason records why generation failed, for logs and the
	// checkpoint artifact. Empty on success.
	FailureReason string
}

// OK reports whether the result carries parsed fields.
func (r GenerationResult) OK() bool {
	return r.Fields != nil
}

// Sentinel builds the placeholder result substituted when generation or
// parsing fails. All numeric fields are absent.
func Sentinel(reason string) GenerationResult {
	return GenerationResult{FailureReason: reason}
}

// Success wraps parsed fields in a result.
func Success(f SyntheticFields) GenerationResult {
	return GenerationResult{Fields: &f}
}
