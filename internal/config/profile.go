package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the per-dataset generation tunables that used to be
// hardcoded in the original scripts: which columns are withheld from the
// completion boundary, the batch shape, and the synthetic field bounds.
type Profile struct {
	// ExcludeColumns are identity and raw-financial columns that must not
	// be sent to the completion boundary.
	ExcludeColumns []string `yaml:"exclude_columns"`

	// Mode is "row" (one JSON object per record) or "batch" (one
	// pipe-separated table per batch).
	Mode string `yaml:"mode"`

	BatchSize   int     `yaml:"batch_size"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	Bounds ProfileBounds `yaml:"bounds"`
}

// ProfileBounds mirrors models.Bounds in YAML form.
type ProfileBounds struct {
	LoanMin       float64 `yaml:"loan_min"`
	LoanMax       float64 `yaml:"loan_max"`
	CollateralMin float64 `yaml:"collateral_min"`
	CollateralMax float64 `yaml:"collateral_max"`
	TenureMin     int     `yaml:"tenure_min"`
	TenureMax     int     `yaml:"tenure_max"`
	CreditMin     int     `yaml:"credit_min"`
	CreditMax     int     `yaml:"credit_max"`
}

// DefaultProfile returns the profile matching the original dataset:
// NSE company financials with identity and raw statement columns withheld.
func DefaultProfile() Profile {
	return Profile{
		ExcludeColumns: []string{
			"Company", "Industry", "Sector", "Financial Year",
			"Net Income Continuous Operations", "Total Revenue",
			"Stockholders Equity", "Total Assets", "Current Assets",
			"Current Liabilities", "Inventory", "Total Debt",
			"Interest Expense", "EBIT",
		},
		Mode:        "batch",
		BatchSize:   50,
		Temperature: 0.6,
		MaxTokens:   2500,
		Bounds: ProfileBounds{
			LoanMin:       1_000_000,
			LoanMax:       500_000_000,
			CollateralMin: 1_000_000,
			CollateralMax: 550_000_000,
			TenureMin:     6,
			TenureMax:     240,
			CreditMin:     300,
			CreditMax:     900,
		},
	}
}

// LoadProfile reads a YAML profile, filling unset fields from the default.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile: %w", err)
	}

	if p.Mode != "row" && p.Mode != "batch" {
		return p, fmt.Errorf("profile mode must be \"row\" or \"batch\", got %q", p.Mode)
	}
	if p.BatchSize <= 0 {
		return p, fmt.Errorf("profile batch_size must be positive, got %d", p.BatchSize)
	}
	return p, nil
}
