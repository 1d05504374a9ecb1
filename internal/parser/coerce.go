package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/credyukti/syndata-go/internal/models"
)

// coerceFloat converts a decoded JSON value or table cell to float64,
// stripping thousands separators from string values.
func coerceFloat(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return f, nil
	case float64:
		return x, nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", "")
		s = strings.TrimPrefix(s, "₹")
		s = strings.TrimPrefix(s, "Rs ")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: not a number: %q", ErrParse, x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: unexpected value type %T", ErrParse, v)
	}
}

// coerceInt converts a decoded value to int, rejecting fractional parts.
func coerceInt(v any) (int, error) {
	f, err := coerceFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: expected integer, got %v", ErrParse, f)
	}
	return int(f), nil
}

// objectKeys maps each synthetic field to the JSON key variants the
// model has been seen to emit.
var objectKeys = map[string][]string{
	"loan":       {"Loan Value"},
	"collateral": {"Collateral Value"},
	"tenure":     {"Loan Tenure (Months)", "Loan Tenure"},
	"credit":     {"Credit Score"},
	"risk":       {"Risk Score"},
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// fieldsFromObject maps a decoded JSON object to synthetic fields and
// validates bounds. Every required field must be present.
func fieldsFromObject(obj map[string]any, bounds models.Bounds) (models.SyntheticFields, error) {
	var f models.SyntheticFields
	var err error

	for field, keys := range objectKeys {
		v, ok := lookup(obj, keys)
		if !ok {
			return f, fmt.Errorf("%w: missing field %q", ErrParse, keys[0])
		}

		switch field {
		case "loan":
			f.LoanValue, err = coerceFloat(v)
		case "collateral":
			f.CollateralValue, err = coerceFloat(v)
		case "tenure":
			f.LoanTenureMonths, err = coerceInt(v)
		case "credit":
			f.CreditScore, err = coerceInt(v)
		case "risk":
			f.RiskScore, err = coerceInt(v)
		}
		if err != nil {
			return f, fmt.Errorf("field %q: %w", keys[0], err)
		}
	}

	if v, ok := obj["Explanation"]; ok {
		if s, ok := v.(string); ok {
			f.Explanation = s
		}
	}

	if err := bounds.Validate(f); err != nil {
		return f, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return f, nil
}

// fieldsFromRow maps one delimited-table row (in tableColumns order) to
// synthetic fields and validates bounds.
func fieldsFromRow(parts []string, bounds models.Bounds) (models.SyntheticFields, error) {
	var f models.SyntheticFields
	var err error

	if f.LoanValue, err = coerceFloat(parts[0]); err != nil {
		return f, err
	}
	if f.CollateralValue, err = coerceFloat(parts[1]); err != nil {
		return f, err
	}
	if f.LoanTenureMonths, err = coerceInt(parts[2]); err != nil {
		return f, err
	}
	if f.CreditScore, err = coerceInt(parts[3]); err != nil {
		return f, err
	}
	if f.RiskScore, err = coerceInt(parts[4]); err != nil {
		return f, err
	}

	if err := bounds.Validate(f); err != nil {
		return f, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return f, nil
}
