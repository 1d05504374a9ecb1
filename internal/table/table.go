// Package table reads and writes the tabular company files the pipeline
// consumes and produces.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/credyukti/syndata-go/internal/models"
)

// syntheticColumns are appended to the output table, in this order.
var syntheticColumns = []string{
	"Loan Value", "Collateral Value", "Loan Tenure",
	"Credit Score", "Risk Score", "Explanation",
}

// Table is an in-memory tabular file with named columns.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCSV loads a table. Every row must match the header width.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read input table: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("input table %s is empty", path)
	}

	return &Table{Header: all[0], Rows: all[1:]}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Head returns a copy of the table truncated to at most n rows. A
// non-positive n keeps everything.
func (t *Table) Head(n int) *Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	return &Table{Header: t.Header, Rows: t.Rows[:n]}
}

// Records converts rows to pipeline records, dropping the excluded
// identity and raw-financial columns and any empty cells. Exclusion
// matching is case-insensitive.
func (t *Table) Records(exclude []string) []models.FinancialRecord {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[strings.ToLower(strings.TrimSpace(name))] = true
	}

	keep := make([]int, 0, len(t.Header))
	for i, name := range t.Header {
		if !excluded[strings.ToLower(strings.TrimSpace(name))] {
			keep = append(keep, i)
		}
	}

	records := make([]models.FinancialRecord, len(t.Rows))
	for rowIdx, row := range t.Rows {
		fields := make([]models.Field, 0, len(keep))
		for _, col := range keep {
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			fields = append(fields, models.Field{Name: t.Header[col], Value: value})
		}
		records[rowIdx] = models.FinancialRecord{Row: rowIdx, Fields: fields}
	}
	return records
}

// WithSynthetic returns a new table with the synthetic columns appended
// and filled positionally from results. The result count must equal the
// row count; failed rows get empty numeric cells and the sentinel
// explanation.
func (t *Table) WithSynthetic(results []models.GenerationResult) (*Table, error) {
	if len(results) != len(t.Rows) {
		return nil, fmt.Errorf("got %d results for %d rows", len(results), len(t.Rows))
	}

	header := make([]string, 0, len(t.Header)+len(syntheticColumns))
	header = append(header, t.Header...)
	header = append(header, syntheticColumns...)

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, 0, len(header))
		out = append(out, row...)
		out = append(out, syntheticCells(results[i])...)
		rows[i] = out
	}

	return &Table{Header: header, Rows: rows}, nil
}

func syntheticCells(r models.GenerationResult) []string {
	if !r.OK() {
		return []string{"", "", "", "", "", models.SentinelExplanation}
	}
	f := r.Fields
	return []string{
		strconv.FormatFloat(f.LoanValue, 'f', -1, 64),
		strconv.FormatFloat(f.CollateralValue, 'f', -1, 64),
		strconv.Itoa(f.LoanTenureMonths),
		strconv.Itoa(f.CreditScore),
		strconv.Itoa(f.RiskScore),
		f.Explanation,
	}
}

// WriteCSV persists the table.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output table: %w", err)
	}
	return f.Close()
}
