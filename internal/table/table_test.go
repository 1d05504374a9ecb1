package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/credyukti/syndata-go/internal/models"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleCSV = `Company,Sector,Net Profit Margin,Current Ratio
Acme Ltd,Energy,12.5,2.1
Beta Corp,Retail,8.0,
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(writeTemp(t, sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if tbl.Header[0] != "Company" || tbl.Header[3] != "Current Ratio" {
		t.Errorf("unexpected header: %v", tbl.Header)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(writeTemp(t, "")); err == nil {
		t.Error("ReadCSV() should reject an empty file")
	}
}

func TestHead(t *testing.T) {
	tbl := &Table{Header: []string{"A"}, Rows: [][]string{{"1"}, {"2"}, {"3"}}}
	if got := tbl.Head(2).Len(); got != 2 {
		t.Errorf("Head(2).Len() = %d, want 2", got)
	}
	if got := tbl.Head(0).Len(); got != 3 {
		t.Errorf("Head(0).Len() = %d, want 3 (non-positive keeps all)", got)
	}
	if got := tbl.Head(10).Len(); got != 3 {
		t.Errorf("Head(10).Len() = %d, want 3", got)
	}
}

func TestRecords_ExcludesColumnsAndEmptyCells(t *testing.T) {
	tbl, err := ReadCSV(writeTemp(t, sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	records := tbl.Records([]string{"Company", "Sector"})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Row != 0 {
		t.Errorf("Row = %d, want 0", first.Row)
	}
	if len(first.Fields) != 2 {
		t.Fatalf("record 0 has %d fields, want 2: %v", len(first.Fields), first.Fields)
	}
	for _, f := range first.Fields {
		if f.Name == "Company" || f.Name == "Sector" {
			t.Errorf("excluded column %q leaked into record", f.Name)
		}
	}
	if got, ok := first.Get("Net Profit Margin"); !ok || got != "12.5" {
		t.Errorf("Net Profit Margin = %q, %v", got, ok)
	}

	// Beta Corp's Current Ratio cell is empty and must be dropped.
	second := records[1]
	if len(second.Fields) != 1 {
		t.Fatalf("record 1 has %d fields, want 1: %v", len(second.Fields), second.Fields)
	}
	if second.Fields[0].Name != "Net Profit Margin" {
		t.Errorf("record 1 kept %q", second.Fields[0].Name)
	}
}

func TestRecords_ExclusionIsCaseInsensitive(t *testing.T) {
	tbl := &Table{
		Header: []string{"COMPANY", "Debt to Equity"},
		Rows:   [][]string{{"Acme", "0.8"}},
	}
	records := tbl.Records([]string{"company"})
	if len(records[0].Fields) != 1 || records[0].Fields[0].Name != "Debt to Equity" {
		t.Errorf("case-insensitive exclusion failed: %v", records[0].Fields)
	}
}

func TestWithSynthetic(t *testing.T) {
	tbl := &Table{
		Header: []string{"Company", "Current Ratio"},
		Rows:   [][]string{{"Acme", "2.1"}, {"Beta", "1.4"}},
	}
	results := []models.GenerationResult{
		models.Success(models.SyntheticFields{
			LoanValue:        2500000,
			CollateralValue:  4000000,
			LoanTenureMonths: 84,
			CreditScore:      720,
			RiskScore:        35,
			Explanation:      "healthy liquidity",
		}),
		models.Sentinel("transport: timeout"),
	}

	out, err := tbl.WithSynthetic(results)
	if err != nil {
		t.Fatalf("WithSynthetic() error = %v", err)
	}
	if len(out.Header) != 8 {
		t.Fatalf("output header has %d columns, want 8: %v", len(out.Header), out.Header)
	}
	if out.Len() != tbl.Len() {
		t.Fatalf("output has %d rows, want %d", out.Len(), tbl.Len())
	}

	ok := out.Rows[0]
	if ok[2] != "2500000" || ok[5] != "720" || ok[7] != "healthy liquidity" {
		t.Errorf("successful row merged wrong: %v", ok)
	}

	failed := out.Rows[1]
	for i := 2; i <= 6; i++ {
		if failed[i] != "" {
			t.Errorf("sentinel numeric cell %d = %q, want empty", i, failed[i])
		}
	}
	if failed[7] != models.SentinelExplanation {
		t.Errorf("sentinel explanation = %q, want %q", failed[7], models.SentinelExplanation)
	}
}

func TestWithSynthetic_CountMismatch(t *testing.T) {
	tbl := &Table{Header: []string{"A"}, Rows: [][]string{{"1"}, {"2"}}}
	if _, err := tbl.WithSynthetic([]models.GenerationResult{models.Sentinel("x")}); err == nil {
		t.Error("WithSynthetic() should reject a result count mismatch")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl := &Table{
		Header: []string{"Company", "Note"},
		Rows:   [][]string{{"Acme, Inc.", "has \"quotes\""}},
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := tbl.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	back, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if back.Rows[0][0] != "Acme, Inc." || back.Rows[0][1] != "has \"quotes\"" {
		t.Errorf("round trip mangled cells: %v", back.Rows[0])
	}
}
