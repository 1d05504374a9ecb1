package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/credyukti/syndata-go/internal/llm"
	"github.com/credyukti/syndata-go/internal/models"
)

// fakeCompleter returns scripted responses or errors, counting calls.
type fakeCompleter struct {
	calls     int
	responses []string
	errs      []error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return "", errors.New("no scripted response")
}

func testBatch(rows int) models.Batch {
	records := make([]models.FinancialRecord, rows)
	for i := range records {
		records[i] = models.FinancialRecord{
			Row: i,
			Fields: []models.Field{
				{Name: "Net Profit Margin", Value: fmt.Sprintf("%d.5", 10+i)},
				{Name: "Current Ratio", Value: "2.1"},
			},
		}
	}
	return models.Batch{Index: 0, Start: 0, Records: records}
}

const validRowResponse = `{"Loan Value": 10000000, "Collateral Value": 15000000,
"Loan Tenure (Months)": 120, "Credit Score": 750, "Risk Score": 20,
"Explanation": "stable"}`

func validTableResponse(rows int) string {
	var b strings.Builder
	b.WriteString("Loan Value|Collateral Value|Loan Tenure|Credit Score|Risk Score")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "\n%d|%d|%d|%d|%d", 10000000+i, 15000000+i, 120, 700+i, 20+i)
	}
	return b.String()
}

func TestGenerateBatch_RowMode(t *testing.T) {
	fake := &fakeCompleter{responses: []string{validRowResponse}}
	gen, err := New(fake, Options{Mode: ModeRow, Bounds: models.DefaultBounds()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := gen.GenerateBatch(context.Background(), testBatch(3))
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if !r.OK() {
			t.Errorf("result %d failed: %s", i, r.FailureReason)
		}
	}
	if fake.calls != 3 {
		t.Errorf("made %d calls, want 3 (one per row)", fake.calls)
	}
}

func TestGenerateBatch_BatchMode(t *testing.T) {
	fake := &fakeCompleter{responses: []string{validTableResponse(4)}}
	gen, err := New(fake, Options{Mode: ModeBatch, Bounds: models.DefaultBounds()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := gen.GenerateBatch(context.Background(), testBatch(4))
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	if fake.calls != 1 {
		t.Errorf("made %d calls, want 1 (one per batch)", fake.calls)
	}
	// Parsed values keep table order
	if results[0].Fields.RiskScore != 20 || results[3].Fields.RiskScore != 23 {
		t.Errorf("results out of order: %v, %v", results[0].Fields, results[3].Fields)
	}
}

func TestGenerateBatch_TransportErrorBecomesSentinel(t *testing.T) {
	fake := &fakeCompleter{errs: []error{errors.New("connection refused"), errors.New("connection refused")}}
	gen, err := New(fake, Options{Mode: ModeBatch, Bounds: models.DefaultBounds(), MaxRetries: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := gen.GenerateBatch(context.Background(), testBatch(5))
	if err != nil {
		t.Fatalf("GenerateBatch() must not return transport errors, got %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want full coverage of 5", len(results))
	}
	for i, r := range results {
		if r.OK() {
			t.Errorf("result %d should be sentinel", i)
		}
		if r.FailureReason == "" {
			t.Errorf("result %d missing failure reason", i)
		}
	}
}

func TestGenerateBatch_ParseFailureBecomesSentinel(t *testing.T) {
	fake := &fakeCompleter{responses: []string{"I'm sorry, I can't help with that."}}
	gen, err := New(fake, Options{Mode: ModeRow, Bounds: models.DefaultBounds()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := gen.GenerateBatch(context.Background(), testBatch(2))
	if err != nil {
		t.Fatalf("GenerateBatch() must not return parse errors, got %v", err)
	}
	for i, r := range results {
		if r.OK() {
			t.Errorf("result %d should be sentinel", i)
		}
	}
}

func TestGenerateBatch_RetryIsBounded(t *testing.T) {
	transient := errors.New("connection reset")
	fake := &fakeCompleter{errs: []error{transient, transient, transient, transient}}
	gen, err := New(fake, Options{Mode: ModeBatch, Bounds: models.DefaultBounds(), MaxRetries: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := gen.GenerateBatch(context.Background(), testBatch(1)); err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if fake.calls != 3 {
		t.Errorf("made %d calls, want 3 (1 attempt + 2 retries)", fake.calls)
	}
}

func TestGenerateBatch_RetrySucceedsSecondAttempt(t *testing.T) {
	fake := &fakeCompleter{
		errs:      []error{errors.New("connection reset"), nil},
		responses: []string{"", validTableResponse(2)},
	}
	gen, err := New(fake, Options{Mode: ModeBatch, Bounds: models.DefaultBounds(), MaxRetries: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := gen.GenerateBatch(context.Background(), testBatch(2))
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	for i, r := range results {
		if !r.OK() {
			t.Errorf("result %d failed after successful retry: %s", i, r.FailureReason)
		}
	}
}

func TestGenerateBatch_FatalErrorNotRetried(t *testing.T) {
	fatal := fmt.Errorf("%w: invalid api key", llm.ErrFatalAPI)
	fake := &fakeCompleter{errs: []error{fatal, fatal, fatal}}
	gen, err := New(fake, Options{Mode: ModeBatch, Bounds: models.DefaultBounds(), MaxRetries: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := gen.GenerateBatch(context.Background(), testBatch(2))
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("made %d calls, want 1 (fatal errors skip retries)", fake.calls)
	}
	for i, r := range results {
		if r.OK() {
			t.Errorf("result %d should be sentinel", i)
		}
	}
}

func TestGenerateBatch_EmptyRecordIsFormatError(t *testing.T) {
	fake := &fakeCompleter{responses: []string{validRowResponse}}
	gen, err := New(fake, Options{Mode: ModeRow, Bounds: models.DefaultBounds()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	batch := models.Batch{Records: []models.FinancialRecord{{Row: 0}}}
	if _, err := gen.GenerateBatch(context.Background(), batch); err == nil {
		t.Error("GenerateBatch() with unrenderable record should abort with an error")
	}
	if fake.calls != 0 {
		t.Errorf("made %d calls, want 0 (format errors abort before any request)", fake.calls)
	}
}
