package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/credyukti/syndata-go/internal/models"
)

// checkpointHeader lists the columns of a batch checkpoint artifact.
var checkpointHeader = []string{
	"Row", "Loan Value", "Collateral Value", "Loan Tenure",
	"Credit Score", "Risk Score", "Explanation",
}

// Checkpointer persists one CSV per completed batch, keyed by batch
// index. Checkpoints are inspection and recovery artifacts only; the
// pipeline never reads them back.
type Checkpointer struct {
	dir string
}

// NewCheckpointer creates the run's checkpoint directory.
func NewCheckpointer(baseDir, runID string) (*Checkpointer, error) {
	dir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &Checkpointer{dir: dir}, nil
}

// Dir returns the run's checkpoint directory.
func (c *Checkpointer) Dir() string {
	return c.dir
}

// WriteBatch writes one batch's results, overwriting any previous file
// for the same index.
func (c *Checkpointer) WriteBatch(batch models.Batch, results []models.GenerationResult) error {
	path := filepath.Join(c.dir, fmt.Sprintf("batch_%03d.csv", batch.Index))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(checkpointHeader); err != nil {
		return fmt.Errorf("write checkpoint header: %w", err)
	}

	for i, r := range results {
		row := checkpointRow(batch.Start+i, r)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write checkpoint row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush checkpoint: %w", err)
	}
	return f.Close()
}

// checkpointRow renders one result. Sentinel rows keep their numeric
// cells empty so failed rows are visually distinguishable.
func checkpointRow(tableRow int, r models.GenerationResult) []string {
	if !r.OK() {
		return []string{strconv.Itoa(tableRow), "", "", "", "", "", models.SentinelExplanation}
	}
	f := r.Fields
	return []string{
		strconv.Itoa(tableRow),
		strconv.FormatFloat(f.LoanValue, 'f', -1, 64),
		strconv.FormatFloat(f.CollateralValue, 'f', -1, 64),
		strconv.Itoa(f.LoanTenureMonths),
		strconv.Itoa(f.CreditScore),
		strconv.Itoa(f.RiskScore),
		f.Explanation,
	}
}
