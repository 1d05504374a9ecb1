package models

// BatchState tracks a batch through the orchestrator.
type BatchState string

const (
	BatchPending    BatchState = "pending"
	BatchDispatched BatchState = "dispatched"
	BatchCompleted  BatchState = "completed"
	BatchFailed     BatchState = "failed"
)

// Batch is a contiguous slice of records processed as one unit of
// completion call and checkpoint write. Start is the table row of the
// first record, so results merge back positionally.
type Batch struct {
	Index   int
	Start   int
	Records []FinancialRecord
}

// Partition splits records into contiguous batches of at most size rows,
// preserving the original order. A non-positive size yields one batch.
func Partition(records []FinancialRecord, size int) []Batch {
	if len(records) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(records)
	}

	batches := make([]Batch, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, Batch{
			Index:   len(batches),
			Start:   start,
			Records: records[start:end],
		})
	}
	return batches
}
