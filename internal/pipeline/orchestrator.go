// Package pipeline orchestrates batch synthetic data generation: it
// partitions the input table, dispatches batches to a fixed-size worker
// pool, checkpoints each completed batch and merges results back in
// input order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/credyukti/syndata-go/internal/metrics"
	"github.com/credyukti/syndata-go/internal/models"
	"github.com/google/uuid"
)

// Generator is the per-batch generation boundary, implemented by
// generator.Generator.
type Generator interface {
	GenerateBatch(ctx context.Context, batch models.Batch) ([]models.GenerationResult, error)
}

// Options configures an orchestrator run.
type Options struct {
	BatchSize   int
	Concurrency int

	// CheckpointDir is the base directory for per-batch artifacts.
	// Empty disables checkpointing.
	CheckpointDir string

	// OnProgress, if set, is called after every completed batch with
	// rows done so far and total rows. Calls may come from any worker.
	OnProgress func(done, total int)

	// Metrics, if set, collects per-batch and checkpoint timings.
	Metrics *metrics.Collector
}

// BatchStatus records the terminal state of one batch.
type BatchStatus struct {
	Index int
	Rows  int
	State models.BatchState
}

// RunResult is the outcome of one orchestrated run. Results always has
// exactly one entry per input record, in input order.
type RunResult struct {
	RunID    string
	Results  []models.GenerationResult
	Batches  []BatchStatus
	Failed   int
	Duration time.Duration
}

// Orchestrator drives a worker pool over the partitioned input.
type Orchestrator struct {
	gen  Generator
	opts Options
}

// New creates an orchestrator. Lifecycle is scoped to one run; nothing
// here is process-global.
func New(gen Generator, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Orchestrator{gen: gen, opts: opts}
}

// Run processes all records and returns a full-length, input-ordered
// result set. Only configuration errors (prompt rendering, checkpoint
// directory creation) abort the run; generation failures degrade to
// sentinel-filled batches.
func (o *Orchestrator) Run(ctx context.Context, records []models.FinancialRecord) (*RunResult, error) {
	start := time.Now()
	runID := uuid.New().String()[:8]

	batches := models.Partition(records, o.opts.BatchSize)
	slog.Info("run started", "run_id", runID, "rows", len(records), "batches", len(batches), "concurrency", o.opts.Concurrency)

	var checkpointer *Checkpointer
	if o.opts.CheckpointDir != "" {
		var err error
		checkpointer, err = NewCheckpointer(o.opts.CheckpointDir, runID)
		if err != nil {
			return nil, err
		}
	}

	var (
		mu        sync.Mutex
		byIndex   = make(map[int][]models.GenerationResult, len(batches))
		states    = make([]models.BatchState, len(batches))
		rowsDone  atomic.Int64
		abortOnce sync.Once
		abortErr  error
	)
	for i := range states {
		states[i] = models.BatchPending
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	batchChan := make(chan models.Batch, len(batches))
	var wg sync.WaitGroup

	for i := 0; i < o.opts.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range batchChan {
				if runCtx.Err() != nil {
					return
				}

				mu.Lock()
				states[batch.Index] = models.BatchDispatched
				mu.Unlock()

				batchStart := time.Now()
				results, err := o.gen.GenerateBatch(runCtx, batch)
				if o.opts.Metrics != nil {
					o.opts.Metrics.RecordTiming(metrics.OpBatch, time.Since(batchStart))
				}
				if err != nil {
					// Prompt rendering is a configuration error; no amount
					// of substitution repairs it, so the whole run stops.
					abortOnce.Do(func() {
						abortErr = fmt.Errorf("batch %d: %w", batch.Index, err)
						cancel()
					})
					return
				}

				state := models.BatchCompleted
				failed := countFailed(results)
				if failed == len(results) && len(results) > 0 {
					state = models.BatchFailed
				}

				// Set-once per index; merge order is decided by batch
				// index, not completion order.
				mu.Lock()
				byIndex[batch.Index] = results
				states[batch.Index] = state
				mu.Unlock()

				done := int(rowsDone.Add(int64(len(results))))
				slog.Info("batch done", "worker", workerID, "run_id", runID, "batch", batch.Index, "rows", len(results), "failed_rows", failed, "progress", fmt.Sprintf("%d/%d", done, len(records)))

				if checkpointer != nil {
					cpStart := time.Now()
					if err := checkpointer.WriteBatch(batch, results); err != nil {
						slog.Warn("checkpoint write failed", "run_id", runID, "batch", batch.Index, "error", err)
					}
					if o.opts.Metrics != nil {
						o.opts.Metrics.RecordTiming(metrics.OpCheckpoint, time.Since(cpStart))
					}
				}

				if o.opts.OnProgress != nil {
					o.opts.OnProgress(done, len(records))
				}
			}
		}(i)
	}

	for _, b := range batches {
		batchChan <- b
	}
	close(batchChan)
	wg.Wait()

	if abortErr != nil {
		return nil, abortErr
	}
	if err := ctx.Err(); err != nil {
		// Cancelled: undispatched batches stay absent rather than
		// sentinel-filled, so a rerun can tell "never attempted" from
		// "attempted and failed".
		return nil, err
	}

	result := &RunResult{
		RunID:    runID,
		Results:  make([]models.GenerationResult, 0, len(records)),
		Batches:  make([]BatchStatus, len(batches)),
		Duration: time.Since(start),
	}

	for _, batch := range batches {
		results, ok := byIndex[batch.Index]
		if !ok || len(results) != len(batch.Records) {
			return nil, fmt.Errorf("batch %d produced %d results, want %d", batch.Index, len(results), len(batch.Records))
		}
		result.Results = append(result.Results, results...)
		result.Batches[batch.Index] = BatchStatus{
			Index: batch.Index,
			Rows:  len(batch.Records),
			State: states[batch.Index],
		}
		result.Failed += countFailed(results)
	}

	slog.Info("run complete", "run_id", runID, "rows", len(result.Results), "failed_rows", result.Failed, "duration", result.Duration)
	return result, nil
}

func countFailed(results []models.GenerationResult) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
