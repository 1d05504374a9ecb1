package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/credyukti/syndata-go/internal/config"
	"github.com/credyukti/syndata-go/internal/generator"
	"github.com/credyukti/syndata-go/internal/llm"
	"github.com/credyukti/syndata-go/internal/metrics"
	"github.com/credyukti/syndata-go/internal/models"
	"github.com/credyukti/syndata-go/internal/pipeline"
	"github.com/credyukti/syndata-go/internal/table"
)

var (
	generateInput         string
	generateOutput        string
	generateCheckpointDir string
	generateProfile       string
	generateMode          string
	generateBatchSize     int
	generateConcurrency   int
	generateLimit         int
	generateNoProgress    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic loan data for a company financials table",
	Long: `Generate synthetic loan and risk data for every row of a company
financials CSV. Identity and raw statement columns are withheld; only
derived ratios reach the model. Failed rows get sentinel values so the
output always has the same row count and order as the input.

Examples:
  syndata generate -i companies.csv -o companies_synthetic.csv
  syndata generate -i companies.csv -o out.csv --mode row --limit 10
  syndata generate -i companies.csv -o out.csv --checkpoint-dir ./checkpoints`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "input CSV of company financials (required)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output CSV with synthetic columns appended (required)")
	generateCmd.Flags().StringVar(&generateCheckpointDir, "checkpoint-dir", "", "directory for per-batch checkpoint files")
	generateCmd.Flags().StringVar(&generateProfile, "profile", "", "YAML generation profile")
	generateCmd.Flags().StringVar(&generateMode, "mode", "", "generation mode: row or batch (default from profile)")
	generateCmd.Flags().IntVar(&generateBatchSize, "batch-size", 0, "rows per batch (default from profile)")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "concurrent batches in flight")
	generateCmd.Flags().IntVar(&generateLimit, "limit", 0, "process only the first N rows")
	generateCmd.Flags().BoolVar(&generateNoProgress, "no-progress", false, "disable the interactive progress bar")
	_ = generateCmd.MarkFlagRequired("input")
	_ = generateCmd.MarkFlagRequired("output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	profile, err := config.LoadProfile(generateProfile)
	if err != nil {
		return err
	}
	// Flags win over the profile.
	if generateMode != "" {
		profile.Mode = generateMode
	}
	if generateBatchSize > 0 {
		profile.BatchSize = generateBatchSize
	}
	if profile.Temperature != 0 {
		cfg.Temperature = profile.Temperature
	}
	if profile.MaxTokens != 0 {
		cfg.MaxTokens = profile.MaxTokens
	}

	concurrency := cfg.Concurrency
	if generateConcurrency > 0 {
		concurrency = generateConcurrency
	}

	tbl, err := table.ReadCSV(generateInput)
	if err != nil {
		return err
	}
	tbl = tbl.Head(generateLimit)
	records := tbl.Records(profile.ExcludeColumns)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}

	collector := metrics.NewCollector()
	model.SetMetrics(collector)

	gen, err := generator.New(model, generator.Options{
		Mode:              generator.Mode(profile.Mode),
		Bounds:            boundsFromProfile(profile),
		MaxRetries:        cfg.MaxRetries,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		BatchSize:     profile.BatchSize,
		Concurrency:   concurrency,
		CheckpointDir: generateCheckpointDir,
		Metrics:       collector,
	}

	var result *pipeline.RunResult
	if useProgressUI() {
		err = RunWithProgress(len(records), cancel, func(onProgress func(done, total int)) error {
			opts.OnProgress = onProgress
			var runErr error
			result, runErr = pipeline.New(gen, opts).Run(ctx, records)
			return runErr
		})
	} else {
		result, err = pipeline.New(gen, opts).Run(ctx, records)
	}
	if err != nil {
		return err
	}

	merged, err := tbl.WithSynthetic(result.Results)
	if err != nil {
		return err
	}
	if err := merged.WriteCSV(generateOutput); err != nil {
		return err
	}

	fmt.Printf("Wrote %d rows to %s (%d failed) in %s\n",
		merged.Len(), generateOutput, result.Failed, result.Duration.Round(time.Millisecond))
	logRunStats(collector)
	return nil
}

// logRunStats records completion and batch statistics in the run log.
func logRunStats(c *metrics.Collector) {
	snap := c.Snapshot()
	if snap.Completion != nil {
		args := []any{
			"requests", snap.Completion.Count,
			"avg_ms", snap.Completion.AvgTimeMs,
			"max_ms", snap.Completion.MaxTimeMs,
		}
		if snap.Completion.TotalInputTokens != nil {
			args = append(args,
				"input_tokens", *snap.Completion.TotalInputTokens,
				"output_tokens", *snap.Completion.TotalOutputTokens,
			)
		}
		slog.Info("completion stats", args...)
	}
	if snap.Batch != nil {
		slog.Info("batch stats", "batches", snap.Batch.Count, "avg_ms", snap.Batch.AvgTimeMs, "max_ms", snap.Batch.MaxTimeMs)
	}
}

func boundsFromProfile(p config.Profile) models.Bounds {
	return models.Bounds{
		LoanMin:       p.Bounds.LoanMin,
		LoanMax:       p.Bounds.LoanMax,
		CollateralMin: p.Bounds.CollateralMin,
		CollateralMax: p.Bounds.CollateralMax,
		TenureMin:     p.Bounds.TenureMin,
		TenureMax:     p.Bounds.TenureMax,
		CreditMin:     p.Bounds.CreditMin,
		CreditMax:     p.Bounds.CreditMax,
	}
}

// useProgressUI reports whether the interactive progress bar should run.
func useProgressUI() bool {
	return !generateNoProgress && term.IsTerminal(int(os.Stdout.Fd()))
}
