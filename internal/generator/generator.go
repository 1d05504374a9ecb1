// Package generator turns financial records into synthetic loan data by
// calling the completion boundary and parsing its replies. Transport and
// parse failures never escape: they degrade to sentinel results so a
// single bad row or batch cannot abort a run.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/credyukti/syndata-go/internal/llm"
	"github.com/credyukti/syndata-go/internal/models"
	"github.com/credyukti/syndata-go/internal/parser"
	"github.com/credyukti/syndata-go/internal/prompt"
	"golang.org/x/time/rate"
)

// Completer is the outbound request boundary. The production
// implementation is llm.Model; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Mode selects how records are sent to the completion boundary.
type Mode string

const (
	// ModeRow sends one prompt per record and expects a JSON object.
	ModeRow Mode = "row"
	// ModeBatch sends one prompt per batch and expects a delimited table.
	ModeBatch Mode = "batch"
)

// Options configures a Generator.
type Options struct {
	Mode   Mode
	Bounds models.Bounds

	// MaxRetries is the number of additional attempts after a transport
	// or parse failure. Fatal API errors are never retried.
	MaxRetries int

	// RequestsPerMinute paces outbound calls. Zero or negative disables
	// pacing.
	RequestsPerMinute int
}

// Generator builds prompts, performs completion calls and parses the
// replies. It keeps no state between calls beyond the rate limiter.
type Generator struct {
	completer  Completer
	mode       Mode
	bounds     models.Bounds
	maxRetries int
	limiter    *rate.Limiter
	rowTmpl    *prompt.Template
	batchTmpl  *prompt.Template
}

// New creates a generator. Template validation happens here, so a broken
// template aborts before any request is sent.
func New(c Completer, opts Options) (*Generator, error) {
	rowTmpl, err := prompt.RowTemplate()
	if err != nil {
		return nil, err
	}
	batchTmpl, err := prompt.BatchTemplate()
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeBatch
	}
	if mode != ModeRow && mode != ModeBatch {
		return nil, fmt.Errorf("unknown generation mode %q", mode)
	}

	return &Generator{
		completer:  c,
		mode:       mode,
		bounds:     opts.Bounds,
		maxRetries: opts.MaxRetries,
		limiter:    rate.NewLimiter(limit, 1),
		rowTmpl:    rowTmpl,
		batchTmpl:  batchTmpl,
	}, nil
}

// GenerateBatch processes one batch and always returns exactly one
// result per record, in record order. The returned error is non-nil only
// for prompt rendering problems, which are configuration errors and
// abort the run.
func (g *Generator) GenerateBatch(ctx context.Context, batch models.Batch) ([]models.GenerationResult, error) {
	if g.mode == ModeRow {
		return g.generatePerRow(ctx, batch)
	}
	return g.generatePerBatch(ctx, batch)
}

func (g *Generator) generatePerRow(ctx context.Context, batch models.Batch) ([]models.GenerationResult, error) {
	results := make([]models.GenerationResult, 0, len(batch.Records))
	for _, rec := range batch.Records {
		userPrompt, err := prompt.BuildRowPrompt(g.rowTmpl, rec, g.bounds)
		if err != nil {
			return nil, err
		}

		fields, genErr := g.completeAndParse(ctx, userPrompt, func(raw string) (models.SyntheticFields, error) {
			return parser.ParseObject(raw, g.bounds)
		})
		if genErr != nil {
			slog.Warn("row generation failed", "batch", batch.Index, "row", rec.Row, "error", genErr)
			results = append(results, models.Sentinel(genErr.Error()))
			continue
		}
		results = append(results, models.Success(fields))
	}
	return results, nil
}

func (g *Generator) generatePerBatch(ctx context.Context, batch models.Batch) ([]models.GenerationResult, error) {
	userPrompt, err := prompt.BuildBatchPrompt(g.batchTmpl, batch.Records, g.bounds)
	if err != nil {
		return nil, err
	}

	var parsed []models.SyntheticFields
	genErr := g.withRetry(ctx, func() error {
		raw, err := g.complete(ctx, userPrompt)
		if err != nil {
			return err
		}
		parsed, err = parser.ParseTable(raw, prompt.TableDelimiter, g.bounds, len(batch.Records))
		return err
	})
	if genErr != nil {
		slog.Warn("batch generation failed", "batch", batch.Index, "rows", len(batch.Records), "error", genErr)
		results := make([]models.GenerationResult, len(batch.Records))
		for i := range results {
			results[i] = models.Sentinel(genErr.Error())
		}
		return results, nil
	}

	results := make([]models.GenerationResult, len(parsed))
	for i, f := range parsed {
		results[i] = models.Success(f)
	}
	return results, nil
}

// completeAndParse runs one request plus parse under the retry policy.
func (g *Generator) completeAndParse(ctx context.Context, userPrompt string, parse func(string) (models.SyntheticFields, error)) (models.SyntheticFields, error) {
	var fields models.SyntheticFields
	err := g.withRetry(ctx, func() error {
		raw, err := g.complete(ctx, userPrompt)
		if err != nil {
			return err
		}
		fields, err = parse(raw)
		return err
	})
	return fields, err
}

// withRetry runs fn up to 1+MaxRetries times. Fatal API errors and
// context cancellation stop retrying immediately. Retries target the
// same row or batch, so results are never reordered.
func (g *Generator) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, llm.ErrFatalAPI) || ctx.Err() != nil {
			return lastErr
		}
		if attempt < g.maxRetries {
			slog.Debug("retrying generation", "attempt", attempt+1, "error", lastErr)
		}
	}
	return lastErr
}

// complete paces and performs one completion call.
func (g *Generator) complete(ctx context.Context, userPrompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate wait: %w", err)
	}
	return g.completer.Complete(ctx, prompt.SystemPrompt, userPrompt)
}
