package image

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"codeberg.org/snonux/babycards/internal/fetch"
	"golang.org/x/sync/errgroup"
)

// Item is one image to generate
type Item struct {
	Word   string
	Style  string
	Prompt string
	Path   string // Destination file
}

// Result is the outcome of one Item
type Result struct {
	Item     Item
	Success  bool
	Cost     float64 // Dollars spent, zero on failure
	Bytes    int64
	Duration time.Duration
	Err      error
}

// Summary aggregates a batch of results
type Summary struct {
	Successes int
	Failures  int
	Cost      float64
}

// Summarize counts successes and failures and adds up the cost
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Success {
			s.Successes++
		} else {
			s.Failures++
		}
		s.Cost += r.Cost
	}
	return s
}

// BatchOption customizes BulkGenerate and GenerateSequential
type BatchOption func(*batchOptions)

type batchOptions struct {
	log      *slog.Logger
	progress func(done, total int, r Result)
}

// WithLogger sets the logger per-item failures are reported to
func WithLogger(log *slog.Logger) BatchOption {
	return func(o *batchOptions) { o.log = log }
}

// WithProgress registers a callback run after every item. Calls are
// serialized.
func WithProgress(fn func(done, total int, r Result)) BatchOption {
	return func(o *batchOptions) { o.progress = fn }
}

func newBatchOptions(opts []BatchOption) *batchOptions {
	o := &batchOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BulkGenerate generates all items with at most maxConcurrent calls in
// flight. A failing item never stops the others. Results are returned in
// item order.
func BulkGenerate(ctx context.Context, gen Generator, items []Item, maxConcurrent int, opts ...BatchOption) []Result {
	o := newBatchOptions(opts)
	results := make([]Result, len(items))

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		done int
	)
	g.SetLimit(maxConcurrent)

	for i, item := range items {
		g.Go(func() error {
			r := generateOne(ctx, gen, item)
			results[i] = r

			mu.Lock()
			done++
			o.report(done, len(items), r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // Items record their own errors

	return results
}

// GenerateSequential generates items one at a time with delay between
// consecutive calls. Items not reached before ctx is cancelled are
// recorded as failed with the context error.
func GenerateSequential(ctx context.Context, gen Generator, items []Item, delay time.Duration, opts ...BatchOption) []Result {
	o := newBatchOptions(opts)
	results := make([]Result, 0, len(items))

	for i, item := range items {
		if i > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}

		r := generateOne(ctx, gen, item)
		results = append(results, r)
		o.report(len(results), len(items), r)
	}
	return results
}

func (o *batchOptions) report(done, total int, r Result) {
	if !r.Success {
		o.log.Warn("image generation failed",
			slog.String("word", r.Item.Word),
			slog.String("style", r.Item.Style),
			slog.String("error", r.Err.Error()),
		)
	} else {
		o.log.Debug("image generated",
			slog.String("path", r.Item.Path),
			slog.Int64("bytes", r.Bytes),
			slog.Duration("took", r.Duration),
		)
	}
	if o.progress != nil {
		o.progress(done, total, r)
	}
}

func generateOne(ctx context.Context, gen Generator, item Item) Result {
	r := Result{Item: item}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}

	start := time.Now()
	data, err := gen.Generate(ctx, item.Prompt)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		return r
	}
	if len(data) == 0 {
		r.Err = &GenerationError{Provider: gen.Name(), Code: "EMPTY", Message: "empty image"}
		return r
	}

	n, err := fetch.WriteFile(item.Path, bytes.NewReader(data), 0)
	if err != nil {
		r.Err = err
		return r
	}

	r.Success = true
	r.Bytes = n
	r.Cost = gen.PricePerImage()
	return r
}
