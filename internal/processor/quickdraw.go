package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/ledger"
	"codeberg.org/snonux/babycards/internal/quickdraw"
)

// QuickDrawPlan is what a quickdraw run will download
type QuickDrawPlan struct {
	Categories     []string
	Custom         bool
	DataDir        string
	SamplesDir     string
	ExtractSamples int
	Render         quickdraw.RenderOptions
}

// QuickDrawResult counts the outcome of a download
type QuickDrawResult struct {
	Files   []string
	Failed  []string
	Bytes   int64
	Samples int
}

// PlanQuickDraw resolves the categories and output layout
func (p *Processor) PlanQuickDraw() *QuickDrawPlan {
	f := p.flags.QuickDraw
	plan := &QuickDrawPlan{
		DataDir:        filepath.Join(f.Output, "data"),
		SamplesDir:     filepath.Join(f.Output, "samples"),
		ExtractSamples: f.ExtractSamples,
		Render:         renderOptions(f.ImageSize),
	}

	if len(f.Categories) > 0 {
		plan.Categories = f.Categories
		plan.Custom = true
	} else {
		plan.Categories = quickdraw.BabyFriendlyCategories
		if f.Limit > 0 && f.Limit < len(plan.Categories) {
			plan.Categories = plan.Categories[:f.Limit]
		}
	}
	return plan
}

// renderOptions scales the default stroke and padding to size
func renderOptions(size int) quickdraw.RenderOptions {
	opts := quickdraw.DefaultRenderOptions()
	if size <= 0 || size == opts.Size {
		return opts
	}
	scale := float64(size) / float64(opts.Size)
	return quickdraw.RenderOptions{
		Size:      size,
		LineWidth: max(1, opts.LineWidth*scale),
		Padding:   int(float64(opts.Padding) * scale),
	}
}

func (p *Processor) printQuickDrawPlan(plan *QuickDrawPlan) {
	r := p.report
	r.Title("QUICK DRAW DATASET DOWNLOADER")
	r.Field("Dataset", "Google Quick Draw (50M drawings, 345 categories)")
	r.Field("License", "Creative Commons Attribution 4.0")
	r.Field("Output", filepath.Dir(plan.DataDir))
	kind := "baby-friendly"
	if plan.Custom {
		kind = "custom"
	}
	r.Field("Categories", fmt.Sprintf("%d %s", len(plan.Categories), kind))
	if plan.ExtractSamples > 0 {
		r.Field("Samples", fmt.Sprintf("%d per category, %dx%d", plan.ExtractSamples, plan.Render.Size, plan.Render.Size))
	}

	r.Heading("Categories to download")
	r.List(plan.Categories, 20)
}

// ExecuteQuickDraw downloads every category and renders samples when asked
func (p *Processor) ExecuteQuickDraw(ctx context.Context, plan *QuickDrawPlan) QuickDrawResult {
	var res QuickDrawResult
	dl := quickdraw.NewDownloader(plan.DataDir, p.quickDraw, p.fetcher, p.log)

	rec := p.startRun(ctx, "quickdraw", "quickdraw", "")
	defer rec.finish()

	for i, category := range plan.Categories {
		if ctx.Err() != nil {
			res.Failed = append(res.Failed, plan.Categories[i:]...)
			break
		}

		p.report.Line("[%d/%d] Downloading %s...", i+1, len(plan.Categories), category)
		path, err := dl.DownloadCategory(ctx, category)
		entry := ledger.Entry{Word: category, Style: "ndjson", Path: path, Success: err == nil, Error: errString(err)}
		if err != nil {
			p.log.Warn("category download failed", slog.String("category", category), slog.String("error", err.Error()))
			res.Failed = append(res.Failed, category)
			rec.record(ctx, entry)
			continue
		}

		if info, err := os.Stat(path); err == nil {
			entry.Bytes = info.Size()
			res.Bytes += info.Size()
		}
		rec.record(ctx, entry)
		res.Files = append(res.Files, path)
	}

	if plan.ExtractSamples <= 0 || len(res.Files) == 0 {
		return res
	}

	p.report.Heading(fmt.Sprintf("Extracting %d sample image(s) per category", plan.ExtractSamples))
	for _, file := range res.Files {
		category := strings.TrimSuffix(filepath.Base(file), ".ndjson")
		samples, err := quickdraw.ExtractSamples(file, filepath.Join(plan.SamplesDir, category), plan.ExtractSamples, plan.Render)
		if err != nil {
			p.log.Warn("sample extraction failed", slog.String("category", category), slog.String("error", err.Error()))
		}

		entries := make([]ledger.Entry, 0, len(samples))
		for _, s := range samples {
			entries = append(entries, ledger.Entry{Word: category, Style: "sample", Path: s, Success: true})
		}
		rec.record(ctx, entries...)
		res.Samples += len(samples)
	}
	return res
}

// RunQuickDraw plans, asks, downloads and prints a summary
func (p *Processor) RunQuickDraw(ctx context.Context) error {
	plan := p.PlanQuickDraw()
	p.printQuickDrawPlan(plan)

	switch p.gate().Ask("Proceed with download?") {
	case cli.DryRun:
		p.report.Note("\nDry run complete. Run again without --dry-run to download.")
		return nil
	case cli.Cancelled:
		p.report.Line("Cancelled.")
		return nil
	}

	res := p.ExecuteQuickDraw(ctx, plan)

	p.report.Title("DOWNLOAD COMPLETE")
	p.report.Success("Downloaded: %d/%d categories (%s)", len(res.Files), len(plan.Categories), humanize.Bytes(uint64(res.Bytes)))
	if len(res.Failed) > 0 {
		p.report.Failure("Failed: %s", strings.Join(res.Failed, ", "))
	}
	p.report.Field("Location", plan.DataDir)
	if plan.ExtractSamples > 0 {
		p.report.Success("Extracted %d sample images", res.Samples)
		p.report.Field("Location", plan.SamplesDir)
	}
	return nil
}
