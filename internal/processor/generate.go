package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"codeberg.org/snonux/babycards/internal"
	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/fetch"
	"codeberg.org/snonux/babycards/internal/image"
	"codeberg.org/snonux/babycards/internal/ledger"
	"codeberg.org/snonux/babycards/internal/prompt"
	"codeberg.org/snonux/babycards/internal/report"
	"codeberg.org/snonux/babycards/internal/words"
)

// DefaultImageLibrary is where generated images go when --output is unset,
// one subdirectory per style
const DefaultImageLibrary = "BabyKeyboardLock/Resources/FlashcardImages"

// GeneratePlan is what a generate run will request
type GeneratePlan struct {
	Words         []string
	Styles        []string
	Items         []image.Item
	Existing      int // Images already on disk
	Limited       int // Items dropped by --limit
	Provider      string
	Model         string
	PricePerImage float64
	Cost          float64
}

// imageConfig builds the provider configuration from the flags
func (p *Processor) imageConfig() *image.Config {
	f := p.flags.Generate
	cfg := image.DefaultConfig()
	cfg.Provider = f.Provider
	cfg.Model = f.Model
	cfg.Size = f.Size
	cfg.Quality = f.Quality
	cfg.Style = f.ImageStyle
	cfg.OpenAIKey = cli.GetOpenAIKey()
	cfg.GeminiKey = cli.GetGeminiKey()
	return cfg
}

// outputDir is the directory images of style are written to
func (p *Processor) outputDir(style string) string {
	if p.flags.Generate.Output != "" {
		return p.flags.Generate.Output
	}
	return filepath.Join(DefaultImageLibrary, style)
}

// PlanGenerate selects words and styles and lists the images still
// missing on disk
func (p *Processor) PlanGenerate() (*GeneratePlan, error) {
	f := p.flags.Generate

	if !slices.Contains(image.Providers(), f.Provider) {
		return nil, internal.NewConfigError(fmt.Sprintf("unknown image provider: %s", f.Provider),
			"use one of: "+strings.Join(image.Providers(), ", "))
	}

	styles, err := prompt.ResolveStyles(f.Style)
	if err != nil {
		return nil, err
	}

	sets, err := p.loadSets()
	if err != nil {
		return nil, err
	}
	selected, err := selectWords(f.Selection, words.UniqueWords(sets), p.seed(f.Selection))
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, internal.NewConfigError("no words resolved",
			"specify --words or --words-file, or check --source")
	}

	model := f.Model
	if model == "" {
		model = image.DefaultOpenAIModel
		if f.Provider == image.ProviderGemini {
			model = image.DefaultGeminiModel
		}
	}

	plan := &GeneratePlan{
		Words:         selected,
		Styles:        styles,
		Provider:      f.Provider,
		Model:         model,
		PricePerImage: prompt.PricePerImage(model, f.Size, f.Quality),
	}

	for _, style := range styles {
		desc, err := prompt.StyleDescription(style, f.StylePrompt)
		if err != nil {
			return nil, err
		}
		dir := p.outputDir(style)

		for _, w := range selected {
			path := filepath.Join(dir, prompt.Filename(style, w))
			if fetch.Exists(path) {
				plan.Existing++
				continue
			}
			plan.Items = append(plan.Items, image.Item{
				Word:   w,
				Style:  style,
				Prompt: prompt.Build(w, desc),
				Path:   path,
			})
		}
	}

	if f.Limit > 0 && len(plan.Items) > f.Limit {
		plan.Limited = len(plan.Items) - f.Limit
		plan.Items = plan.Items[:f.Limit]
	}
	plan.Cost = prompt.EstimateCost(len(plan.Items), plan.PricePerImage)
	return plan, nil
}

func (p *Processor) printGeneratePlan(plan *GeneratePlan) {
	r := p.report
	if plan.Existing > 0 {
		r.Note("\nSkipped %d existing image(s) across all styles", plan.Existing)
	}
	if plan.Limited > 0 {
		r.Note("Limited to %d images (from %d total)", len(plan.Items), len(plan.Items)+plan.Limited)
	}

	r.Heading(fmt.Sprintf("Preparing to generate %d image(s) across %d style(s)", len(plan.Items), len(plan.Styles)))
	r.Field("Words", len(plan.Words))
	r.Field("Styles", strings.Join(plan.Styles, ", "))
	r.Field("Model", fmt.Sprintf("%s (%s)", plan.Model, plan.Provider))
	r.Field("Estimated cost", report.Money(plan.Cost))

	r.Heading("Sample prompts")
	samples := make([]string, 0, 5)
	for _, it := range plan.Items[:min(5, len(plan.Items))] {
		samples = append(samples, it.Word+": "+it.Prompt)
	}
	r.List(samples, 0)
}

// ExecuteGenerate generates the planned images style by style and returns
// every result in plan order
func (p *Processor) ExecuteGenerate(ctx context.Context, gen image.Generator, plan *GeneratePlan) []image.Result {
	f := p.flags.Generate
	rec := p.startRun(ctx, "generate", gen.Name(), gen.Model())
	defer rec.finish()

	var all []image.Result
	for _, style := range plan.Styles {
		var items []image.Item
		for _, it := range plan.Items {
			if it.Style == style {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}

		p.report.Title(fmt.Sprintf("Generating %d images for style: %s", len(items), style))

		progress := image.WithProgress(func(done, total int, r image.Result) {
			if r.Success {
				p.report.Success("[%d/%d] %s", done, total, r.Item.Path)
			} else {
				p.report.Failure("[%d/%d] %s: %v", done, total, r.Item.Word, r.Err)
			}
		})

		var results []image.Result
		if f.Delay > 0 {
			results = image.GenerateSequential(ctx, gen, items, f.Delay, image.WithLogger(p.log), progress)
		} else {
			results = image.BulkGenerate(ctx, gen, items, f.MaxConcurrent, image.WithLogger(p.log), progress)
		}

		entries := make([]ledger.Entry, 0, len(results))
		for _, r := range results {
			entries = append(entries, ledger.Entry{
				Word:     r.Item.Word,
				Style:    r.Item.Style,
				Path:     r.Item.Path,
				Success:  r.Success,
				Cost:     r.Cost,
				Bytes:    r.Bytes,
				Duration: r.Duration,
				Error:    errString(r.Err),
			})
		}
		rec.record(ctx, entries...)

		s := image.Summarize(results)
		p.report.Line("\nStyle '%s' complete: %d succeeded, %d failed, %s", style, s.Successes, s.Failures, report.Money(s.Cost))
		all = append(all, results...)
	}
	return all
}

// RunGenerate plans, asks, generates and prints a summary
func (p *Processor) RunGenerate(ctx context.Context) error {
	plan, err := p.PlanGenerate()
	if err != nil {
		return err
	}
	if len(plan.Items) == 0 {
		p.report.Line("\nAll images already exist. Nothing to generate.")
		return nil
	}
	p.printGeneratePlan(plan)

	var gen image.Generator
	if !p.flags.DryRun {
		// Missing credentials fail before the user is asked anything
		if gen, err = p.newGenerator(ctx, p.imageConfig()); err != nil {
			return err
		}
	}

	switch p.gate().Ask("Generate images now?") {
	case cli.DryRun:
		p.report.Note("\nDry run complete. Run again without --dry-run to generate images.")
		return nil
	case cli.Cancelled:
		p.report.Line("Cancelled.")
		return nil
	}

	results := p.ExecuteGenerate(ctx, gen, plan)
	s := image.Summarize(results)

	p.report.Title("All styles complete")
	p.report.Success("Total successes : %d", s.Successes)
	if s.Failures > 0 {
		p.report.Failure("Total failures  : %d", s.Failures)
	}
	p.report.Field("Total cost", report.Money(s.Cost))
	return nil
}
