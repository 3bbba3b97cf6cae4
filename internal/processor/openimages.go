package processor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"codeberg.org/snonux/babycards/internal"
	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/fetch"
	"codeberg.org/snonux/babycards/internal/labels"
	"codeberg.org/snonux/babycards/internal/ledger"
	"codeberg.org/snonux/babycards/internal/openimages"
	"codeberg.org/snonux/babycards/internal/words"
)

// OpenImagesPlan is what an openimages run will download
type OpenImagesPlan struct {
	Mappings   []labels.Mapping
	Unmapped   []string
	Split      string
	PerWord    int
	MaxSamples int
	Output     string

	classes openimages.Classes
}

// OpenImagesResult counts the outcome of a download
type OpenImagesResult struct {
	Exported int
	Skipped  int // Already on disk
	Failed   int
	Missing  int // Words without any sample
	Bytes    int64
}

func (p *Processor) openImagesClient() *openimages.Client {
	opts := *p.openImages
	if p.flags.OpenImages.CacheDir != "" {
		opts.CacheDir = p.flags.OpenImages.CacheDir
	}
	return openimages.NewClient(&opts, p.fetcher)
}

// PlanOpenImages selects words and maps them to Open Images classes
func (p *Processor) PlanOpenImages(ctx context.Context) (*OpenImagesPlan, error) {
	f := p.flags.OpenImages

	classes, err := p.openImagesClient().Classes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load Open Images classes: %w", err)
	}
	taxonomy := classes.Taxonomy()
	mapper := p.mapper()

	sets, err := p.loadSets()
	if err != nil {
		return nil, err
	}
	mappable := func(w string) bool {
		_, ok := mapper.Resolve(w, taxonomy)
		return ok
	}
	selected, err := selectMappableWords(f.Selection, words.UniqueWords(sets), mappable, p.seed(f.Selection))
	if err != nil {
		return nil, err
	}

	mapped, unmapped := mapper.Partition(selected, taxonomy)
	for _, w := range unmapped {
		p.log.Warn("word has no Open Images class, skipping", slog.String("word", w))
	}
	if len(mapped) == 0 {
		return nil, internal.NewConfigError("none of the requested words map to Open Images classes",
			"add overrides under labels.overrides or choose different words")
	}

	return &OpenImagesPlan{
		Mappings:   mapped,
		Unmapped:   unmapped,
		Split:      f.Split,
		PerWord:    f.Limit,
		MaxSamples: f.MaxSamples,
		Output:     f.Output,
		classes:    classes,
	}, nil
}

func (p *Processor) printOpenImagesPlan(plan *OpenImagesPlan) {
	r := p.report
	r.Heading(fmt.Sprintf("Preparing Open Images download for %d word(s)", len(plan.Mappings)))
	r.Field("Images per word", plan.PerWord)
	r.Field("Estimated total", fmt.Sprintf("~%d", plan.PerWord*len(plan.Mappings)))
	r.Field("Split", plan.Split)
	r.Field("Output", plan.Output)
	if len(plan.Unmapped) > 0 {
		r.Warn("Skipping %d word(s) without a class: %v", len(plan.Unmapped), plan.Unmapped)
	}

	r.Heading("Word → Label mapping")
	pairs := make([][2]string, 0, len(plan.Mappings))
	for _, m := range plan.Mappings {
		pairs = append(pairs, [2]string{m.Word, m.Label})
	}
	r.Pairs(pairs, 10)
}

// ExecuteOpenImages downloads the planned images into
// <output>/<word>/<word>_NNN.jpg. Existing files are kept.
func (p *Processor) ExecuteOpenImages(ctx context.Context, plan *OpenImagesPlan) (OpenImagesResult, error) {
	var res OpenImagesResult
	client := p.openImagesClient()

	ids := make([]string, 0, len(plan.Mappings))
	for _, m := range plan.Mappings {
		ids = append(ids, plan.classes[m.Label])
	}

	samples, err := client.Samples(ctx, ids, plan.PerWord, plan.MaxSamples, plan.Split)
	if err != nil {
		return res, fmt.Errorf("failed to load Open Images labels: %w", err)
	}

	rec := p.startRun(ctx, "openimages", "openimages", plan.Split)
	defer rec.finish()

	for _, m := range plan.Mappings {
		p.report.Line("\n→ %s (%s)", m.Word, m.Label)
		found := samples[plan.classes[m.Label]]
		if len(found) == 0 {
			p.report.Warn("No samples found for this label. Skipping.")
			res.Missing++
			continue
		}

		slug := internal.WordSlug(m.Word)
		dir := filepath.Join(plan.Output, slug)
		exported := 0
		var entries []ledger.Entry

		for i, id := range found {
			dst := filepath.Join(dir, fmt.Sprintf("%s_%03d.jpg", slug, i))
			if fetch.Exists(dst) {
				res.Skipped++
				continue
			}

			n, err := client.DownloadImage(ctx, plan.Split, id, dst)
			entries = append(entries, ledger.Entry{
				Word: m.Word, Style: m.Label, Path: dst,
				Success: err == nil, Bytes: n, Error: errString(err),
			})
			if err != nil {
				p.log.Warn("image download failed",
					slog.String("word", m.Word),
					slog.String("image", id),
					slog.String("error", err.Error()),
				)
				res.Failed++
				continue
			}
			exported++
			res.Bytes += n
		}

		rec.record(ctx, entries...)
		res.Exported += exported
		p.report.Success("Exported %d image(s) to %s", exported, dir)
	}
	return res, nil
}

// RunOpenImages plans, asks, downloads and prints a summary
func (p *Processor) RunOpenImages(ctx context.Context) error {
	plan, err := p.PlanOpenImages(ctx)
	if err != nil {
		return err
	}
	p.printOpenImagesPlan(plan)

	switch p.gate().Ask("Proceed with download?") {
	case cli.DryRun:
		p.report.Note("\nDry run complete. Run again without --dry-run to download.")
		return nil
	case cli.Cancelled:
		p.report.Line("Cancelled.")
		return nil
	}

	res, err := p.ExecuteOpenImages(ctx, plan)
	if err != nil {
		return err
	}

	p.report.Title("Open Images download complete")
	p.report.Field("Exported", fmt.Sprintf("%d (%s)", res.Exported, humanize.Bytes(uint64(res.Bytes))))
	p.report.Field("Already present", res.Skipped)
	if res.Failed > 0 {
		p.report.Field("Failed", res.Failed)
	}
	if res.Missing > 0 {
		p.report.Field("Without samples", res.Missing)
	}
	p.report.Field("Output", plan.Output)
	return nil
}
