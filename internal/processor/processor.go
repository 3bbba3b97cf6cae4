package processor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/fetch"
	"codeberg.org/snonux/babycards/internal/image"
	"codeberg.org/snonux/babycards/internal/labels"
	"codeberg.org/snonux/babycards/internal/ledger"
	"codeberg.org/snonux/babycards/internal/openimages"
	"codeberg.org/snonux/babycards/internal/quickdraw"
	"codeberg.org/snonux/babycards/internal/report"
	"codeberg.org/snonux/babycards/internal/words"
)

// Processor runs the subcommands
type Processor struct {
	flags  *cli.Flags
	log    *slog.Logger
	out    io.Writer
	in     io.Reader
	report *report.Report

	fetcher      *fetch.Fetcher
	openImages   *openimages.Options
	quickDraw    quickdraw.Options
	newGenerator func(context.Context, *image.Config) (image.Generator, error)
	now          func() time.Time
}

// NewProcessor creates a processor printing to stdout and asking for
// confirmation on stdin
func NewProcessor(flags *cli.Flags, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		flags:        flags,
		log:          log,
		out:          os.Stdout,
		in:           os.Stdin,
		report:       report.New(os.Stdout),
		fetcher:      fetch.New(nil),
		openImages:   openimages.DefaultOptions(),
		newGenerator: image.NewGenerator,
		now:          time.Now,
	}
}

// gate returns the confirmation gate configured by --dry-run and --yes
func (p *Processor) gate() cli.Gate {
	return cli.Gate{DryRun: p.flags.DryRun, AssumeYes: p.flags.Yes, In: p.in, Out: p.out}
}

// loadSets returns the word sets of --source, or the built-in ones
func (p *Processor) loadSets() ([]words.WordSet, error) {
	if p.flags.Source == "" {
		return words.LoadDefault()
	}
	return words.Load(p.flags.Source)
}

func (p *Processor) mapper() *labels.Mapper {
	return labels.Default().WithOverrides(p.flags.LabelOverrides)
}

// seed is --seed when given, otherwise it changes with every run
func (p *Processor) seed(sel cli.Selection) int64 {
	if sel.SeedSet {
		return sel.Seed
	}
	return p.now().UnixNano()
}

// run records one invocation in the ledger. A ledger that cannot be
// opened only costs the history, never the run itself.
type run struct {
	ledger *ledger.Ledger
	id     string
	log    *slog.Logger
}

func (p *Processor) startRun(ctx context.Context, command, provider, model string) *run {
	r := &run{log: p.log}
	if p.flags.LedgerPath == "" {
		return r
	}

	l, err := ledger.Open(p.flags.LedgerPath)
	if err != nil {
		p.log.Warn("run ledger unavailable", slog.String("error", err.Error()))
		return r
	}
	rec, err := l.StartRun(ctx, command, provider, model)
	if err != nil {
		p.log.Warn("failed to start ledger run", slog.String("error", err.Error()))
		l.Close()
		return r
	}

	p.log.Debug("run started", slog.String("command", command), slog.String("run", rec.ID))
	r.ledger, r.id = l, rec.ID
	return r
}

func (r *run) record(ctx context.Context, entries ...ledger.Entry) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.Record(ctx, r.id, entries...); err != nil {
		r.log.Warn("failed to record run entries", slog.String("error", err.Error()))
	}
}

func (r *run) finish() {
	if r.ledger == nil {
		return
	}
	// The run context may already be cancelled
	if err := r.ledger.FinishRun(context.Background(), r.id); err != nil {
		r.log.Warn("failed to finish ledger run", slog.String("error", err.Error()))
	}
	r.ledger.Close()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
