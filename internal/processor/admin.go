package processor

import (
	"context"
	"strconv"

	"codeberg.org/snonux/babycards/internal/archive"
	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/image"
	"codeberg.org/snonux/babycards/internal/ledger"
	"codeberg.org/snonux/babycards/internal/models"
	"codeberg.org/snonux/babycards/internal/report"
)

// RunListModels prints the image models of every configured provider
func (p *Processor) RunListModels(ctx context.Context) error {
	lister, err := models.NewLister(ctx, &image.Config{
		OpenAIKey: cli.GetOpenAIKey(),
		GeminiKey: cli.GetGeminiKey(),
	})
	if err != nil {
		return err
	}
	return lister.Print(ctx, p.out)
}

// RunArchive moves dir aside
func (p *Processor) RunArchive(dir string) error {
	archived, err := archive.Dir(dir, p.now())
	if err != nil {
		return err
	}
	p.report.Success("%s archived to %s", dir, archived)
	return nil
}

// commandTotals aggregates runs of one command
type commandTotals struct {
	runs, successes, failures int
	cost                      float64
}

// RunHistory prints the latest runs and totals per command
func (p *Processor) RunHistory(ctx context.Context) error {
	l, err := ledger.Open(p.flags.LedgerPath)
	if err != nil {
		return err
	}
	defer l.Close()

	all, err := l.History(ctx, 0)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		p.report.Line("No runs recorded in %s", p.flags.LedgerPath)
		return nil
	}

	latest := all
	if n := p.flags.HistoryLimit; n > 0 && len(latest) > n {
		latest = latest[:n]
	}

	p.report.Heading("Recent runs")
	rows := make([][]string, 0, len(latest))
	for _, r := range latest {
		rows = append(rows, []string{
			r.Started.Format("2006-01-02 15:04"),
			r.Command,
			r.Model,
			strconv.Itoa(r.Successes),
			strconv.Itoa(r.Failures),
			report.Money(r.Cost),
		})
	}
	p.report.Table([]string{"Started", "Command", "Model", "OK", "Failed", "Cost"}, rows)

	var order []string
	totals := make(map[string]*commandTotals)
	for _, r := range all {
		t, ok := totals[r.Command]
		if !ok {
			t = &commandTotals{}
			totals[r.Command] = t
			order = append(order, r.Command)
		}
		t.runs++
		t.successes += r.Successes
		t.failures += r.Failures
		t.cost += r.Cost
	}

	p.report.Heading("Totals per command")
	rows = rows[:0]
	for _, cmd := range order {
		t := totals[cmd]
		rows = append(rows, []string{cmd, strconv.Itoa(t.runs), strconv.Itoa(t.successes), strconv.Itoa(t.failures), report.Money(t.cost)})
	}
	p.report.Table([]string{"Command", "Runs", "OK", "Failed", "Cost"}, rows)

	spend, err := l.TotalCost(ctx)
	if err != nil {
		return err
	}
	p.report.Field("Total spend", report.Money(spend))
	p.report.Note("%d runs in %s", len(all), p.flags.LedgerPath)
	return nil
}
