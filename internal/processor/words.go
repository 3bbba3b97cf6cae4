package processor

import (
	"fmt"
	"strconv"

	"codeberg.org/snonux/babycards/internal/words"
)

// RunWords prints the vocabulary: unique words by default, the set
// summary with --sets, or "word = translation" lines with --translations
func (p *Processor) RunWords() error {
	sets, err := p.loadSets()
	if err != nil {
		return err
	}

	switch {
	case p.flags.Words.Sets:
		rows := make([][]string, 0, len(sets))
		total := 0
		for _, s := range words.Describe(sets) {
			rows = append(rows, []string{s.Name, strconv.Itoa(s.Count)})
			total += s.Count
		}
		p.report.Table([]string{"Set", "Words"}, rows)
		p.report.Note("%d sets, %d entries, %d unique words", len(sets), total, len(words.UniqueWords(sets)))

	case p.flags.Words.Translations:
		translations := words.TranslationOf(sets)
		for _, w := range words.UniqueWords(sets) {
			fmt.Fprintf(p.out, "%s = %s\n", w, translations[w])
		}

	default:
		for _, w := range words.UniqueWords(sets) {
			fmt.Fprintln(p.out, w)
		}
	}
	return nil
}
