package processor

import (
	"codeberg.org/snonux/babycards/internal"
	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/words"
)

// explicitWords returns the words of --words and --words-file, sorted and
// deduplicated case-insensitively
func explicitWords(sel cli.Selection) ([]string, error) {
	collected := append([]string(nil), sel.Words...)
	if sel.WordsFile != "" {
		entries, err := words.ReadWordsFile(sel.WordsFile)
		if err != nil {
			return nil, err
		}
		collected = append(collected, words.EnglishOf(entries)...)
	}
	return words.SortUnique(collected), nil
}

// selectMappableWords picks the words for a dataset download. Explicit
// words are used as given. Otherwise the defaults are narrowed to the ones
// mappable reports true for and sampled unless AllDefaults is set.
func selectMappableWords(sel cli.Selection, defaults []string, mappable func(string) bool, seed int64) ([]string, error) {
	explicit, err := explicitWords(sel)
	if err != nil {
		return nil, err
	}
	if len(explicit) > 0 {
		return explicit, nil
	}

	var candidates []string
	for _, w := range defaults {
		if mappable(w) {
			candidates = append(candidates, w)
		}
	}

	if sel.AllDefaults {
		if len(candidates) == 0 {
			return nil, internal.NewConfigError("no default words map to dataset classes",
				"add entries under labels.overrides in ~/.babycards.yaml")
		}
		return candidates, nil
	}

	if sel.SampleSize <= 0 {
		return nil, internal.NewConfigError("no words provided",
			"specify --words, --words-file or set --sample-size > 0")
	}
	if len(candidates) == 0 {
		return nil, internal.NewConfigError("default word list has no dataset matches",
			"add overrides or specify words explicitly")
	}

	return words.SortUnique(words.SampleWords(candidates, sel.SampleSize, seed)), nil
}

// selectWords picks the words for image generation: explicit words, all
// defaults, or a sample of the defaults
func selectWords(sel cli.Selection, defaults []string, seed int64) ([]string, error) {
	explicit, err := explicitWords(sel)
	if err != nil {
		return nil, err
	}
	if len(explicit) > 0 {
		return explicit, nil
	}

	if sel.AllDefaults || sel.SampleSize <= 0 {
		return defaults, nil
	}
	return words.SortUnique(words.SampleWords(defaults, sel.SampleSize, seed)), nil
}
