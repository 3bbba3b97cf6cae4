package words

import (
	"math/rand/v2"
	"slices"
	"strings"
)

// SetSummary is the name and size of one word set
type SetSummary struct {
	Name  string
	Count int
}

// Flatten returns every entry of every set, set by set, duplicates kept
func Flatten(sets []WordSet) []WordEntry {
	var entries []WordEntry
	for _, set := range sets {
		entries = append(entries, set.Words...)
	}
	return entries
}

// UniqueWords returns the distinct English words of all sets, compared and
// sorted case-insensitively. The first-seen casing of a word is kept.
func UniqueWords(sets []WordSet) []string {
	entries := Flatten(sets)
	english := make([]string, 0, len(entries))
	for _, entry := range entries {
		english = append(english, entry.English)
	}
	return SortUnique(english)
}

// SortUnique dedupes words case-insensitively, keeping the first-seen
// casing, and sorts them case-insensitively. Blank words are dropped.
func SortUnique(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))

	for _, w := range list {
		w = strings.TrimSpace(w)
		key := strings.ToLower(w)
		if w == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
	}

	slices.SortFunc(out, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}

// TranslationOf maps each English word to its translation. When a word
// appears in several sets the first translation wins.
func TranslationOf(sets []WordSet) map[string]string {
	mapping := make(map[string]string)
	for _, entry := range Flatten(sets) {
		if _, ok := mapping[entry.English]; !ok {
			mapping[entry.English] = entry.Translation
		}
	}
	return mapping
}

// Sample draws count unique words without replacement. The same seed and
// sets always give the same sequence. All words are returned when count
// covers the whole vocabulary.
func Sample(sets []WordSet, count int, seed int64) []string {
	return SampleWords(UniqueWords(sets), count, seed)
}

// SampleWords is Sample over an already prepared word list
func SampleWords(list []string, count int, seed int64) []string {
	if count >= len(list) {
		return slices.Clone(list)
	}
	if count <= 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	perm := rng.Perm(len(list))

	out := make([]string, count)
	for i := range out {
		out[i] = list[perm[i]]
	}
	return out
}

// Describe returns the name and word count of each set
func Describe(sets []WordSet) []SetSummary {
	summaries := make([]SetSummary, 0, len(sets))
	for _, set := range sets {
		summaries = append(summaries, SetSummary{Name: set.Name, Count: len(set.Words)})
	}
	return summaries
}
