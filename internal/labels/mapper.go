// Package labels maps vocabulary words to category names of an image
// dataset taxonomy.
package labels

import (
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mapper resolves words to dataset categories. It is read-only after
// construction and safe for concurrent use.
type Mapper struct {
	overrides map[string]string
	variants  map[string][]string
}

var defaultMapper = &Mapper{overrides: defaultOverrides, variants: defaultVariants}

// Default returns the mapper built from the bundled tables
func Default() *Mapper {
	return defaultMapper
}

// NewMapper creates a mapper from explicit tables. Keys are matched
// lowercased.
func NewMapper(overrides map[string]string, variants map[string][]string) *Mapper {
	m := &Mapper{
		overrides: make(map[string]string, len(overrides)),
		variants:  make(map[string][]string, len(variants)),
	}
	for k, v := range overrides {
		m.overrides[strings.ToLower(k)] = v
	}
	for k, v := range variants {
		m.variants[strings.ToLower(k)] = append([]string(nil), v...)
	}
	return m
}

// WithOverrides returns a copy of m with extra overrides layered on top.
// An extra entry replaces a bundled one for the same word.
func (m *Mapper) WithOverrides(extra map[string]string) *Mapper {
	merged := maps.Clone(m.overrides)
	if merged == nil {
		merged = make(map[string]string, len(extra))
	}
	for k, v := range extra {
		merged[strings.ToLower(k)] = v
	}
	return &Mapper{overrides: merged, variants: m.variants}
}

// Resolve returns the category for word. Candidates are tried in order and
// the first one in the taxonomy wins: the override, the canonical form,
// the canonical form with trailing "s" characters removed, then the word's
// variants. A word nothing matches yields ("", false).
func (m *Mapper) Resolve(word string, taxonomy Taxonomy) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return "", false
	}

	if label, ok := m.overrides[key]; ok && label != "" && taxonomy.Contains(label) {
		return label, true
	}

	canonical := Canonical(word)
	if taxonomy.Contains(canonical) {
		return canonical, true
	}
	if singular := strings.TrimRight(canonical, "s"); singular != "" && singular != canonical && taxonomy.Contains(singular) {
		return singular, true
	}

	for _, candidate := range m.variants[key] {
		if taxonomy.Contains(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Canonical capitalizes each whitespace separated token of word and joins
// them with single spaces: "ice cream" becomes "Ice Cream".
func Canonical(word string) string {
	fields := strings.Fields(word)
	for i, f := range fields {
		fields[i] = capitalize(f)
	}
	return strings.Join(fields, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Mapping pairs a word with its resolved category
type Mapping struct {
	Word  string
	Label string
}

// Partition resolves every word and splits the input into mapped words
// (input order kept) and unmapped ones.
func (m *Mapper) Partition(words []string, taxonomy Taxonomy) (mapped []Mapping, unmapped []string) {
	for _, w := range words {
		if label, ok := m.Resolve(w, taxonomy); ok {
			mapped = append(mapped, Mapping{Word: w, Label: label})
		} else {
			unmapped = append(unmapped, w)
		}
	}
	return mapped, unmapped
}
