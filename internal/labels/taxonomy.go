package labels

import "sort"

// Taxonomy is the set of category names a dataset accepts
type Taxonomy map[string]struct{}

// NewTaxonomy builds a taxonomy from category names
func NewTaxonomy(names ...string) Taxonomy {
	t := make(Taxonomy, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Contains reports whether name is a category. A nil taxonomy contains
// nothing.
func (t Taxonomy) Contains(name string) bool {
	_, ok := t[name]
	return ok
}

// Names returns the categories sorted
func (t Taxonomy) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
