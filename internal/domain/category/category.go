package category

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Other is the label used for listings that fit no specific category.
const Other = "other"

// displayOrder is the canonical pill order. Labels not listed here follow, alphabetically.
var displayOrder = []string{
	"accommodation",
	"surfing",
	"tours",
	"food",
	"transport",
	"beauty",
	"events",
	"home",
	Other,
}

var rank = func() map[string]int {
	m := make(map[string]int, len(displayOrder))
	for i, c := range displayOrder {
		m[c] = i
	}
	return m
}()

// DisplayOrder returns a copy of the canonical category order.
func DisplayOrder() []string {
	out := make([]string, len(displayOrder))
	copy(out, displayOrder)
	return out
}

// IsCanonical reports whether label is one of the canonical categories.
func IsCanonical(label string) bool {
	_, ok := rank[label]
	return ok
}

// Pill is a category label with the number of listings carrying it.
type Pill struct {
	Label string
	Count int
}

// Less orders canonical labels by display order ahead of unknown labels,
// which compare among themselves by root-locale collation rather than bytes.
func Less(a, b string) bool {
	return newSorter().less(a, b)
}

// Pills counts labels and returns them in display order. Empty labels are skipped.
func Pills(labels []string) []Pill {
	counts := make(map[string]int)
	for _, l := range labels {
		if l == "" {
			continue
		}
		counts[l]++
	}

	pills := make([]Pill, 0, len(counts))
	for l, n := range counts {
		pills = append(pills, Pill{Label: l, Count: n})
	}
	s := newSorter()
	sort.Slice(pills, func(i, j int) bool { return s.less(pills[i].Label, pills[j].Label) })
	return pills
}

// sorter holds a collator, which is not safe for concurrent use.
type sorter struct {
	coll *collate.Collator
}

func newSorter() sorter {
	return sorter{coll: collate.New(language.Und)}
}

func (s sorter) less(a, b string) bool {
	ra, okA := rank[a]
	rb, okB := rank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	}
	if c := s.coll.CompareString(a, b); c != 0 {
		return c < 0
	}
	return a < b
}
