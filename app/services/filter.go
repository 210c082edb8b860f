package services

import (
	"strings"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/pkg/collection"
)

// Filter is the transient search criteria for a parts view: a free-text
// query and an optional exact-match category. The zero value matches
// everything. Applying a Filter never mutates the underlying collection,
// so it is safe to recompute on every keystroke.
type Filter struct {
	Query    string
	Category string
}

// Matches reports whether p satisfies the criteria: the query (when
// non-empty) must be a case-insensitive substring of the name, brand,
// or category, and the selected category (when non-empty) must equal
// the part's category exactly.
func (f Filter) Matches(p models.Part) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	q := strings.ToLower(f.Query)
	if q == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Brand, p.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns the ordered sub-sequence of parts matching f, with the
// original relative order preserved.
func (f Filter) Apply(parts []models.Part) []models.Part {
	return collection.Filter(parts, f.Matches)
}

// Reset clears both criteria.
func (f *Filter) Reset() {
	f.Query = ""
	f.Category = ""
}

// Categories returns the distinct category values present in parts,
// sorted lexicographically, each appearing once.
func Categories(parts []models.Part) []string {
	cats := collection.Unique(collection.Map(parts, func(p models.Part) string { return p.Category }))
	return collection.SortBy(cats, func(a, b string) bool { return a < b })
}
