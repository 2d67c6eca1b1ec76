// Package query builds filtered, ordered views over the alert collection.
// A Filter narrows the set; every aggregation consumer reads the same view
// so displayed numbers are always explainable by the active filter.
package query

import (
	"sort"
	"strings"

	"threatwatch-go/internal/models"
)

// Filter is the caller-supplied filter specification. Zero value means the
// full collection. Unknown category or severity values match nothing
// rather than raising an error.
type Filter struct {
	Term       string
	Categories []models.Category
	Severity   models.Severity
	Source     string
}

func (f Filter) IsEmpty() bool {
	return f.Term == "" && len(f.Categories) == 0 && f.Severity == "" && f.Source == ""
}

// Matches reports whether the alert passes every populated filter field.
// The free-text term is a case-insensitive substring match over title,
// content and source; categories are set membership; all conditions
// compose with AND.
func (f Filter) Matches(a models.Alert) bool {
	if f.Term != "" {
		term := strings.ToLower(f.Term)
		haystack := strings.ToLower(a.Title + " " + a.Content + " " + a.Source)
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if a.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Severity != "" && a.Severity != f.Severity {
		return false
	}
	if f.Source != "" && !strings.EqualFold(a.Source, f.Source) {
		return false
	}
	return true
}

// Apply returns the filtered view, ordered newest-first by creation
// timestamp (ties broken by descending id so the order is stable). The
// input slice is not modified.
func Apply(alerts []models.Alert, f Filter) []models.Alert {
	view := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if f.Matches(a) {
			view = append(view, a)
		}
	}
	sort.SliceStable(view, func(i, j int) bool {
		if !view[i].CreatedAt.Equal(view[j].CreatedAt) {
			return view[i].CreatedAt.After(view[j].CreatedAt)
		}
		return view[i].ID > view[j].ID
	})
	return view
}

// ParseCategories converts raw form values into category labels. Unknown
// labels are kept: they simply match no alert, which keeps filtering
// permissive instead of erroring on bad input.
func ParseCategories(raw []string) []models.Category {
	var cats []models.Category
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			cats = append(cats, models.Category(r))
		}
	}
	return cats
}
