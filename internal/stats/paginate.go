package stats

import "strconv"

// Page sizes per listing context. Each listing owns its own size.
const (
	DashboardPageSize = 4
	SearchPageSize    = 3
	TrendingPageSize  = 3
	ReportPageSize    = 5
	SourcePageSize    = 7
	APIPageSize       = 12
)

// Page is one slice of an ordered view plus the metadata the pager
// controls need. TotalItems and TotalPages describe the same filtered view
// the slice was cut from.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

// Paginate cuts the requested page out of items. Any out-of-range page
// number, low or high, clamps to the last page; out-of-range requests are
// never an error. An empty view yields a single empty page.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size < 1 {
		size = 1
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 || page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		TotalItems: total,
		TotalPages: pages,
	}
}

// ParsePage reads a form/query page parameter. Missing or non-numeric
// input defaults to page 1; range clamping happens in Paginate.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}
