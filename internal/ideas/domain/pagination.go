package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// SortOrder orders items by publish date.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Wire values understood by the remote API's sort parameter.
const (
	SortParamNewest = "-published_at"
	SortParamOldest = "published_at"
)

// ParseSortOrder accepts "newest" or "oldest" (case-insensitive).
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
	}
}

// Param returns the remote API sort value for the order.
func (o SortOrder) Param() string {
	if o == SortOldest {
		return SortParamOldest
	}
	return SortParamNewest
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortOldest {
		return SortNewest
	}
	return SortOldest
}

// PageSizeOptions is the fixed set of selectable page sizes.
var PageSizeOptions = []int{10, 20, 50}

// DefaultPageSize is the page size a fresh listing starts with.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of PageSizeOptions.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizeOptions, n)
}

// NextPageSize cycles to the option after n, wrapping around.
func NextPageSize(n int) int {
	i := slices.Index(PageSizeOptions, n)
	return PageSizeOptions[(i+1)%len(PageSizeOptions)]
}

// Pagination is the listing's page/sort state. CurrentPage is always >= 1.
type Pagination struct {
	CurrentPage int
	PageSize    int
	SortOrder   SortOrder
}

// NewPagination returns page 1 with the default size, newest first.
func NewPagination() Pagination {
	return Pagination{CurrentPage: 1, PageSize: DefaultPageSize, SortOrder: SortNewest}
}

// Window is the half-open index range [Start, End) of the current page
// within the full sorted listing.
type Window struct {
	Start int
	End   int
}

// Window derives the index range for the current page.
func (p Pagination) Window() Window {
	start := (p.CurrentPage - 1) * p.PageSize
	return Window{Start: start, End: start + p.PageSize}
}

// DisplayRange is the 1-based inclusive range shown to the user, clamped to
// total. An empty listing yields 0, 0.
func (w Window) DisplayRange(total int) (first, last int) {
	if total <= 0 {
		return 0, 0
	}
	return w.Start + 1, min(w.End, total)
}

// LastPage is ceil(total/size), never less than 1.
func (p Pagination) LastPage(total int) int {
	if p.PageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether the window ends before total.
func (p Pagination) HasNext(total int) bool {
	return p.Window().End < total
}

// Clamp pulls CurrentPage back into [1, LastPage(total)].
func (p Pagination) Clamp(total int) Pagination {
	if last := p.LastPage(total); p.CurrentPage > last {
		p.CurrentPage = last
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	return p
}

// Query returns the data-source request for the current state.
func (p Pagination) Query() Query {
	return Query{PageNumber: p.CurrentPage, PageSize: p.PageSize, Sort: p.SortOrder}
}

// Query describes one page request to a data source.
type Query struct {
	PageNumber int
	PageSize   int
	Sort       SortOrder
}

// Page is one page of items plus the size of the whole listing.
type Page struct {
	Items      []Item
	TotalCount int
}

// SortByDate returns a stably sorted copy of items: ascending for oldest,
// descending for newest. Items with equal dates keep their relative order.
func SortByDate(items []Item, order SortOrder) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortOldest {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
