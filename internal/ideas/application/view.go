package application

import "github.com/felixgeelhaar/ideas/internal/ideas/domain"

// ItemView is one rendered row.
type ItemView struct {
	domain.Item
	DateLabel string
	// Editable is set in edit mode; renderers show edit/delete controls.
	Editable bool
}

// View is a render snapshot of the listing.
type View struct {
	Items        []ItemView
	Pagination   domain.Pagination
	TotalCount   int
	RangeStart   int
	RangeEnd     int
	PrevDisabled bool
	NextDisabled bool
	EditMode     bool
	Loading      bool
	// Err is the last fetch error; Items is empty while it is set.
	Err error
}

// View renders the current page: the collection sorted by date, sliced to
// the page window, with pagination controls disabled at the boundaries.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	window := c.state.Window()
	first, last := window.DisplayRange(c.total)
	v := View{
		Pagination:   c.state,
		TotalCount:   c.total,
		RangeStart:   first,
		RangeEnd:     last,
		PrevDisabled: !c.state.HasPrev(),
		NextDisabled: !c.state.HasNext(c.total),
		EditMode:     c.editing,
		Loading:      c.loading,
		Err:          c.loadErr,
	}
	if c.loadErr != nil {
		return v
	}

	sorted := domain.SortByDate(c.items, c.state.SortOrder)
	lo := clampIndex(window.Start-c.offset, len(sorted))
	hi := clampIndex(window.End-c.offset, len(sorted))

	v.Items = make([]ItemView, 0, hi-lo)
	for _, it := range sorted[lo:hi] {
		v.Items = append(v.Items, ItemView{
			Item:      it,
			DateLabel: domain.FormatDate(it.Date),
			Editable:  c.editing,
		})
	}
	return v
}

func clampIndex(i, n int) int {
	return max(0, min(i, n))
}
