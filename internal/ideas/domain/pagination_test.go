package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOrder
		wantErr  bool
	}{
		{"newest", SortNewest, false},
		{"oldest", SortOldest, false},
		{" Oldest ", SortOldest, false},
		{"-published_at", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortOrder(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSortOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSortOrder_Param(t *testing.T) {
	assert.Equal(t, "-published_at", SortNewest.Param())
	assert.Equal(t, "published_at", SortOldest.Param())
	assert.Equal(t, SortOldest, SortNewest.Toggle())
	assert.Equal(t, SortNewest, SortOldest.Toggle())
}

func TestPageSizeOptions(t *testing.T) {
	for _, n := range PageSizeOptions {
		assert.True(t, ValidPageSize(n))
	}
	assert.False(t, ValidPageSize(0))
	assert.False(t, ValidPageSize(15))

	assert.Equal(t, 20, NextPageSize(10))
	assert.Equal(t, 50, NextPageSize(20))
	assert.Equal(t, 10, NextPageSize(50))
	assert.Equal(t, 10, NextPageSize(7))
}

func TestPagination_Window(t *testing.T) {
	t.Run("first page of 25", func(t *testing.T) {
		p := Pagination{CurrentPage: 1, PageSize: 10}
		w := p.Window()

		assert.Equal(t, Window{Start: 0, End: 10}, w)
		first, last := w.DisplayRange(25)
		assert.Equal(t, 1, first)
		assert.Equal(t, 10, last)
		assert.False(t, p.HasPrev())
		assert.True(t, p.HasNext(25))
	})

	t.Run("last partial page of 25", func(t *testing.T) {
		p := Pagination{CurrentPage: 3, PageSize: 10}
		first, last := p.Window().DisplayRange(25)

		assert.Equal(t, 21, first)
		assert.Equal(t, 25, last)
		assert.True(t, p.HasPrev())
		assert.False(t, p.HasNext(25))
	})

	t.Run("empty listing", func(t *testing.T) {
		p := NewPagination()
		first, last := p.Window().DisplayRange(0)

		assert.Zero(t, first)
		assert.Zero(t, last)
		assert.False(t, p.HasNext(0))
		assert.Equal(t, 1, p.LastPage(0))
	})
}

func TestPagination_LastPageAndClamp(t *testing.T) {
	for _, size := range PageSizeOptions {
		for _, total := range []int{0, 1, size - 1, size, size + 1, 3*size + 7} {
			p := Pagination{CurrentPage: 1000, PageSize: size}
			last := p.LastPage(total)
			expected := (total + size - 1) / size
			if expected < 1 {
				expected = 1
			}
			assert.Equal(t, expected, last, "size=%d total=%d", size, total)
			assert.Equal(t, last, p.Clamp(total).CurrentPage)
		}
	}

	p := Pagination{CurrentPage: 0, PageSize: 10}
	assert.Equal(t, 1, p.Clamp(30).CurrentPage)
}

func TestPagination_Query(t *testing.T) {
	p := Pagination{CurrentPage: 2, PageSize: 20, SortOrder: SortOldest}
	assert.Equal(t, Query{PageNumber: 2, PageSize: 20, Sort: SortOldest}, p.Query())
}

func TestSortByDate(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{ID: 1, Date: base.AddDate(0, 1, 0)},
		{ID: 2, Date: base},
		{ID: 3, Date: base.AddDate(0, 2, 0)},
		{ID: 4, Date: base},
	}

	t.Run("oldest first, stable on ties", func(t *testing.T) {
		sorted := SortByDate(items, SortOldest)
		assert.Equal(t, []int{2, 4, 1, 3}, ids(sorted))
	})

	t.Run("newest first, stable on ties", func(t *testing.T) {
		sorted := SortByDate(items, SortNewest)
		assert.Equal(t, []int{3, 1, 2, 4}, ids(sorted))
	})

	t.Run("reversing order reverses distinct dates", func(t *testing.T) {
		oldest := SortByDate(items, SortOldest)
		newest := SortByDate(items, SortNewest)
		pos := func(list []Item, id int) int { return IndexOf(list, id) }

		for _, a := range items {
			for _, b := range items {
				if a.Date.Equal(b.Date) {
					continue
				}
				assert.Equal(t, pos(oldest, a.ID) < pos(oldest, b.ID), pos(newest, a.ID) > pos(newest, b.ID))
			}
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		_ = SortByDate(items, SortOldest)
		assert.Equal(t, []int{1, 2, 3, 4}, ids(items))
	})
}

func ids(items []Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
