// Package memory provides an in-process data source for offline use.
package memory

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

var (
	sampleTitles = []string{
		"Kenali Tingkatan Influencers berdasarkan Jumlah Followers",
		"Jangan Asal Pilih Influencer, Berikut Cara Menyusun Strategi Influencer Marketing",
	}
	sampleImages = []string{
		"assets/tingkatan.jpg",
		"assets/influencer-marketing.jpg",
	}
)

// DefaultSampleSize is how many items SampleItems generates by default.
const DefaultSampleSize = 50

// SampleItems generates n items with IDs 1..n, alternating sample titles and
// images, dated on a random day of 2022 or 2023. The same seed always yields
// the same items.
func SampleItems(n int, seed uint64) []domain.Item {
	rng := rand.New(rand.NewPCG(seed, seed))
	items := make([]domain.Item, 0, n)
	for i := range n {
		k := rng.IntN(len(sampleTitles))
		year := 2022 + rng.IntN(2)
		month := time.Month(1 + rng.IntN(12))
		day := 1 + rng.IntN(28)
		items = append(items, domain.Item{
			ID:    i + 1,
			Title: sampleTitles[k],
			Image: sampleImages[k],
			Date:  time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		})
	}
	return items
}

// Source serves pages from a fixed in-memory collection.
type Source struct {
	mu    sync.RWMutex
	items []domain.Item
}

var _ domain.DataSource = (*Source)(nil)

// NewSource creates a source over a copy of items.
func NewSource(items []domain.Item) *Source {
	return &Source{items: append([]domain.Item(nil), items...)}
}

// NewSampleSource creates a source over DefaultSampleSize sample items.
func NewSampleSource(seed uint64) *Source {
	return NewSource(SampleItems(DefaultSampleSize, seed))
}

// FetchPage sorts the collection by date and returns the requested window.
func (s *Source) FetchPage(ctx context.Context, q domain.Query) (domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return domain.Page{}, err
	}
	if q.PageNumber < 1 || q.PageSize < 1 {
		return domain.Page{}, domain.ErrInvalidPageSize
	}

	s.mu.RLock()
	sorted := domain.SortByDate(s.items, q.Sort)
	s.mu.RUnlock()

	start := min((q.PageNumber-1)*q.PageSize, len(sorted))
	end := min(start+q.PageSize, len(sorted))
	return domain.Page{
		Items:      append([]domain.Item(nil), sorted[start:end]...),
		TotalCount: len(sorted),
	}, nil
}

// Len returns the collection size.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
