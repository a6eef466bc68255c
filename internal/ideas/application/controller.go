// Package application holds the listing controller: pagination and sort
// state, the in-memory collection, edit mode and the render view.
package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
	"github.com/felixgeelhaar/ideas/pkg/observability"
)

// ConfirmFunc is asked before an item is deleted.
type ConfirmFunc func(item domain.Item) bool

// Confirmed approves every deletion. Use it when the caller has already
// asked the user.
func Confirmed(domain.Item) bool { return true }

// ControllerConfig holds dependencies for the controller.
type ControllerConfig struct {
	Source  domain.DataSource
	Images  domain.ImageResolver
	Logger  *slog.Logger
	Metrics observability.Metrics
	// Pagination is the initial state; zero value means NewPagination().
	Pagination domain.Pagination
}

// Controller owns one listing's state. It is safe for concurrent use; data
// source fetches run outside the lock and only the most recently started
// reload may apply its result.
type Controller struct {
	source  domain.DataSource
	images  domain.ImageResolver
	logger  *slog.Logger
	metrics observability.Metrics

	mu      sync.Mutex
	state   domain.Pagination
	items   []domain.Item
	offset  int // listing index of items[0]
	total   int
	editing bool
	loading bool
	loadErr error

	seq    uint64
	cancel context.CancelFunc
}

// NewController creates a controller. Call Reload to populate it.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	if cfg.Images == nil {
		cfg.Images = placeholderImages{}
	}
	state := cfg.Pagination
	if state.CurrentPage < 1 || !domain.ValidPageSize(state.PageSize) || state.SortOrder == "" {
		state = domain.NewPagination()
	}
	return &Controller{
		source:  cfg.Source,
		images:  cfg.Images,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		state:   state,
	}
}

// Pagination returns the current page/sort state.
func (c *Controller) Pagination() domain.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TotalCount returns the size of the listing.
func (c *Controller) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// EditMode reports whether local edit mode is active.
func (c *Controller) EditMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Items returns a copy of the collection in stored (unsorted) order.
func (c *Controller) Items() []domain.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Item(nil), c.items...)
}

// SetPageSize switches to one of domain.PageSizeOptions, returns to page 1
// and reloads.
func (c *Controller) SetPageSize(ctx context.Context, n int) error {
	if !domain.ValidPageSize(n) {
		return domain.ErrInvalidPageSize
	}
	c.mu.Lock()
	c.state.PageSize = n
	c.state.CurrentPage = 1
	c.mu.Unlock()
	return c.Reload(ctx)
}

// SetSortOrder switches the date order, returns to page 1 and reloads.
func (c *Controller) SetSortOrder(ctx context.Context, order domain.SortOrder) error {
	if order != domain.SortNewest && order != domain.SortOldest {
		return domain.ErrInvalidSortOrder
	}
	c.mu.Lock()
	c.state.SortOrder = order
	c.state.CurrentPage = 1
	c.mu.Unlock()
	return c.Reload(ctx)
}

// NextPage advances one page and reloads. It is a no-op on the last page.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.HasNext(c.total) {
		c.mu.Unlock()
		return nil
	}
	c.state.CurrentPage++
	c.mu.Unlock()
	return c.Reload(ctx)
}

// PrevPage goes back one page and reloads. It is a no-op on page 1.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.HasPrev() {
		c.mu.Unlock()
		return nil
	}
	c.state.CurrentPage--
	c.mu.Unlock()
	return c.Reload(ctx)
}

// Reload fetches the page described by the current state and replaces the
// collection with it. It does nothing in edit mode.
//
// Starting a reload cancels any reload still in flight. A reload whose
// result arrives after a newer one started returns domain.ErrSuperseded and
// leaves state alone. On a fetch error the collection is kept, the error is
// recorded for the next View, and the error is returned.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.editing {
		c.mu.Unlock()
		return nil
	}
	query := c.state.Query()
	window := c.state.Window()
	seq, fetchCtx := c.beginLocked(ctx)
	c.mu.Unlock()

	page, err := observability.TimeOperationResult(fetchCtx, nil, c.metrics, "ideas.reload",
		func() (domain.Page, error) {
			return c.source.FetchPage(fetchCtx, query)
		})

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return domain.ErrSuperseded
	}
	c.finishLocked()

	if err != nil {
		c.loadErr = err
		c.logger.ErrorContext(ctx, "failed to fetch ideas page",
			"page", query.PageNumber,
			"size", query.PageSize,
			"sort", string(query.Sort),
			"error", err,
		)
		return err
	}

	c.items = append([]domain.Item(nil), page.Items...)
	c.total = page.TotalCount
	c.offset = window.Start
	c.loadErr = nil
	return nil
}

// beginLocked starts a new reload generation and cancels the previous one.
func (c *Controller) beginLocked(ctx context.Context) (uint64, context.Context) {
	c.invalidateLocked()
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	return c.seq, fetchCtx
}

// invalidateLocked makes any in-flight reload stale.
func (c *Controller) invalidateLocked() {
	c.seq++
	c.finishLocked()
}

func (c *Controller) finishLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
}

// ToggleEditMode flips edit mode.
//
// Entering edit mode drops any in-flight reload and adopts the loaded items
// as the whole local collection. Leaving it discards local edits by
// reloading from the data source.
func (c *Controller) ToggleEditMode(ctx context.Context) error {
	c.mu.Lock()
	c.editing = !c.editing
	if c.editing {
		c.invalidateLocked()
		c.offset = 0
		c.total = len(c.items)
		c.loadErr = nil
		c.state = c.state.Clamp(c.total)
		n := c.total
		c.mu.Unlock()
		c.logger.InfoContext(ctx, "edit mode enabled", "items", n)
		return nil
	}
	c.mu.Unlock()
	c.logger.InfoContext(ctx, "edit mode disabled, reloading")
	return c.Reload(ctx)
}

// AddItem inserts a new item at the front of the local collection and
// returns it. The image is resolved before anything is mutated.
func (c *Controller) AddItem(ctx context.Context, fields domain.ItemFields) (domain.Item, error) {
	if !c.EditMode() {
		return domain.Item{}, domain.ErrNotEditing
	}

	image, err := c.images.Resolve(ctx, fields.ImageFile)
	if err != nil {
		return domain.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editing {
		return domain.Item{}, domain.ErrNotEditing
	}

	item := domain.Item{
		ID:    domain.NextID(c.items),
		Title: fields.Title,
		Image: image,
		Date:  fields.Date,
	}
	c.items = append([]domain.Item{item}, c.items...)
	c.total = len(c.items)
	c.state.CurrentPage = 1
	return item, nil
}

// UpdateItem overwrites the title and date of the item with id, and its
// image when fields.ImageFile is set. It reports false, without error, when
// no such item exists.
func (c *Controller) UpdateItem(ctx context.Context, id int, fields domain.ItemFields) (bool, error) {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return false, domain.ErrNotEditing
	}
	found := domain.IndexOf(c.items, id) >= 0
	c.mu.Unlock()
	if !found {
		return false, nil
	}

	var image string
	if fields.ImageFile != "" {
		var err error
		if image, err = c.images.Resolve(ctx, fields.ImageFile); err != nil {
			return false, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editing {
		return false, domain.ErrNotEditing
	}
	idx := domain.IndexOf(c.items, id)
	if idx < 0 {
		return false, nil
	}
	c.items[idx].Title = fields.Title
	c.items[idx].Date = fields.Date
	if image != "" {
		c.items[idx].Image = image
	}
	return true, nil
}

// DeleteItem removes the item with id once confirm approves it. It reports
// whether an item was removed; a missing id or a declined confirmation is a
// no-op.
func (c *Controller) DeleteItem(id int, confirm ConfirmFunc) (bool, error) {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return false, domain.ErrNotEditing
	}
	idx := domain.IndexOf(c.items, id)
	if idx < 0 {
		c.mu.Unlock()
		return false, nil
	}
	item := c.items[idx]
	c.mu.Unlock()

	if confirm == nil || !confirm(item) {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editing {
		return false, domain.ErrNotEditing
	}
	idx = domain.IndexOf(c.items, id)
	if idx < 0 {
		return false, nil
	}
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	c.total = len(c.items)
	c.state = c.state.Clamp(c.total)
	return true, nil
}

// IsSuperseded reports whether err came from a reload that lost to a newer
// one. Callers usually ignore such errors.
func IsSuperseded(err error) bool {
	return errors.Is(err, domain.ErrSuperseded)
}

// placeholderImages resolves every path to the placeholder; used when no
// resolver is configured.
type placeholderImages struct{}

func (placeholderImages) Resolve(context.Context, string) (string, error) {
	return domain.DefaultImage, nil
}
