// Package listctrl owns the query state of a paginated list page: page
// number, search text and server-side filters drive fetches, while
// client-side filters and sorting are pure passes over the page already
// fetched. Every list view (leads, cases, customers, partners, branches,
// users) binds one Controller to one endpoint.
package listctrl

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
)

// Query is the server-side slice of the list state, snapshotted per fetch.
type Query struct {
	Page    int
	Search  string
	Filters map[string]string
}

type FetchFunc[T any] func(ctx context.Context, q Query) (api.ListResult[T], error)

type Controller[T any] struct {
	mu     sync.Mutex
	fetch  FetchFunc[T]
	logger *zap.Logger

	page    int
	search  string
	filters map[string]string

	rows     []T
	pages    int
	inFlight bool

	clientFilters []func(T) bool
	sortLess      func(a, b T) bool
}

func NewController[T any](fetch FetchFunc[T], logger *zap.Logger) *Controller[T] {
	return &Controller[T]{
		fetch:   fetch,
		logger:  logger.Named("listctrl"),
		page:    1,
		filters: make(map[string]string),
	}
}

// SetSearch updates the search text. Any change resets the page to 1.
// It reports whether a reload is needed.
func (c *Controller[T]) SetSearch(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.search {
		return false
	}
	c.search = text
	c.page = 1
	return true
}

// SetFilter updates one server-side filter; an empty value removes it.
// Any change resets the page to 1. It reports whether a reload is needed.
func (c *Controller[T]) SetFilter(key, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, exists := c.filters[key]
	if value == "" {
		if !exists {
			return false
		}
		delete(c.filters, key)
	} else {
		if exists && current == value {
			return false
		}
		c.filters[key] = value
	}
	c.page = 1
	return true
}

// GoToPage clamps the target into [1, max(pages, 1)] and reports whether
// the page actually changed.
func (c *Controller[T]) GoToPage(page int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	clamped := clampPage(page, c.pages)
	if clamped == c.page {
		return false
	}
	c.page = clamped
	return true
}

// NextPage is a no-op at the last page.
func (c *Controller[T]) NextPage() bool {
	c.mu.Lock()
	target := c.page + 1
	c.mu.Unlock()
	return c.GoToPage(target)
}

// PrevPage is a no-op at page 1.
func (c *Controller[T]) PrevPage() bool {
	c.mu.Lock()
	target := c.page - 1
	c.mu.Unlock()
	return c.GoToPage(target)
}

// Load issues one fetch for the current query state. A call arriving while
// another load is still in flight is skipped; there is no cancellation, the
// running fetch resolves and its result stands until the caller reloads.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.logger.Debug("load skipped, fetch already in flight")
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	q := Query{
		Page:    c.page,
		Search:  c.search,
		Filters: copyFilters(c.filters),
	}
	c.mu.Unlock()

	result, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return err
	}
	c.rows = result.Items
	c.pages = result.Pages
	// The server may report fewer pages than when the fetch started, for
	// example after a delete emptied the last page.
	c.page = clampPage(c.page, c.pages)
	return nil
}

// DeleteAndReload runs the confirmed delete call and then reloads the full
// page, never splicing rows locally.
func (c *Controller[T]) DeleteAndReload(ctx context.Context, del func(context.Context) error) error {
	if err := del(ctx); err != nil {
		return err
	}
	return c.Load(ctx)
}

// SetClientFilters installs the pure row predicates applied by Visible.
// They never trigger a fetch and never change the server page count.
func (c *Controller[T]) SetClientFilters(filters ...func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientFilters = filters
}

// SetSort installs the client-side ordering applied by Visible. The sort is
// stable so rows the ordering considers equal keep the server order.
func (c *Controller[T]) SetSort(less func(a, b T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortLess = less
}

// Patch mutates the fetched rows in place, for optimistic edits applied
// ahead of server confirmation.
func (c *Controller[T]) Patch(fn func(rows []T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.rows)
}

// Rows returns the page exactly as fetched.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Visible applies the client-side filters and sort over the fetched page.
// It narrows only what is displayed; Pages still reflects the server count.
func (c *Controller[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := make([]T, 0, len(c.rows))
	for _, row := range c.rows {
		if c.matches(row) {
			visible = append(visible, row)
		}
	}
	if c.sortLess != nil {
		less := c.sortLess
		sort.SliceStable(visible, func(i, j int) bool { return less(visible[i], visible[j]) })
	}
	return visible
}

func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T]) Pages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages
}

func (c *Controller[T]) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

func (c *Controller[T]) Filter(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[key]
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Controller[T]) matches(row T) bool {
	for _, keep := range c.clientFilters {
		if !keep(row) {
			return false
		}
	}
	return true
}

func clampPage(page, pages int) int {
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

func copyFilters(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
