package pagination

import (
	"context"
	"sync"
)

// Cursor is an opaque position token handed back by a fetch. The empty
// cursor means "start of the collection" on input and "no further pages"
// on output; nothing else about its contents may be assumed.
type Cursor string

// FetchFunc loads up to limit items starting after the given cursor and
// returns the cursor for the following page, or "" when exhausted.
type FetchFunc[T any] func(ctx context.Context, after Cursor, limit int) ([]T, Cursor, error)

// CountFunc returns the total item count for the underlying collection.
type CountFunc func(ctx context.Context) (int, error)

// Page is one fetched page of a listing.
type Page[T any] struct {
	Items   []T
	Cursor  Cursor
	HasMore bool
}

type cachedPage[T any] struct {
	items  []T
	cursor Cursor
}

// Pager serves a forward-only cursor-paginated collection by 1-based page
// number, caching every fetched page. A page already in cache is served
// without touching the store. Because cursors are only valid as the
// start-after token of the page that produced them, a jump past the cached
// frontier fills sequentially from the last verified page; an unverified
// cursor is never used.
//
// The cache is cleared as a whole on Invalidate — stale cursors cannot be
// patched selectively.
type Pager[T any] struct {
	fetch    FetchFunc[T]
	count    CountFunc
	pageSize int

	mu    sync.Mutex
	cache map[int]cachedPage[T]
}

func NewPager[T any](fetch FetchFunc[T], count CountFunc, pageSize int) *Pager[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Pager[T]{
		fetch:    fetch,
		count:    count,
		pageSize: pageSize,
		cache:    make(map[int]cachedPage[T]),
	}
}

// FetchPage returns the requested 1-based page, from cache when possible.
func (p *Pager[T]) FetchPage(ctx context.Context, page int) (Page[T], error) {
	if page < 1 {
		page = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.cache[page]; ok {
		return Page[T]{Items: c.items, Cursor: c.cursor, HasMore: c.cursor != ""}, nil
	}

	// Walk forward from the last cached predecessor, filling the cache.
	// Page 1 always starts from the empty cursor.
	start := 1
	after := Cursor("")
	for n := page - 1; n >= 1; n-- {
		if c, ok := p.cache[n]; ok {
			start = n + 1
			after = c.cursor
			break
		}
	}

	var result Page[T]
	for n := start; n <= page; n++ {
		if err := ctx.Err(); err != nil {
			return Page[T]{}, err
		}
		items, next, err := p.fetch(ctx, after, p.pageSize)
		if err != nil {
			return Page[T]{}, err
		}
		p.cache[n] = cachedPage[T]{items: items, cursor: next}
		result = Page[T]{Items: items, Cursor: next, HasMore: next != ""}
		if next == "" && n < page {
			// Collection ended before the requested page.
			return Page[T]{Items: []T{}, HasMore: false}, nil
		}
		after = next
	}

	return result, nil
}

// Count returns the total item count and page count. Count failures
// degrade to 0 items / 1 page instead of blocking the listing.
func (p *Pager[T]) Count(ctx context.Context) (total int, totalPages int) {
	n, err := p.count(ctx)
	if err != nil || n < 0 {
		return 0, 1
	}
	pages := (n + p.pageSize - 1) / p.pageSize
	if pages < 1 {
		pages = 1
	}
	return n, pages
}

// Invalidate drops the whole page cache. Call after any mutation of the
// underlying collection; cached cursors are worthless afterwards.
func (p *Pager[T]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[int]cachedPage[T])
}

// PageSize reports the configured page size.
func (p *Pager[T]) PageSize() int {
	return p.pageSize
}
