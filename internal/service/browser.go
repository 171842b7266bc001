package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dtroode/pokedex-client/internal/logger"
	"github.com/dtroode/pokedex-client/internal/model"
	"github.com/dtroode/pokedex-client/internal/stream"
)

const (
	// DefaultPageSize is the number of summaries requested per page.
	DefaultPageSize = 10

	MsgListFailed   = "Failed to load Pokemon"
	MsgDetailFailed = "Failed to load Pokemon details"
)

// Browser pages through the catalog, keeps every summary fetched so far for local
// search and loads single details on demand.
//
// Subscribers are notified while the Browser holds its state lock, so they must
// not call back into the Browser synchronously.
type Browser struct {
	catalog  model.CatalogClient
	pageSize int
	logger   *logger.Logger

	mu        sync.Mutex
	buffer    []model.Summary
	query     string
	detailGen uint64

	browse   *stream.Stream[model.BrowseState]
	detail   *stream.Stream[*model.DetailState]
	search   *stream.Stream[string]
	filtered *stream.Stream[[]model.Summary]

	tasks *group
}

// NewBrowser creates a Browser and starts loading the first page.
func NewBrowser(catalog model.CatalogClient, pageSize int, logger *logger.Logger) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	b := &Browser{
		catalog:  catalog,
		pageSize: pageSize,
		logger:   logger,
		browse:   stream.New(model.BrowseState{CanLoadMore: true, Items: []model.Summary{}}),
		detail:   stream.New[*model.DetailState](nil),
		search:   stream.New(""),
		filtered: stream.New([]model.Summary{}),
		tasks:    newGroup(),
	}

	b.LoadMore()

	return b
}

func (b *Browser) BrowseState() *stream.Stream[model.BrowseState] {
	return b.browse
}

func (b *Browser) DetailState() *stream.Stream[*model.DetailState] {
	return b.detail
}

func (b *Browser) SearchQuery() *stream.Stream[string] {
	return b.search
}

// Filtered is the search projection over every summary loaded so far.
func (b *Browser) Filtered() *stream.Stream[[]model.Summary] {
	return b.filtered
}

// LoadMore requests the next page. It is a no-op while a page is loading or
// after the catalog reported no next page.
func (b *Browser) LoadMore() {
	b.mu.Lock()
	st := b.browse.Value()
	if st.Loading || !st.CanLoadMore {
		b.mu.Unlock()
		return
	}
	offset := len(b.buffer)
	b.browse.Update(func(st model.BrowseState) model.BrowseState {
		st.Loading = true
		return st
	})
	b.mu.Unlock()

	b.tasks.Go(func(ctx context.Context) {
		b.logger.Debug("Browser service: loading page",
			"offset", offset,
			"limit", b.pageSize)

		page, err := b.catalog.ListPage(ctx, offset, b.pageSize)
		if ctx.Err() != nil {
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		if err != nil {
			b.logger.Error("Browser service: failed to load page",
				"offset", offset,
				"error", err.Error())
			b.browse.Update(func(st model.BrowseState) model.BrowseState {
				st.Loading = false
				st.Error = errorMessage(err, MsgListFailed)
				return st
			})
			return
		}

		b.buffer = append(b.buffer, page.Results...)
		items := slices.Clone(b.buffer)

		b.browse.Update(func(st model.BrowseState) model.BrowseState {
			st.Loading = false
			st.Items = items
			st.CanLoadMore = page.Next != nil
			st.Error = ""
			return st
		})
		b.publishFiltered()

		b.logger.Info("Browser service: page loaded",
			"offset", offset,
			"received", len(page.Results),
			"total_loaded", len(items),
			"has_next", page.Next != nil)
	})
}

// UpdateSearchQuery replaces the search text. It never triggers a remote call
// and never resets pagination.
func (b *Browser) UpdateSearchQuery(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.query = text
	b.search.Set(text)
	b.publishFiltered()
}

// publishFiltered recomputes the search projection. Callers hold b.mu.
func (b *Browser) publishFiltered() {
	b.filtered.Set(filterByName(b.buffer, b.query))
}

// LoadDetail shows a fresh loading state and fetches idOrName in the background.
// A response to a request superseded by a later LoadDetail or ClearDetail is dropped.
func (b *Browser) LoadDetail(idOrName string) {
	b.mu.Lock()
	b.detailGen++
	gen := b.detailGen
	b.detail.Set(&model.DetailState{Loading: true})
	b.mu.Unlock()

	b.tasks.Go(func(ctx context.Context) {
		detail, err := b.catalog.GetDetail(ctx, idOrName)

		b.mu.Lock()
		defer b.mu.Unlock()

		if gen != b.detailGen {
			b.logger.Debug("Browser service: dropping superseded detail response",
				"id_or_name", idOrName)
			return
		}

		if err != nil {
			b.logger.Error("Browser service: failed to load detail",
				"id_or_name", idOrName,
				"error", err.Error())
			b.detail.Set(&model.DetailState{Error: errorMessage(err, MsgDetailFailed)})
			return
		}

		b.detail.Set(&model.DetailState{Item: &detail})
	})
}

// ClearDetail closes the detail view.
func (b *Browser) ClearDetail() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.detailGen++
	b.detail.Set(nil)
}

// Close cancels in-flight requests and waits for them.
func (b *Browser) Close() {
	b.tasks.Close()
}

func filterByName(items []model.Summary, query string) []model.Summary {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(items)
	}

	needle := strings.ToLower(query)
	out := make([]model.Summary, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			out = append(out, it)
		}
	}
	return out
}
