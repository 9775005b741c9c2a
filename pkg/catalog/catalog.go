// Package catalog decides which product listing to show: the whole
// catalogue, one category, or a search, together with the page.
//
// Each transition issues one query. Queries carry a sequence number and
// only the response to the latest issued query is applied, so a slow reply
// to an older query never overwrites a newer result.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/api"
	"storefront/pkg/logger"
	"storefront/pkg/otel"
)

// ErrSearchActive is returned when a category change is attempted while a
// search term is applied.
var ErrSearchActive = errors.New("catalog: search term is active")

// Mode is the listing being browsed.
type Mode int

const (
	ModeAll Mode = iota
	ModeCategory
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeCategory:
		return "category"
	case ModeSearch:
		return "search"
	default:
		return "all"
	}
}

// Query is the active listing and page. Page is always at least 1.
type Query struct {
	Mode       Mode   `json:"mode"`
	CategoryID int    `json:"categoryId,omitempty"`
	Term       string `json:"term,omitempty"`
	Page       int    `json:"page"`
}

// Lister is the read side of the API client.
type Lister interface {
	ListProducts(ctx context.Context, page int) api.Page[api.Product]
	ListProductsByCategory(ctx context.Context, categoryID, page int) api.Page[api.Product]
	SearchProducts(ctx context.Context, term string, page int) api.Page[api.Product]
}

// Browser is the catalogue state of one visitor. Safe for concurrent use.
type Browser struct {
	api Lister
	log *logger.Logger

	mu       sync.Mutex
	query    Query
	issued   uint64
	applied  uint64
	page     api.Page[api.Product]
	category string
}

// Option configures a Browser.
type Option func(*Browser)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(b *Browser) { b.log = log }
}

// New returns a Browser on the first page of the whole catalogue. Nothing
// is fetched until the first transition or Refresh.
func New(l Lister, opts ...Option) *Browser {
	b := &Browser{
		api:   l,
		log:   logger.NewNop(),
		query: Query{Mode: ModeAll, Page: 1},
		page:  api.Page[api.Product]{Data: []api.Product{}},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Query returns the active query.
func (b *Browser) Query() Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.query
}

// Loaded reports whether any query has been issued yet.
func (b *Browser) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issued > 0
}

// View returns what is currently displayed.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// SetSearchTerm switches to search mode for term, clearing any category.
// A blank term is the same as ClearSearch.
func (b *Browser) SetSearchTerm(ctx context.Context, term string) View {
	term = strings.TrimSpace(term)
	if term == "" {
		return b.ClearSearch(ctx)
	}
	return b.transition(ctx, func(Query) (Query, bool) {
		return Query{Mode: ModeSearch, Term: term, Page: 1}, true
	})
}

// ClearSearch returns to the whole catalogue.
func (b *Browser) ClearSearch(ctx context.Context) View {
	return b.transition(ctx, func(Query) (Query, bool) {
		return Query{Mode: ModeAll, Page: 1}, true
	})
}

// SelectCategory switches to category id. It fails with ErrSearchActive
// while a search term is applied.
func (b *Browser) SelectCategory(ctx context.Context, id int) (View, error) {
	var err error
	v := b.transition(ctx, func(q Query) (Query, bool) {
		if q.Mode == ModeSearch {
			err = ErrSearchActive
			return q, false
		}
		return Query{Mode: ModeCategory, CategoryID: id, Page: 1}, true
	})
	return v, err
}

// SelectAll drops the category filter. Like SelectCategory it is rejected
// while a search term is applied.
func (b *Browser) SelectAll(ctx context.Context) (View, error) {
	var err error
	v := b.transition(ctx, func(q Query) (Query, bool) {
		if q.Mode == ModeSearch {
			err = ErrSearchActive
			return q, false
		}
		return Query{Mode: ModeAll, Page: 1}, true
	})
	return v, err
}

// NextPage advances one page. It does nothing on the last page.
func (b *Browser) NextPage(ctx context.Context) View {
	return b.transition(ctx, func(q Query) (Query, bool) {
		if q.Page >= b.lastPageLocked() {
			return q, false
		}
		q.Page++
		return q, true
	})
}

// PrevPage goes back one page. It does nothing on the first page.
func (b *Browser) PrevPage(ctx context.Context) View {
	return b.transition(ctx, func(q Query) (Query, bool) {
		if q.Page <= 1 {
			return q, false
		}
		q.Page--
		return q, true
	})
}

// Refresh re-issues the active query.
func (b *Browser) Refresh(ctx context.Context) View {
	return b.transition(ctx, func(q Query) (Query, bool) { return q, true })
}

func (b *Browser) lastPageLocked() int {
	return max(b.page.Meta.LastPage, 1)
}

// transition computes the next query under the lock, fetches outside it and
// applies the result only when no newer query was issued meanwhile.
func (b *Browser) transition(ctx context.Context, next func(Query) (Query, bool)) View {
	b.mu.Lock()
	q, ok := next(b.query)
	if !ok {
		v := b.viewLocked()
		b.mu.Unlock()
		return v
	}
	b.query = q
	b.issued++
	seq := b.issued
	b.mu.Unlock()

	page := b.fetch(ctx, q, seq)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.issued {
		b.log.Debug(ctx, "discarding stale catalog response", "seq", seq, "latest", b.issued)
		return b.viewLocked()
	}
	b.applied = seq
	b.page = page
	b.category = ""
	if q.Mode == ModeCategory && len(page.Data) > 0 && page.Data[0].Category != nil {
		b.category = page.Data[0].Category.Name
	}
	return b.viewLocked()
}

func (b *Browser) fetch(ctx context.Context, q Query, seq uint64) api.Page[api.Product] {
	ctx, span := otel.AddSpan(ctx, "catalog.fetch",
		attribute.String("mode", q.Mode.String()),
		attribute.Int("page", q.Page),
		attribute.Int64("seq", int64(seq)),
	)
	defer span.End()

	var p api.Page[api.Product]
	switch q.Mode {
	case ModeSearch:
		p = b.api.SearchProducts(ctx, q.Term, q.Page)
	case ModeCategory:
		p = b.api.ListProductsByCategory(ctx, q.CategoryID, q.Page)
	default:
		p = b.api.ListProducts(ctx, q.Page)
	}
	if p.Data == nil {
		p.Data = []api.Product{}
	}
	return p
}

func (b *Browser) viewLocked() View {
	v := View{
		Query:        b.query,
		Products:     append([]api.Product(nil), b.page.Data...),
		Meta:         b.page.Meta,
		CategoryName: b.category,
		LastPage:     b.lastPageLocked(),
		Loading:      b.applied != b.issued,
	}
	v.Title = title(b.query, v.Meta.Total, b.category)
	if len(v.Products) == 0 {
		v.EmptyMessage = emptyMessage(b.query)
	}
	return v
}

// View is a snapshot of the catalogue for rendering.
type View struct {
	Query        Query         `json:"query"`
	Products     []api.Product `json:"products"`
	Meta         api.Meta      `json:"meta"`
	CategoryName string        `json:"categoryName,omitempty"`
	LastPage     int           `json:"lastPage"`
	Title        string        `json:"title"`
	EmptyMessage string        `json:"emptyMessage,omitempty"`
	Loading      bool          `json:"loading"`
}

// HasPrev reports whether PrevPage would move.
func (v View) HasPrev() bool { return v.Query.Page > 1 }

// HasNext reports whether NextPage would move.
func (v View) HasNext() bool { return v.Query.Page < v.LastPage }

func title(q Query, total int, category string) string {
	switch q.Mode {
	case ModeSearch:
		return fmt.Sprintf("%d Resultados para \"%s\"", total, q.Term)
	case ModeCategory:
		if category == "" {
			category = "Categoria Selecionada"
		}
		return fmt.Sprintf("%d Produtos em %s", total, category)
	default:
		return fmt.Sprintf("%d Produtos Disponíveis", total)
	}
}

func emptyMessage(q Query) string {
	if q.Mode == ModeSearch {
		return fmt.Sprintf("Nenhum produto encontrado para \"%s\".", q.Term)
	}
	return "Nenhum produto encontrado nesta categoria."
}
