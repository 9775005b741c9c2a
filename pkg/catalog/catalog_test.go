package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storefront/pkg/api"
)

type call struct {
	Mode       Mode
	CategoryID int
	Term       string
	Page       int
}

// fakeLister serves canned pages and records every query. A query listed in
// gates blocks until its channel is closed.
type fakeLister struct {
	mu       sync.Mutex
	calls    []call
	lastPage int
	gates    map[call]chan struct{}
	started  chan call
}

func (f *fakeLister) serve(c call) api.Page[api.Product] {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	gate := f.gates[c]
	f.mu.Unlock()
	if f.started != nil {
		f.started <- c
	}
	if gate != nil {
		<-gate
	}

	last := f.lastPage
	if last == 0 {
		last = 1
	}
	p := api.Product{ID: c.Page, Name: c.Mode.String() + ":" + c.Term}
	if c.Mode == ModeCategory {
		p.Category = &api.Category{ID: c.CategoryID, Name: "Cartas"}
	}
	return api.Page[api.Product]{
		Meta: api.Meta{Total: 1, PerPage: 10, CurrentPage: c.Page, LastPage: last},
		Data: []api.Product{p},
	}
}

func (f *fakeLister) ListProducts(_ context.Context, page int) api.Page[api.Product] {
	return f.serve(call{Mode: ModeAll, Page: page})
}

func (f *fakeLister) ListProductsByCategory(_ context.Context, id, page int) api.Page[api.Product] {
	return f.serve(call{Mode: ModeCategory, CategoryID: id, Page: page})
}

func (f *fakeLister) SearchProducts(_ context.Context, term string, page int) api.Page[api.Product] {
	return f.serve(call{Mode: ModeSearch, Term: term, Page: page})
}

func (f *fakeLister) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func TestCategoryRejectedWhileSearching(t *testing.T) {
	ctx := context.Background()
	l := &fakeLister{lastPage: 3}
	b := New(l)

	v := b.SetSearchTerm(ctx, "dragon")
	assert.Equal(t, Query{Mode: ModeSearch, Term: "dragon", Page: 1}, v.Query)

	_, err := b.SelectCategory(ctx, 3)
	assert.True(t, errors.Is(err, ErrSearchActive))
	assert.Equal(t, ModeSearch, b.Query().Mode)

	_, err = b.SelectAll(ctx)
	assert.True(t, errors.Is(err, ErrSearchActive))

	b.ClearSearch(ctx)
	b.NextPage(ctx)
	v, err = b.SelectCategory(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, Query{Mode: ModeCategory, CategoryID: 3, Page: 1}, v.Query)
	assert.Equal(t, "Cartas", v.CategoryName)

	want := []call{
		{Mode: ModeSearch, Term: "dragon", Page: 1},
		{Mode: ModeAll, Page: 1},
		{Mode: ModeAll, Page: 2},
		{Mode: ModeCategory, CategoryID: 3, Page: 1},
	}
	if diff := cmp.Diff(want, l.recorded()); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchClearsCategory(t *testing.T) {
	ctx := context.Background()
	b := New(&fakeLister{lastPage: 2})

	_, err := b.SelectCategory(ctx, 5)
	require.NoError(t, err)
	b.NextPage(ctx)
	assert.Equal(t, 2, b.Query().Page)

	v := b.SetSearchTerm(ctx, "  elfo ")
	assert.Equal(t, Query{Mode: ModeSearch, Term: "elfo", Page: 1}, v.Query)
	assert.Empty(t, v.CategoryName)

	v = b.SetSearchTerm(ctx, "   ")
	assert.Equal(t, Query{Mode: ModeAll, Page: 1}, v.Query)
}

func TestPaginationBounds(t *testing.T) {
	ctx := context.Background()
	l := &fakeLister{lastPage: 2}
	b := New(l)

	b.PrevPage(ctx)
	assert.Empty(t, l.recorded(), "prev on page 1 must not query")
	assert.False(t, b.Loaded())

	b.Refresh(ctx)
	v := b.NextPage(ctx)
	assert.Equal(t, 2, v.Query.Page)
	assert.True(t, v.HasPrev())
	assert.False(t, v.HasNext())

	b.NextPage(ctx)
	assert.Equal(t, 2, b.Query().Page)

	v = b.PrevPage(ctx)
	assert.Equal(t, 1, v.Query.Page)
	assert.True(t, b.Loaded())
	assert.Len(t, l.recorded(), 3)
}

func TestNextPageWithoutResultsIsNoop(t *testing.T) {
	l := &fakeLister{}
	b := New(l)
	v := b.NextPage(context.Background())
	assert.Equal(t, 1, v.Query.Page)
	assert.Empty(t, l.recorded())
}

func TestStaleResponseIgnored(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	slow := call{Mode: ModeSearch, Term: "dragon", Page: 1}
	gate := make(chan struct{})
	l := &fakeLister{
		lastPage: 1,
		gates:    map[call]chan struct{}{slow: gate},
		started:  make(chan call, 4),
	}
	b := New(l)

	var wg sync.WaitGroup
	wg.Add(1)
	var staleView View
	go func() {
		defer wg.Done()
		staleView = b.SetSearchTerm(ctx, "dragon")
	}()
	require.Equal(t, slow, <-l.started)

	fresh := b.ClearSearch(ctx)
	<-l.started
	assert.Equal(t, ModeAll, fresh.Query.Mode)
	assert.False(t, fresh.Loading)

	close(gate)
	wg.Wait()

	v := b.View()
	assert.Equal(t, Query{Mode: ModeAll, Page: 1}, v.Query)
	require.Len(t, v.Products, 1)
	assert.Equal(t, "all:", v.Products[0].Name)
	assert.Equal(t, "all:", staleView.Products[0].Name)
}

func TestViewTitles(t *testing.T) {
	ctx := context.Background()
	b := New(&fakeLister{})

	assert.Equal(t, "1 Produtos Disponíveis", b.Refresh(ctx).Title)
	v, _ := b.SelectCategory(ctx, 2)
	assert.Equal(t, "1 Produtos em Cartas", v.Title)
	assert.Equal(t, `1 Resultados para "dragão"`, b.SetSearchTerm(ctx, "dragão").Title)
}

type emptyLister struct{}

func (emptyLister) ListProducts(context.Context, int) api.Page[api.Product] {
	return api.Page[api.Product]{}
}

func (emptyLister) ListProductsByCategory(context.Context, int, int) api.Page[api.Product] {
	return api.Page[api.Product]{}
}

func (emptyLister) SearchProducts(context.Context, string, int) api.Page[api.Product] {
	return api.Page[api.Product]{}
}

func TestEmptyResults(t *testing.T) {
	ctx := context.Background()
	b := New(emptyLister{})

	v, err := b.SelectCategory(ctx, 9)
	require.NoError(t, err)
	assert.NotNil(t, v.Products)
	assert.Equal(t, "0 Produtos em Categoria Selecionada", v.Title)
	assert.Equal(t, "Nenhum produto encontrado nesta categoria.", v.EmptyMessage)
	assert.Equal(t, 1, v.LastPage)

	v = b.SetSearchTerm(ctx, "x")
	assert.Equal(t, `Nenhum produto encontrado para "x".`, v.EmptyMessage)
}

func TestColorClass(t *testing.T) {
	cases := map[string]string{
		"laranja":        "bg-purple-400",
		"ciano":          "bg-cyan-400",
		"azul":           "bg-blue-400",
		"rosa":           "bg-pink-400",
		"verde":          "bg-purple-400",
		"bg-green-500":   "bg-green-500",
		"bg-orange-400":  "bg-purple-400",
		"bg-laranja-300": "bg-purple-400",
		"":               "bg-purple-400",
	}
	for in, want := range cases {
		assert.Equal(t, want, ColorClass(in), in)
	}
}
