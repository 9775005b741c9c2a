package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/otel"
)

// EmptyPerPage is the page size reported by the empty fallback page.
const EmptyPerPage = 10

// Category groups products in the sidebar.
type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"nome"`
	Slug      string `json:"slug"`
	Color     string `json:"cor"`
	CreatedAt string `json:"criadoEm,omitempty"`
	UpdatedAt string `json:"atualizadoEm,omitempty"`
}

// Product is a catalogue entry. Price accepts both JSON numbers and strings.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"nome"`
	Price       decimal.Decimal `json:"preco"`
	Description string          `json:"descricao"`
	ImageURL    string          `json:"urlImagem"`
	CategoryID  int             `json:"categoriaId"`
	CreatedAt   string          `json:"criadoEm,omitempty"`
	UpdatedAt   string          `json:"atualizadoEm,omitempty"`
	Category    *Category       `json:"categoria,omitempty"`
}

// Meta describes the position of a page inside a listing.
type Meta struct {
	Total           int     `json:"total"`
	PerPage         int     `json:"perPage"`
	CurrentPage     int     `json:"currentPage"`
	LastPage        int     `json:"lastPage"`
	FirstPage       int     `json:"firstPage"`
	FirstPageURL    string  `json:"firstPageUrl"`
	LastPageURL     string  `json:"lastPageUrl"`
	NextPageURL     *string `json:"nextPageUrl"`
	PreviousPageURL *string `json:"previousPageUrl"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// ListCategories returns every category, or an empty slice on failure.
func (c *Client) ListCategories(ctx context.Context) []Category {
	ctx, span := otel.AddSpan(ctx, "api.ListCategories")
	defer span.End()

	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/categorias"}, &raw); err != nil {
		c.log.Warn(ctx, "list categories failed", "error", err)
		return []Category{}
	}

	raw = bytes.TrimSpace(raw)
	var cats []Category
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &cats); err != nil {
			c.log.Warn(ctx, "decode categories failed", "error", err)
			return []Category{}
		}
		return cats
	}
	var wrapped struct {
		Data []Category `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Data == nil {
		c.log.Warn(ctx, "decode categories failed", "error", err)
		return []Category{}
	}
	return wrapped.Data
}

// ListProducts returns a page of the whole catalogue.
func (c *Client) ListProducts(ctx context.Context, page int) Page[Product] {
	return c.listProducts(ctx, "api.ListProducts", url.Values{}, page, "")
}

// ListProductsByCategory returns a page of one category.
func (c *Client) ListProductsByCategory(ctx context.Context, categoryID, page int) Page[Product] {
	q := url.Values{}
	q.Set("categoria", strconv.Itoa(categoryID))
	return c.listProducts(ctx, "api.ListProductsByCategory", q, page, "")
}

// SearchProducts returns a page of products matching term by name.
func (c *Client) SearchProducts(ctx context.Context, term string, page int) Page[Product] {
	q := url.Values{}
	q.Set("nome", term)
	return c.listProducts(ctx, "api.SearchProducts", q, page, term)
}

// GetProduct fetches one product. Unlike the listings it reports failures,
// since callers cannot price a cart line from an empty fallback.
func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	ctx, span := otel.AddSpan(ctx, "api.GetProduct", attribute.Int("product_id", id))
	defer span.End()

	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/produtos/" + strconv.Itoa(id)}, &raw); err != nil {
		return Product{}, err
	}

	var wrapped struct {
		Data *Product `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return *wrapped.Data, nil
	}
	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return Product{}, fmt.Errorf("decode product %d: %w", id, err)
	}
	if p.ID == 0 {
		return Product{}, fmt.Errorf("product %d: empty response", id)
	}
	return p, nil
}

func (c *Client) listProducts(ctx context.Context, op string, q url.Values, page int, term string) Page[Product] {
	if page < 1 {
		page = 1
	}
	ctx, span := otel.AddSpan(ctx, op, attribute.Int("page", page))
	defer span.End()

	filter := url.Values{}
	for k, v := range q {
		filter[k] = v
	}
	q.Set("page", strconv.Itoa(page))

	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/produtos", query: q}, &raw); err != nil {
		c.log.Warn(ctx, "list products failed", "op", op, "page", page, "error", err)
		return c.emptyPage(page)
	}

	p, paginated, err := decodePage[Product](raw)
	if err != nil {
		c.log.Warn(ctx, "decode products failed", "op", op, "page", page, "error", err)
		return c.emptyPage(page)
	}
	if paginated {
		return p
	}

	// Bare array: the server ignored paging, and possibly the filter too.
	if term != "" {
		p.Data = filterProducts(p.Data, term)
	}
	p.Meta = c.singlePageMeta(filter, len(p.Data))
	return p
}

// decodePage accepts either a {meta, data} envelope or a bare array.
func decodePage[T any](raw json.RawMessage) (Page[T], bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return Page[T]{}, false, err
		}
		return Page[T]{Data: items}, false, nil
	}

	var envelope struct {
		Meta *Meta `json:"meta"`
		Data []T   `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Page[T]{}, false, err
	}
	if envelope.Meta == nil || envelope.Data == nil {
		return Page[T]{}, false, errors.New("response is neither a page nor a list")
	}
	return Page[T]{Meta: *envelope.Meta, Data: envelope.Data}, true, nil
}

func filterProducts(products []Product, term string) []Product {
	needle := strings.ToLower(term)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			(p.Description != "" && strings.Contains(strings.ToLower(p.Description), needle)) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Client) pageURL(filter url.Values, page int) string {
	q := url.Values{}
	for k, v := range filter {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return c.baseURL + "/api/produtos?" + q.Encode()
}

func (c *Client) singlePageMeta(filter url.Values, n int) Meta {
	first := c.pageURL(filter, 1)
	return Meta{
		Total:        n,
		PerPage:      n,
		CurrentPage:  1,
		LastPage:     1,
		FirstPage:    1,
		FirstPageURL: first,
		LastPageURL:  first,
	}
}

// emptyPage is the degraded result of a failed listing. LastPage follows
// the requested page so CurrentPage never exceeds it.
func (c *Client) emptyPage(page int) Page[Product] {
	first := c.pageURL(nil, 1)
	return Page[Product]{
		Meta: Meta{
			Total:        0,
			PerPage:      EmptyPerPage,
			CurrentPage:  page,
			LastPage:     page,
			FirstPage:    1,
			FirstPageURL: first,
			LastPageURL:  c.pageURL(nil, page),
		},
		Data: []Product{},
	}
}
