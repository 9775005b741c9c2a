// Package cart owns the shopping cart and the checkout that turns it into an
// order.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/pkg/api"
	"storefront/pkg/events"
	"storefront/pkg/logger"
	"storefront/pkg/storage"
)

// StorageKey is where the cart is persisted.
const StorageKey = "templo-dos-magos-cart"

// Item is one cart line. Quantity is always at least 1.
type Item struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Subtotal is Price times Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Product is what Add needs to know about a catalogue entry.
type Product struct {
	ID    int
	Title string
	Price decimal.Decimal
	Image string
}

// ProductFromAPI adapts a catalogue product.
func ProductFromAPI(p api.Product) Product {
	return Product{ID: p.ID, Title: p.Name, Price: p.Price, Image: p.ImageURL}
}

// Manager owns one cart. It is safe for concurrent use.
type Manager struct {
	store     storage.Store
	orders    OrderCreator
	sessions  SessionSource
	publisher events.Publisher
	log       *logger.Logger
	key       string
	newKey    func() string

	mu         sync.RWMutex
	items      []Item
	processing bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithStorageKey overrides StorageKey.
func WithStorageKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

// WithPublisher announces successful checkouts.
func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) { m.publisher = p }
}

// New builds a Manager and restores the persisted cart. Missing or corrupt
// stored state yields an empty cart.
func New(ctx context.Context, store storage.Store, orders OrderCreator, sessions SessionSource, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		orders:    orders,
		sessions:  sessions,
		publisher: events.Nop{},
		log:       logger.NewNop(),
		key:       StorageKey,
		newKey:    newIdempotencyKey,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.items = m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) []Item {
	raw, err := m.store.Get(ctx, m.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		m.log.Warn(ctx, "read stored cart failed", "error", err)
		return nil
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		m.log.Warn(ctx, "discarding corrupt stored cart", "error", err)
		return nil
	}

	// Drop lines that would break the cart invariants.
	valid := items[:0]
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if it.Quantity < 1 || seen[it.ID] {
			continue
		}
		if it.Price.IsNegative() {
			it.Price = decimal.Zero
		}
		seen[it.ID] = true
		valid = append(valid, it)
	}
	return valid
}

// Items returns a copy of the cart lines in insertion order.
func (m *Manager) Items() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// TotalItems is the sum of all quantities.
func (m *Manager) TotalItems() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, it := range m.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of price times quantity.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, it := range m.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Processing reports whether a checkout is in flight.
func (m *Manager) Processing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processing
}

// Add puts one unit of p in the cart.
func (m *Manager) Add(ctx context.Context, p Product) {
	price := p.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(p.ID); i >= 0 {
		m.items[i].Quantity++
	} else {
		m.items = append(m.items, Item{ID: p.ID, Title: p.Title, Price: price, Image: p.Image, Quantity: 1})
	}
	m.persistLocked(ctx)
}

// UpdateQuantity sets the quantity of id. A quantity of zero or less removes
// the line. Unknown ids are ignored.
func (m *Manager) UpdateQuantity(ctx context.Context, id, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		m.items = append(m.items[:i], m.items[i+1:]...)
	} else {
		m.items[i].Quantity = quantity
	}
	m.persistLocked(ctx)
}

// Remove deletes id from the cart if present.
func (m *Manager) Remove(ctx context.Context, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	m.persistLocked(ctx)
}

// Clear empties the cart.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.persistLocked(ctx)
}

func (m *Manager) indexOf(id int) int {
	for i, it := range m.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole cart. Callers hold mu. Storage failures are
// logged; the in-memory cart stays authoritative.
func (m *Manager) persistLocked(ctx context.Context) {
	items := m.items
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		m.log.Error(ctx, "encode cart failed", "error", err)
		return
	}
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		m.log.Warn(ctx, "persist cart failed", "error", err)
	}
}
