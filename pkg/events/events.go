// Package events publishes storefront domain events to a message broker.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storefront/pkg/order"
)

// OrderPlaced is emitted after the backend accepted an order.
type OrderPlaced struct {
	OrderID        int             `json:"order_id"`
	UserID         int             `json:"user_id"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  string          `json:"payment_method"`
	Items          []order.Line    `json:"items"`
	IdempotencyKey string          `json:"idempotency_key"`
	PlacedAt       time.Time       `json:"placed_at"`
}

// Publisher delivers events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (Nop) Close() error { return nil }
