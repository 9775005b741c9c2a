package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/api"
	"storefront/pkg/auth"
	"storefront/pkg/events"
	"storefront/pkg/order"
	"storefront/pkg/otel"
)

// Checkout messages.
const (
	MsgNotAuthenticated = "Você precisa estar autenticado para finalizar a compra."
	MsgEmptyCart        = "Seu carrinho está vazio."
	MsgOrderFailed      = "Ocorreu um erro ao processar seu pedido."
	MsgOrderPlaced      = "Pedido realizado com sucesso!"
	MsgInProgress       = "Seu pedido já está sendo processado."
)

// OrderCreator submits orders to the backend.
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, p order.Payload, idempotencyKey string) (order.Created, error)
}

// SessionSource yields the current login.
type SessionSource interface {
	Current() auth.Session
}

// CheckoutResult is the outcome of Checkout. OrderID is set on success.
type CheckoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int    `json:"orderId,omitempty"`
}

func newIdempotencyKey() string {
	return uuid.NewString()
}

// Checkout submits the cart as an order. Only one checkout runs at a time; a
// second call while one is in flight fails immediately. On success the cart
// is emptied. On failure it is left exactly as it was.
func (m *Manager) Checkout(ctx context.Context, paymentMethod, notes string) CheckoutResult {
	session := m.sessions.Current()
	if !session.Authenticated() || session.User == nil {
		return CheckoutResult{Message: MsgNotAuthenticated}
	}

	m.mu.Lock()
	if m.processing {
		m.mu.Unlock()
		return CheckoutResult{Message: MsgInProgress}
	}
	if len(m.items) == 0 {
		m.mu.Unlock()
		return CheckoutResult{Message: MsgEmptyCart}
	}
	m.processing = true
	snapshot := make([]Item, len(m.items))
	copy(snapshot, m.items)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.processing = false
		m.mu.Unlock()
	}()

	if paymentMethod == "" {
		paymentMethod = order.DefaultPaymentMethod
	}
	payload := order.Payload{
		UserID:        session.User.ID,
		PaymentMethod: paymentMethod,
		Notes:         notes,
		Lines:         make([]order.Line, 0, len(snapshot)),
	}
	for _, it := range snapshot {
		payload.Lines = append(payload.Lines, order.Line{ProductID: it.ID, Quantity: it.Quantity, UnitPrice: it.Price})
	}
	key := m.newKey()

	ctx, span := otel.AddSpan(ctx, "cart.Checkout",
		attribute.Int("user_id", payload.UserID),
		attribute.Int("lines", len(payload.Lines)),
		attribute.String("idempotency_key", key),
	)
	defer span.End()

	created, err := m.orders.CreateOrder(ctx, session.Token, payload, key)
	if err != nil {
		m.log.Warn(ctx, "checkout failed", "user_id", payload.UserID, "idempotency_key", key, "error", err)
		return CheckoutResult{Message: api.MessageOf(err, MsgOrderFailed)}
	}

	m.Clear(ctx)
	m.log.Info(ctx, "order placed", "order_id", created.ID, "user_id", payload.UserID)

	evt := events.OrderPlaced{
		OrderID:        created.ID,
		UserID:         payload.UserID,
		Total:          payload.Total(),
		PaymentMethod:  payload.PaymentMethod,
		Items:          payload.Lines,
		IdempotencyKey: key,
		PlacedAt:       time.Now().UTC(),
	}
	if err := m.publisher.PublishOrderPlaced(ctx, evt); err != nil {
		m.log.Warn(ctx, "publish order event failed", "order_id", created.ID, "error", err)
	}

	return CheckoutResult{Success: true, Message: MsgOrderPlaced, OrderID: created.ID}
}
