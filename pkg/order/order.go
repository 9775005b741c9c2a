package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod is used when checkout does not name one.
const DefaultPaymentMethod = "cartao"

// Line is one product of an order submission.
type Line struct {
	ProductID int             `json:"produto_id"`
	Quantity  int             `json:"quantidade"`
	UnitPrice decimal.Decimal `json:"preco_unitario"`
}

// Payload is the body sent to create an order.
type Payload struct {
	UserID        int    `json:"usuario_id"`
	PaymentMethod string `json:"forma_pagamento"`
	Notes         string `json:"observacoes"`
	Lines         []Line `json:"produtos"`
}

// Total sums quantity times unit price over all lines.
func (p Payload) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Created is the part of the create-order response the storefront uses.
type Created struct {
	ID int `json:"id"`
}

// Product is the catalogue entry embedded in order history.
type Product struct {
	ID       int    `json:"id"`
	Name     string `json:"nome"`
	Price    string `json:"preco"`
	ImageURL string `json:"urlImagem"`
}

// Item is one line of a historical order.
type Item struct {
	ID        int     `json:"id"`
	ProductID int     `json:"produtoId"`
	Quantity  int     `json:"quantidade"`
	UnitPrice string  `json:"precoUnitario"`
	Subtotal  string  `json:"subtotal"`
	Product   Product `json:"produto"`
}

// Order is a customer order as returned by the order history endpoint.
type Order struct {
	ID            int    `json:"id"`
	UserID        int    `json:"usuarioId"`
	Total         string `json:"valorTotal"`
	Status        string `json:"status"`
	PaymentMethod string `json:"formaPagamento"`
	Notes         string `json:"observacoes"`
	CreatedAt     string `json:"criadoEm"`
	UpdatedAt     string `json:"atualizadoEm"`
	Items         []Item `json:"produtos"`
}

// Status is a normalised order status.
type Status string

// Known statuses.
const (
	StatusPending    Status = "pendente"
	StatusProcessing Status = "processando"
	StatusShipped    Status = "enviado"
	StatusDelivered  Status = "entregue"
	StatusCancelled  Status = "cancelado"
)

// ParseStatus normalises the free-form status the API returns. Empty means
// pending; unknown values are kept as-is.
func ParseStatus(s string) Status {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return StatusPending
	case "em processamento":
		return StatusProcessing
	default:
		return Status(v)
	}
}

// Label is the display text of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusProcessing:
		return "Em processamento"
	case StatusShipped:
		return "Enviado"
	case StatusDelivered:
		return "Entregue"
	case StatusCancelled:
		return "Cancelado"
	default:
		if s == "" {
			return "Pendente"
		}
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}
