package order

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPayloadJSON(t *testing.T) {
	p := Payload{
		UserID:        7,
		PaymentMethod: DefaultPaymentMethod,
		Notes:         "deixar na portaria",
		Lines: []Line{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"usuario_id":7,"forma_pagamento":"cartao","observacoes":"deixar na portaria","produtos":[{"produto_id":1,"quantidade":2,"preco_unitario":"10"}]}`
	if string(b) != want {
		t.Fatalf("unexpected payload:\n got %s\nwant %s", b, want)
	}
}

func TestPayloadTotal(t *testing.T) {
	p := Payload{Lines: []Line{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
	}}
	if got := p.Total(); !got.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("expected 25.50, got %s", got)
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		in    string
		want  Status
		label string
	}{
		{"", StatusPending, "Pendente"},
		{"Em Processamento", StatusProcessing, "Em processamento"},
		{"ENVIADO", StatusShipped, "Enviado"},
		{"devolvido", Status("devolvido"), "Devolvido"},
	}
	for _, tc := range cases {
		got := ParseStatus(tc.in)
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if got.Label() != tc.label {
			t.Fatalf("label of %q = %q, want %q", got, got.Label(), tc.label)
		}
	}
}
