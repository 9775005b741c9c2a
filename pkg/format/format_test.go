package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "R$7,00", Price(decimal.NewFromInt(7)))
	assert.Equal(t, "R$25,50", Price(decimal.RequireFromString("25.5")))
	assert.Equal(t, "R$1234,57", Price(decimal.RequireFromString("1234.567")))
	assert.Equal(t, "R$0,00", Price(decimal.Zero))
}

func TestDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", DateUnavailable},
		{"   ", DateUnavailable},
		{"2024-03-05T10:00:00.000-03:00", "05/03/2024"},
		{"2024-12-31T23:30:00Z", "31/12/2024"},
		{"2024-01-09", "09/01/2024"},
		{"yesterday", DateInvalid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Date(tc.in), "Date(%q)", tc.in)
	}
}

func TestDocument(t *testing.T) {
	assert.Equal(t, "", Document(""))
	assert.Equal(t, "123.456.789-01", Document("12345678901"))
	assert.Equal(t, "123.456.789-01", Document("123.456.789-01"))
	assert.Equal(t, "12.345.678/0001-90", Document("12345678000190"))
	assert.Equal(t, "12-34", Document("12-34"))
}

func TestPaymentMethod(t *testing.T) {
	assert.Equal(t, "Cartão de Crédito", PaymentMethod("cartao"))
	assert.Equal(t, "Boleto Bancário", PaymentMethod("BOLETO"))
	assert.Equal(t, "PIX", PaymentMethod("pix"))
	assert.Equal(t, PaymentUnknown, PaymentMethod(""))
	assert.Equal(t, "dinheiro", PaymentMethod("dinheiro"))
}

func TestParseMoney(t *testing.T) {
	cases := map[string]string{
		"12.50":       "12.5",
		"R$ 12,50":    "12.5",
		"R$1.234,50":  "1234.5",
		"":            "0",
		"not a price": "0",
	}
	for in, want := range cases {
		assert.True(t, decimal.RequireFromString(want).Equal(ParseMoney(in)), "ParseMoney(%q) = %s", in, ParseMoney(in))
	}
}
