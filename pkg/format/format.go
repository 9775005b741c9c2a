// Package format renders prices, dates and documents the way the storefront
// displays them (pt-BR).
package format

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateUnavailable is shown when no date was provided.
	DateUnavailable = "Data não disponível"
	// DateInvalid is shown when the date cannot be parsed.
	DateInvalid = "Data inválida"
	// PaymentUnknown is shown when no payment method was recorded.
	PaymentUnknown = "Não informado"
)

// Price renders v as Brazilian currency with two decimals, e.g. R$7,00.
// There is no thousands separator.
func Price(v decimal.Decimal) string {
	return "R$" + strings.Replace(v.StringFixed(2), ".", ",", 1)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date renders an ISO timestamp as DD/MM/YYYY in the offset it was sent with.
func Date(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return DateUnavailable
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return DateInvalid
}

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips everything but 0-9 from s.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// Document masks a CPF (11 digits) or CNPJ (14 digits). Anything else is
// returned unchanged.
func Document(doc string) string {
	if doc == "" {
		return ""
	}
	d := Digits(doc)
	switch len(d) {
	case 11:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case 14:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	default:
		return doc
	}
}

// PaymentMethod returns the display label of a payment method code.
func PaymentMethod(code string) string {
	switch strings.ToLower(code) {
	case "cartao":
		return "Cartão de Crédito"
	case "boleto":
		return "Boleto Bancário"
	case "pix":
		return "PIX"
	case "":
		return PaymentUnknown
	default:
		return code
	}
}

var moneyChars = regexp.MustCompile(`[^\d.,-]`)

// ParseMoney reads money strings as the API and users write them
// ("12.50", "R$ 12,50", "1.234,50"). Unparseable input yields zero.
func ParseMoney(s string) decimal.Decimal {
	s = moneyChars.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
