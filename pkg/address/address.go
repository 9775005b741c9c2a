// Package address resolves Brazilian postal codes (CEP) through ViaCEP.
package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/format"
	"storefront/pkg/otel"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

var (
	// ErrInvalidPostalCode means the code does not have 8 digits.
	ErrInvalidPostalCode = errors.New("address: postal code must have 8 digits")
	// ErrNotFound means ViaCEP does not know the code.
	ErrNotFound = errors.New("address: postal code not found")
)

// Address is the part of a ViaCEP answer the storefront uses.
type Address struct {
	PostalCode string `json:"cep"`
	Street     string `json:"logradouro"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"localidade"`
	State      string `json:"uf"`
}

// Client queries ViaCEP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL, or DefaultBaseURL when empty. A nil hc
// gets an instrumented client with a short timeout.
func New(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Lookup resolves cep. Non-digit characters are ignored.
func (c *Client) Lookup(ctx context.Context, cep string) (Address, error) {
	cep = format.Digits(cep)
	if len(cep) != 8 {
		return Address{}, ErrInvalidPostalCode
	}

	ctx, span := otel.AddSpan(ctx, "address.Lookup", attribute.String("cep", cep))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, cep), nil)
	if err != nil {
		return Address{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("lookup %s: %w", cep, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return Address{}, ErrNotFound
	case resp.StatusCode >= 300:
		return Address{}, fmt.Errorf("lookup %s: unexpected status %d", cep, resp.StatusCode)
	}

	var body struct {
		Address
		Err any `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("decode %s: %w", cep, err)
	}
	// ViaCEP has sent both true and "true" here.
	if body.Err == true || body.Err == "true" {
		return Address{}, ErrNotFound
	}
	return body.Address, nil
}
