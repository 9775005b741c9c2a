package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/order"
	"storefront/pkg/otel"
)

// LoginResponse is the bearer token issued by the login endpoint.
type LoginResponse struct {
	Type      string `json:"type"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// User is a customer profile.
type User struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"nome"`
	Surname    string `json:"sobrenome"`
	Document   string `json:"documento"`
	PostalCode string `json:"cep"`
	Street     string `json:"endereco"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"cidade"`
	State      string `json:"estado"`
	Email      string `json:"email"`
}

// UserUpdate is the editable part of a profile. The e-mail is not editable.
type UserUpdate struct {
	Name       string `json:"nome"`
	Surname    string `json:"sobrenome"`
	Document   string `json:"documento"`
	PostalCode string `json:"cep"`
	Street     string `json:"endereco"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"cidade"`
	State      string `json:"estado"`
}

// Update returns the editable fields of u.
func (u User) Update() UserUpdate {
	return UserUpdate{
		Name:       u.Name,
		Surname:    u.Surname,
		Document:   u.Document,
		PostalCode: u.PostalCode,
		Street:     u.Street,
		Number:     u.Number,
		Complement: u.Complement,
		District:   u.District,
		City:       u.City,
		State:      u.State,
	}
}

// PasswordChange is the body of the password update endpoint.
type PasswordChange struct {
	Current      string `json:"senha_atual"`
	New          string `json:"senha"`
	Confirmation string `json:"senha_confirmacao"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	ctx, span := otel.AddSpan(ctx, "api.Login")
	defer span.End()

	var resp LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"email": email, "senha": password},
	}, &resp)
	return resp, err
}

// CreateOrder submits an order. idempotencyKey is sent as the
// Idempotency-Key header so a retried submission can be recognised.
func (c *Client) CreateOrder(ctx context.Context, token string, p order.Payload, idempotencyKey string) (order.Created, error) {
	ctx, span := otel.AddSpan(ctx, "api.CreateOrder",
		attribute.Int("user_id", p.UserID),
		attribute.Int("lines", len(p.Lines)),
	)
	defer span.End()

	r := request{
		method: http.MethodPost,
		path:   "/api/pedidos",
		token:  token,
		body:   p,
	}
	if idempotencyKey != "" {
		r.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	var created order.Created
	err := c.do(ctx, r, &created)
	return created, err
}

// ListOrders returns the order history of userID, or an empty slice on
// failure.
func (c *Client) ListOrders(ctx context.Context, token string, userID int) []order.Order {
	ctx, span := otel.AddSpan(ctx, "api.ListOrders", attribute.Int("user_id", userID))
	defer span.End()

	q := url.Values{}
	q.Set("usuario_id", strconv.Itoa(userID))

	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/pedidos", query: q, token: token}, &raw); err != nil {
		c.log.Warn(ctx, "list orders failed", "user_id", userID, "error", err)
		return []order.Order{}
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var orders []order.Order
		if err := json.Unmarshal(raw, &orders); err != nil {
			c.log.Warn(ctx, "decode orders failed", "error", err)
			return []order.Order{}
		}
		return orders
	}
	p, _, err := decodePage[order.Order](raw)
	if err != nil {
		c.log.Warn(ctx, "decode orders failed", "error", err)
		return []order.Order{}
	}
	return p.Data
}

// GetUser fetches a profile. Unlike listings it reports failure, so a
// caller never mistakes an outage for an empty profile.
func (c *Client) GetUser(ctx context.Context, token string, id int) (User, error) {
	ctx, span := otel.AddSpan(ctx, "api.GetUser", attribute.Int("user_id", id))
	defer span.End()

	var u User
	err := c.do(ctx, request{method: http.MethodGet, path: userPath(id), token: token}, &u)
	return u, err
}

// UpdateUser replaces the editable profile fields.
func (c *Client) UpdateUser(ctx context.Context, token string, id int, u UserUpdate) error {
	ctx, span := otel.AddSpan(ctx, "api.UpdateUser", attribute.Int("user_id", id))
	defer span.End()

	return c.do(ctx, request{method: http.MethodPut, path: userPath(id), token: token, body: u}, nil)
}

// ChangePassword updates the password of user id.
func (c *Client) ChangePassword(ctx context.Context, token string, id int, pc PasswordChange) error {
	ctx, span := otel.AddSpan(ctx, "api.ChangePassword", attribute.Int("user_id", id))
	defer span.End()

	return c.do(ctx, request{method: http.MethodPatch, path: userPath(id) + "/senha", token: token, body: pc}, nil)
}

func userPath(id int) string {
	return fmt.Sprintf("/api/usuarios/%d", id)
}
