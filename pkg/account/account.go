// Package account implements the signed-in customer's profile pages: profile
// edit, password change and order history.
package account

import (
	"context"
	"errors"

	"storefront/pkg/address"
	"storefront/pkg/api"
	"storefront/pkg/auth"
	"storefront/pkg/logger"
	"storefront/pkg/order"
)

// User-facing messages.
const (
	MsgNotAuthenticated = "Você precisa estar autenticado."
	MsgProfileUpdated   = "Seus dados foram atualizados com sucesso!"
	MsgProfileFailed    = "Não foi possível atualizar seus dados. Tente novamente mais tarde."
	MsgPasswordMismatch = "A nova senha e a confirmação não coincidem."
	MsgPasswordUpdated  = "Sua senha foi atualizada com sucesso!"
	MsgPasswordFailed   = "Erro ao atualizar senha"
)

var (
	// ErrNotAuthenticated is returned by reads without a session.
	ErrNotAuthenticated = errors.New("account: not authenticated")
	// ErrPasswordMismatch means the new password and its confirmation differ.
	ErrPasswordMismatch = errors.New("account: password confirmation mismatch")
)

// Backend is the part of the API client the service uses.
type Backend interface {
	GetUser(ctx context.Context, token string, id int) (api.User, error)
	UpdateUser(ctx context.Context, token string, id int, u api.UserUpdate) error
	ChangePassword(ctx context.Context, token string, id int, pc api.PasswordChange) error
	ListOrders(ctx context.Context, token string, userID int) []order.Order
}

// AddressLookup resolves postal codes.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (address.Address, error)
}

// SessionSource yields the current login.
type SessionSource interface {
	Current() auth.Session
}

// Result is the outcome of a write.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service serves one customer.
type Service struct {
	api      Backend
	sessions SessionSource
	lookup   AddressLookup
	log      *logger.Logger
}

// New builds a Service. lookup may be nil, which disables FillAddress.
func New(backend Backend, sessions SessionSource, lookup AddressLookup, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{api: backend, sessions: sessions, lookup: lookup, log: log}
}

func (s *Service) session() (auth.Session, bool) {
	sess := s.sessions.Current()
	return sess, sess.Authenticated() && sess.User != nil
}

// Profile fetches the customer's profile.
func (s *Service) Profile(ctx context.Context) (api.User, error) {
	sess, ok := s.session()
	if !ok {
		return api.User{}, ErrNotAuthenticated
	}
	return s.api.GetUser(ctx, sess.Token, sess.User.ID)
}

// UpdateProfile saves every editable field of u. The e-mail is never sent.
func (s *Service) UpdateProfile(ctx context.Context, u api.User) Result {
	sess, ok := s.session()
	if !ok {
		return Result{Message: MsgNotAuthenticated}
	}
	if err := s.api.UpdateUser(ctx, sess.Token, sess.User.ID, u.Update()); err != nil {
		s.log.Warn(ctx, "update profile failed", "user_id", sess.User.ID, "error", err)
		return Result{Message: MsgProfileFailed}
	}
	return Result{Success: true, Message: MsgProfileUpdated}
}

// ChangePassword checks that next matches confirm before calling the
// backend.
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) Result {
	sess, ok := s.session()
	if !ok {
		return Result{Message: MsgNotAuthenticated}
	}
	if err := CheckConfirmation(next, confirm); err != nil {
		return Result{Message: MsgPasswordMismatch}
	}

	pc := api.PasswordChange{Current: current, New: next, Confirmation: confirm}
	if err := s.api.ChangePassword(ctx, sess.Token, sess.User.ID, pc); err != nil {
		s.log.Warn(ctx, "change password failed", "user_id", sess.User.ID, "error", err)
		return Result{Message: api.MessageOf(err, MsgPasswordFailed)}
	}
	return Result{Success: true, Message: MsgPasswordUpdated}
}

// CheckConfirmation returns ErrPasswordMismatch when next != confirm.
func CheckConfirmation(next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// Orders returns the customer's order history, newest first as sent by the
// backend. Failures yield an empty list.
func (s *Service) Orders(ctx context.Context) ([]order.Order, error) {
	sess, ok := s.session()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s.api.ListOrders(ctx, sess.Token, sess.User.ID), nil
}

// FillAddress completes u from its postal code. Lookup failures leave u
// unchanged; only non-empty fields of the answer overwrite u.
func (s *Service) FillAddress(ctx context.Context, u api.User) api.User {
	if s.lookup == nil {
		return u
	}
	a, err := s.lookup.Lookup(ctx, u.PostalCode)
	if err != nil {
		s.log.Debug(ctx, "address lookup failed", "cep", u.PostalCode, "error", err)
		return u
	}
	u.Street = pick(a.Street, u.Street)
	u.District = pick(a.District, u.District)
	u.City = pick(a.City, u.City)
	u.State = pick(a.State, u.State)
	return u
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
