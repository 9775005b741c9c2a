package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"storefront/pkg/account"
	"storefront/pkg/address"
	"storefront/pkg/api"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/format"
	"storefront/pkg/order"
	"storefront/pkg/otel"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loginRequest represents login credentials.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginHandler authenticates against the backend and binds the session.
// @Summary Login
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200 {object} auth.Result
// @Failure 401 {object} auth.Result
// @Router /login [post]
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := decode(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	v := s.visitorFor(w, r)
	res := v.auth.Login(ctx, req.Email, req.Password)
	if !res.Success {
		writeJSON(w, http.StatusUnauthorized, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// logoutHandler drops the login of the session.
// @Summary Logout
// @Success 200
// @Router /logout [post]
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	s.visitorFor(w, r).auth.Logout(ctx)
	writeJSON(w, http.StatusOK, map[string]string{"redirect": "/"})
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        int    `json:"userId,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
	LoggingIn     bool   `json:"loggingIn"`
	CheckingOut   bool   `json:"checkingOut"`
}

// sessionHandler reports who is logged in.
// @Summary Current session
// @Produce json
// @Success 200 {object} sessionResponse
// @Router /session [get]
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	v := s.visitorFor(w, r)
	sess := v.auth.Current()
	resp := sessionResponse{
		Authenticated: sess.Authenticated(),
		ExpiresAt:     sess.ExpiresAt,
		LoggingIn:     v.auth.Loading(),
		CheckingOut:   v.cart.Processing(),
	}
	if sess.User != nil {
		resp.UserID, resp.Name, resp.Email = sess.User.ID, sess.User.Name, sess.User.Email
	}
	writeJSON(w, http.StatusOK, resp)
}

type categoryResponse struct {
	api.Category
	ColorClass string `json:"colorClass"`
}

func categoryViews(cats []api.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{Category: c, ColorClass: catalog.ColorClass(c.Color)})
	}
	return out
}

// categoriesHandler lists the sidebar categories.
// @Summary List categories
// @Produce json
// @Success 200 {array} categoryResponse
// @Router /categories [get]
func (s *Server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "categoriesHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, categoryViews(s.cfg.Backend.ListCategories(ctx)))
}

type productResponse struct {
	api.Product
	PriceLabel string `json:"priceLabel"`
	ColorClass string `json:"colorClass"`
}

type catalogResponse struct {
	catalog.View
	Products   []productResponse  `json:"products"`
	Categories []categoryResponse `json:"categories,omitempty"`
	Searching  bool               `json:"searching"`
	HasPrev    bool               `json:"hasPrev"`
	HasNext    bool               `json:"hasNext"`
	Location   string             `json:"location,omitempty"`
}

func catalogView(v catalog.View) catalogResponse {
	resp := catalogResponse{
		View:     v,
		Products: make([]productResponse, 0, len(v.Products)),
		HasPrev:  v.HasPrev(),
		HasNext:  v.HasNext(),
	}
	for _, p := range v.Products {
		color := "bg-purple-400"
		if p.Category != nil {
			color = catalog.ColorClass(p.Category.Color)
		}
		resp.Products = append(resp.Products, productResponse{Product: p, PriceLabel: format.Price(p.Price), ColorClass: color})
	}
	return resp
}

// catalogHandler returns the current listing together with the categories.
// A ?search= parameter is applied first, as after a navigation.
// @Summary Catalogue page
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} catalogResponse
// @Router /catalog [get]
func (s *Server) catalogHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "catalogHandler")
	defer span.End()

	v := s.visitorFor(w, r)
	v.search.Sync(r.URL.Query())

	var (
		view catalog.View
		cats []api.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := v.catalog.Query()
		switch {
		case v.search.IsSearching() && (q.Mode != catalog.ModeSearch || q.Term != v.search.Term()):
			view = v.catalog.SetSearchTerm(gctx, v.search.Term())
		case !v.search.IsSearching() && q.Mode == catalog.ModeSearch:
			view = v.catalog.ClearSearch(gctx)
		case !v.catalog.Loaded():
			view = v.catalog.Refresh(gctx)
		default:
			view = v.catalog.View()
		}
		return nil
	})
	g.Go(func() error {
		cats = s.cfg.Backend.ListCategories(gctx)
		return nil
	})
	g.Wait()

	resp := catalogView(view)
	resp.Categories = categoryViews(cats)
	resp.Searching = v.search.IsSearching()
	writeJSON(w, http.StatusOK, resp)
}

type searchRequest struct {
	Term string `json:"term"`
}

// searchHandler applies a search term.
// @Summary Search
// @Accept json
// @Produce json
// @Param term body searchRequest true "Term"
// @Success 200 {object} catalogResponse
// @Router /catalog/search [post]
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "searchHandler")
	defer span.End()

	var req searchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v := s.visitorFor(w, r)
	v.search.SetTerm(req.Term)
	values := v.search.Submit(r.URL.Query())

	var view catalog.View
	if v.search.IsSearching() {
		view = v.catalog.SetSearchTerm(ctx, values.Get("search"))
	} else {
		view = v.catalog.ClearSearch(ctx)
	}
	resp := catalogView(view)
	resp.Searching = v.search.IsSearching()
	resp.Location = "/"
	if enc := values.Encode(); enc != "" {
		resp.Location += "?" + enc
	}
	writeJSON(w, http.StatusOK, resp)
}

// clearSearchHandler drops the search term and shows every product.
// @Summary Clear search
// @Produce json
// @Success 200 {object} catalogResponse
// @Router /catalog/search [delete]
func (s *Server) clearSearchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearSearchHandler")
	defer span.End()

	v := s.visitorFor(w, r)
	v.search.Clear()
	resp := catalogView(v.catalog.ClearSearch(ctx))
	resp.Location = "/"
	writeJSON(w, http.StatusOK, resp)
}

// selectCategoryHandler filters by category. Rejected while searching.
// @Summary Select category
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} catalogResponse
// @Failure 409 {object} errorResponse
// @Router /catalog/category/{id} [post]
func (s *Server) selectCategoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "selectCategoryHandler")
	defer span.End()

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	view, err := s.visitorFor(w, r).catalog.SelectCategory(ctx, id)
	s.writeCatalog(w, view, err)
}

// selectAllHandler removes the category filter.
// @Summary All products
// @Produce json
// @Success 200 {object} catalogResponse
// @Failure 409 {object} errorResponse
// @Router /catalog/all [post]
func (s *Server) selectAllHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "selectAllHandler")
	defer span.End()

	view, err := s.visitorFor(w, r).catalog.SelectAll(ctx)
	s.writeCatalog(w, view, err)
}

func (s *Server) writeCatalog(w http.ResponseWriter, view catalog.View, err error) {
	if errors.Is(err, catalog.ErrSearchActive) {
		writeError(w, http.StatusConflict, "clear the search before choosing a category")
		return
	}
	writeJSON(w, http.StatusOK, catalogView(view))
}

// nextPageHandler advances the listing.
// @Summary Next page
// @Produce json
// @Success 200 {object} catalogResponse
// @Router /catalog/next [post]
func (s *Server) nextPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "nextPageHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, catalogView(s.visitorFor(w, r).catalog.NextPage(ctx)))
}

// prevPageHandler goes back one page.
// @Summary Previous page
// @Produce json
// @Success 200 {object} catalogResponse
// @Router /catalog/prev [post]
func (s *Server) prevPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "prevPageHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, catalogView(s.visitorFor(w, r).catalog.PrevPage(ctx)))
}

type cartItemResponse struct {
	cart.Item
	SubtotalLabel string `json:"subtotalLabel"`
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	TotalLabel string             `json:"totalLabel"`
	Processing bool               `json:"processing"`
}

func cartView(m *cart.Manager) cartResponse {
	items := m.Items()
	resp := cartResponse{
		Items:      make([]cartItemResponse, 0, len(items)),
		TotalItems: m.TotalItems(),
		TotalPrice: m.TotalPrice(),
		Processing: m.Processing(),
	}
	resp.TotalLabel = format.Price(resp.TotalPrice)
	for _, it := range items {
		resp.Items = append(resp.Items, cartItemResponse{Item: it, SubtotalLabel: format.Price(it.Subtotal())})
	}
	return resp
}

// getCartHandler returns the cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartResponse
// @Router /cart [get]
func (s *Server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartView(s.visitorFor(w, r).cart))
}

// addItemRequest is a product being put in the cart.
type addItemRequest struct {
	ID    int             `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// addItemHandler adds one unit of a product.
// @Summary Add to cart
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Product"
// @Success 200 {object} cartResponse
// @Router /cart/items [post]
func (s *Server) addItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItemHandler")
	defer span.End()

	var req addItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v := s.visitorFor(w, r)
	v.cart.Add(ctx, cart.Product{ID: req.ID, Title: req.Title, Price: req.Price, Image: req.Image})
	writeJSON(w, http.StatusOK, cartView(v.cart))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// updateItemHandler sets the quantity of a line; zero or less removes it.
// @Summary Set quantity
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param quantity body quantityRequest true "Quantity"
// @Success 200 {object} cartResponse
// @Router /cart/items/{id} [put]
func (s *Server) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateItemHandler")
	defer span.End()

	id, _ := pathID(r)
	var req quantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v := s.visitorFor(w, r)
	v.cart.UpdateQuantity(ctx, id, req.Quantity)
	writeJSON(w, http.StatusOK, cartView(v.cart))
}

// removeItemHandler removes a line.
// @Summary Remove from cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} cartResponse
// @Router /cart/items/{id} [delete]
func (s *Server) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeItemHandler")
	defer span.End()

	id, _ := pathID(r)
	v := s.visitorFor(w, r)
	v.cart.Remove(ctx, id)
	writeJSON(w, http.StatusOK, cartView(v.cart))
}

// clearCartHandler empties the cart.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} cartResponse
// @Router /cart [delete]
func (s *Server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCartHandler")
	defer span.End()

	v := s.visitorFor(w, r)
	v.cart.Clear(ctx)
	writeJSON(w, http.StatusOK, cartView(v.cart))
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

// checkoutHandler turns the cart into an order.
// @Summary Checkout
// @Accept json
// @Produce json
// @Param order body checkoutRequest true "Payment"
// @Success 201 {object} cart.CheckoutResult
// @Failure 401 {object} cart.CheckoutResult
// @Failure 409 {object} cart.CheckoutResult
// @Failure 422 {object} cart.CheckoutResult
// @Failure 502 {object} cart.CheckoutResult
// @Router /checkout [post]
func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkoutHandler")
	defer span.End()

	var req checkoutRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.visitorFor(w, r).cart.Checkout(ctx, req.PaymentMethod, req.Notes)
	writeJSON(w, checkoutStatus(res), res)
}

func checkoutStatus(res cart.CheckoutResult) int {
	if res.Success {
		return http.StatusCreated
	}
	switch res.Message {
	case cart.MsgNotAuthenticated:
		return http.StatusUnauthorized
	case cart.MsgEmptyCart:
		return http.StatusUnprocessableEntity
	case cart.MsgInProgress:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

type orderResponse struct {
	order.Order
	StatusLabel  string `json:"statusLabel"`
	PaymentLabel string `json:"paymentLabel"`
	TotalLabel   string `json:"totalLabel"`
	DateLabel    string `json:"dateLabel"`
}

// ordersHandler lists the customer's orders.
// @Summary Order history
// @Produce json
// @Success 200 {array} orderResponse
// @Failure 401 {object} errorResponse
// @Router /orders [get]
func (s *Server) ordersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "ordersHandler")
	defer span.End()

	orders, err := s.visitorFor(w, r).account.Orders(ctx)
	if err != nil {
		writeError(w, http.StatusUnauthorized, account.MsgNotAuthenticated)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{
			Order:        o,
			StatusLabel:  order.ParseStatus(o.Status).Label(),
			PaymentLabel: format.PaymentMethod(o.PaymentMethod),
			TotalLabel:   format.Price(format.ParseMoney(o.Total)),
			DateLabel:    format.Date(o.CreatedAt),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type profileResponse struct {
	api.User
	DocumentLabel string `json:"documentLabel"`
}

// getProfileHandler returns the customer's profile.
// @Summary Get profile
// @Produce json
// @Success 200 {object} profileResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /profile [get]
func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getProfileHandler")
	defer span.End()

	u, err := s.visitorFor(w, r).account.Profile(ctx)
	switch {
	case errors.Is(err, account.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, account.MsgNotAuthenticated)
	case err != nil:
		s.log.Warn(ctx, "load profile failed", "error", err)
		writeError(w, http.StatusBadGateway, api.MessageOf(err, "Não foi possível carregar seus dados."))
	default:
		writeJSON(w, http.StatusOK, profileResponse{User: u, DocumentLabel: format.Document(u.Document)})
	}
}

// profileAddressHandler returns the profile with its address completed from
// cep. Nothing is saved; the client submits the merged profile with PUT.
// @Summary Fill profile address
// @Produce json
// @Param cep path string true "Postal code"
// @Success 200 {object} profileResponse
// @Failure 401 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /profile/address/{cep} [get]
func (s *Server) profileAddressHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "profileAddressHandler")
	defer span.End()

	svc := s.visitorFor(w, r).account
	u, err := svc.Profile(ctx)
	switch {
	case errors.Is(err, account.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, account.MsgNotAuthenticated)
		return
	case err != nil:
		s.log.Warn(ctx, "load profile failed", "error", err)
		writeError(w, http.StatusBadGateway, api.MessageOf(err, "Não foi possível carregar seus dados."))
		return
	}
	u.PostalCode = mux.Vars(r)["cep"]
	u = svc.FillAddress(ctx, u)
	writeJSON(w, http.StatusOK, profileResponse{User: u, DocumentLabel: format.Document(u.Document)})
}

// updateProfileHandler saves the profile. The e-mail cannot be changed.
// @Summary Update profile
// @Accept json
// @Produce json
// @Param profile body api.User true "Profile"
// @Success 200 {object} account.Result
// @Failure 502 {object} account.Result
// @Router /profile [put]
func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateProfileHandler")
	defer span.End()

	var u api.User
	if err := decode(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.visitorFor(w, r).account.UpdateProfile(ctx, u)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}

type passwordRequest struct {
	Current      string `json:"current"`
	New          string `json:"new"`
	Confirmation string `json:"confirmation"`
}

// changePasswordHandler changes the password.
// @Summary Change password
// @Accept json
// @Produce json
// @Param password body passwordRequest true "Passwords"
// @Success 200 {object} account.Result
// @Failure 400 {object} account.Result
// @Router /profile/password [patch]
func (s *Server) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "changePasswordHandler")
	defer span.End()

	var req passwordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.visitorFor(w, r).account.ChangePassword(ctx, req.Current, req.New, req.Confirmation)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

// addressHandler resolves a postal code for the profile form.
// @Summary Address lookup
// @Produce json
// @Param cep path string true "Postal code"
// @Success 200 {object} address.Address
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /address/{cep} [get]
func (s *Server) addressHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addressHandler")
	defer span.End()

	if s.cfg.Lookup == nil {
		writeError(w, http.StatusNotImplemented, "address lookup disabled")
		return
	}
	a, err := s.cfg.Lookup.Lookup(ctx, mux.Vars(r)["cep"])
	switch {
	case errors.Is(err, address.ErrInvalidPostalCode):
		writeError(w, http.StatusBadRequest, "CEP inválido")
	case errors.Is(err, address.ErrNotFound):
		writeError(w, http.StatusNotFound, "CEP não encontrado")
	case err != nil:
		s.log.Warn(ctx, "address lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "Não foi possível buscar o endereço pelo CEP informado.")
	default:
		writeJSON(w, http.StatusOK, a)
	}
}
