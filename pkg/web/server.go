// Package web is the storefront's JSON backend-for-frontend. Each browser
// session, identified by the session_id cookie, gets its own auth, cart,
// search and catalog state, persisted under the session id in the
// configured store.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"storefront/pkg/account"
	"storefront/pkg/api"
	"storefront/pkg/auth"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/events"
	"storefront/pkg/logger"
	"storefront/pkg/otel"
	"storefront/pkg/search"
	"storefront/pkg/storage"
)

// SessionCookie names the cookie carrying the visitor id.
const SessionCookie = "session_id"

// Backend is everything the storefront asks of the REST API.
type Backend interface {
	catalog.Lister
	auth.LoginAPI
	cart.OrderCreator
	account.Backend
	ListCategories(ctx context.Context) []api.Category
}

// Config holds the dependencies of a Server.
type Config struct {
	Backend      Backend
	Store        storage.Store
	Lookup       account.AddressLookup
	Publisher    events.Publisher
	Logger       *logger.Logger
	Tracer       trace.Tracer
	SessionTTL   time.Duration
	SecureCookie bool
}

type visitor struct {
	auth     *auth.Manager
	cart     *cart.Manager
	search   *search.State
	catalog  *catalog.Browser
	account  *account.Service
	lastSeen time.Time
}

// Server serves the BFF routes.
type Server struct {
	cfg Config
	log *logger.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time // guarded by mu
}

// New builds a Server. Zero-valued optional fields get defaults.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &Server{
		cfg:      cfg,
		log:      cfg.Logger,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.traceMiddleware)

	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logoutHandler).Methods(http.MethodPost)
	r.HandleFunc("/session", s.sessionHandler).Methods(http.MethodGet)

	r.HandleFunc("/categories", s.categoriesHandler).Methods(http.MethodGet)
	r.HandleFunc("/catalog", s.catalogHandler).Methods(http.MethodGet)
	r.HandleFunc("/catalog/search", s.searchHandler).Methods(http.MethodPost)
	r.HandleFunc("/catalog/search", s.clearSearchHandler).Methods(http.MethodDelete)
	r.HandleFunc("/catalog/category/{id:[0-9]+}", s.selectCategoryHandler).Methods(http.MethodPost)
	r.HandleFunc("/catalog/all", s.selectAllHandler).Methods(http.MethodPost)
	r.HandleFunc("/catalog/next", s.nextPageHandler).Methods(http.MethodPost)
	r.HandleFunc("/catalog/prev", s.prevPageHandler).Methods(http.MethodPost)

	r.HandleFunc("/cart", s.getCartHandler).Methods(http.MethodGet)
	r.HandleFunc("/cart", s.clearCartHandler).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", s.addItemHandler).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id:[0-9]+}", s.updateItemHandler).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{id:[0-9]+}", s.removeItemHandler).Methods(http.MethodDelete)
	r.HandleFunc("/checkout", s.checkoutHandler).Methods(http.MethodPost)

	r.HandleFunc("/address/{cep}", s.addressHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	private := r.PathPrefix("/").Subrouter()
	private.Use(s.authMiddleware)
	private.HandleFunc("/orders", s.ordersHandler).Methods(http.MethodGet)
	private.HandleFunc("/profile", s.getProfileHandler).Methods(http.MethodGet)
	private.HandleFunc("/profile", s.updateProfileHandler).Methods(http.MethodPut)
	private.HandleFunc("/profile/password", s.changePasswordHandler).Methods(http.MethodPatch)
	private.HandleFunc("/profile/address/{cep}", s.profileAddressHandler).Methods(http.MethodGet)
	return r
}

type visitorKey struct{}

// visitorFor returns the state of the caller's session, creating the session
// and setting its cookie on first contact.
func (s *Server) visitorFor(w http.ResponseWriter, r *http.Request) *visitor {
	if v, ok := r.Context().Value(visitorKey{}).(*visitor); ok {
		return v
	}

	sid := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			sid = c.Value
		}
	}

	s.mu.Lock()
	now := s.now()
	if v, ok := s.visitors[sid]; ok && sid != "" {
		v.lastSeen = now
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	if sid == "" {
		sid = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sid,
			Path:     "/",
			Expires:  now.Add(s.cfg.SessionTTL),
			HttpOnly: true,
			Secure:   s.cfg.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	// Loading persisted state hits the store; keep it out from under mu.
	fresh := s.newVisitor(r.Context(), sid)

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[sid]
	if !ok {
		v = fresh
		s.visitors[sid] = v
	}
	v.lastSeen = s.now()
	return v
}

func (s *Server) newVisitor(ctx context.Context, sid string) *visitor {
	store := storage.Prefixed(s.cfg.Store, sid)
	a := auth.New(ctx, s.cfg.Backend, store, auth.WithLogger(s.log))
	return &visitor{
		auth: a,
		cart: cart.New(ctx, store, s.cfg.Backend, a,
			cart.WithLogger(s.log),
			cart.WithPublisher(s.cfg.Publisher),
		),
		search:  search.New(),
		catalog: catalog.New(s.cfg.Backend, catalog.WithLogger(s.log)),
		account: account.New(s.cfg.Backend, a, s.cfg.Lookup, s.log),
	}
}

// Sweep forgets sessions idle for longer than the session TTL and returns
// how many were dropped. Their persisted cart and login survive and are
// reloaded if the cookie comes back.
func (s *Server) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.cfg.SessionTTL)
	n := 0
	for sid, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, sid)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug(ctx, "idle sessions dropped", "count", n)
			}
		}
	}
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.cfg.Tracer != nil {
			ctx = otel.InjectTracing(ctx, s.cfg.Tracer)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware rejects requests whose session is not logged in.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := s.visitorFor(w, r)
		if !v.auth.IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, account.MsgNotAuthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), visitorKey{}, v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
