package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/cache/memory"
	"github.com/kitbuilder587/breachsearch/internal/metrics"
	"github.com/kitbuilder587/breachsearch/internal/page"
	"github.com/kitbuilder587/breachsearch/internal/ratelimit"
	"github.com/kitbuilder587/breachsearch/internal/search"
	"github.com/kitbuilder587/breachsearch/internal/service"
	"github.com/kitbuilder587/breachsearch/internal/session"
)

const (
	visitorCookie = "bs_visitor"
	sessionCookie = "bs_session"

	pagesCleanupEvery = time.Minute
)

type Config struct {
	AuthPath          string
	RedirectDelay     time.Duration
	SessionTTL        time.Duration
	RequestsPerMinute int
}

// Pinger - проверка живости стора для /healthz
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Accounts service.AccountService
	Credits  page.CreditConsumer
	Sessions session.Store
	Search   search.Client
	Pinger   Pinger
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Config   Config
}

// pageState живет столько же, сколько визит: страница + то, что она
// передает следующей отрисовке
type pageState struct {
	page     *page.Page
	toasts   *page.Toasts
	redirect *page.PendingRedirect
}

type Server struct {
	deps     Deps
	identity *sessionIdentity
	pages    *memory.Cache[*pageState]
	limiter  *ratelimit.Limiter
	router   chi.Router
}

func New(ctx context.Context, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.AuthPath == "" {
		deps.Config.AuthPath = page.DefaultAuthPath
	}
	if deps.Config.RedirectDelay <= 0 {
		deps.Config.RedirectDelay = page.DefaultRedirectDelay
	}
	if deps.Config.SessionTTL <= 0 {
		deps.Config.SessionTTL = session.DefaultTTL
	}

	s := &Server{
		deps:     deps,
		identity: &sessionIdentity{accounts: deps.Accounts, logger: deps.Logger},
		pages:    memory.NewWithContext[*pageState](ctx, pagesCleanupEvery),
		limiter: ratelimit.New(ctx, ratelimit.Config{
			RequestsPerMinute: deps.Config.RequestsPerMinute,
		}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(s.visitor)
	r.Use(s.session)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/databases", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/databases", s.handleDatabases)
		r.Post("/databases", s.handleSearch)

		r.Get("/auth", s.handleAuthPage)
		r.Post("/auth", s.handleSignIn)
		r.Post("/auth/logout", s.handleLogout)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close останавливает фоновую чистку состояний страниц
func (s *Server) Close() {
	s.pages.Stop()
}

// pageFor - состояние страницы посетителя; создается при первом заходе (mount)
func (s *Server) pageFor(r *http.Request) *pageState {
	key := visitorFrom(r.Context())
	st, created := s.pages.GetOrSet(key, s.deps.Config.SessionTTL, s.newPageState)
	if created {
		s.deps.Logger.Debug("page mounted", zap.String("visitor", key))
		if s.deps.Metrics != nil {
			s.deps.Metrics.SetPagesActive(s.pages.Len())
		}
	}
	return st
}

func (s *Server) newPageState() *pageState {
	st := &pageState{
		toasts:   &page.Toasts{},
		redirect: &page.PendingRedirect{},
	}
	st.page = page.New(page.Deps{
		Search:    s.deps.Search,
		Credits:   s.deps.Credits,
		Identity:  s.identity,
		Notifier:  st.toasts,
		Navigator: st.redirect,
		Logger:    s.deps.Logger,
		Metrics:   s.deps.Metrics,
		Config: page.Config{
			AuthPath:      s.deps.Config.AuthPath,
			RedirectDelay: s.deps.Config.RedirectDelay,
		},
	})
	return st
}
