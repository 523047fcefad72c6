// Package http provides the web server and handlers.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"bookkeeper/internal/auth"
	"bookkeeper/internal/middleware/ratelimit"
	"bookkeeper/internal/middleware/security"
	"bookkeeper/internal/middleware/trace"
	"bookkeeper/internal/services"
	"bookkeeper/internal/storage"
	appweb "bookkeeper/web"
)

// UserStore is the repository surface for account management.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (storage.User, error)
}

// Server serves the web UI: auth, ledger CRUD, analysis pages, and the
// spreadsheet export.
type Server struct {
	http.Server
	templates *template.Template

	ledger    *services.LedgerService
	analytics *services.AnalyticsService
	users     UserStore
	sessions  *auth.SessionStore
	limiter   *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware, and templates, returning a
// ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, analytics *services.AnalyticsService, users UserStore, sessions *auth.SessionStore) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger:    ledger,
		analytics: analytics,
		users:     users,
		sessions:  sessions,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets served from the embedded FS.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssets(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /logout", s.handleLogout)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.HandleFunc("GET /expense", s.requireAuth(s.handleLedgerPage))
	mux.HandleFunc("POST /expense", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("GET /edit_expense/{id}", s.requireAuth(s.handleEditForm))
	mux.HandleFunc("POST /edit_expense/{id}", s.requireAuth(s.handleEditTransaction))
	mux.HandleFunc("POST /delete_expense/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.HandleFunc("GET /advanced", s.requireAuth(s.handleBudgetPage))
	mux.HandleFunc("POST /advanced", s.requireAuth(s.handleSetBudget))
	mux.HandleFunc("GET /financial_analysis", s.requireAuth(s.handleAnalysisPage))
	mux.HandleFunc("GET /export", s.requireAuth(s.handleExport))

	chain := trace.Middleware(trace.ClientIP)(
		security.Headers(security.DefaultHeadersConfig())(
			s.withWriteRateLimit(mux)))

	s.Server = http.Server{
		Addr:    addr,
		Handler: chain,
	}
	return s
}

// withWriteRateLimit throttles mutating requests per client IP. Reads
// stay unthrottled so page refreshes cannot lock a user out.
func (s *Server) withWriteRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow(trace.ClientIP(r)) {
			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", trace.ClientIP(r), "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth resolves the session cookie into an owner and rejects
// anonymous requests with a redirect to the login page.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		owner, ok := s.sessions.Resolve(cookie.Value)
		if !ok {
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, owner)
	}
}

// Shutdown stops the HTTP server and background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		if s.sessions != nil {
			s.sessions.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
