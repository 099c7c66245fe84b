package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/cache"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/middleware/ratelimit"
	"github.com/FriggD/controle-gastos-residenciais/internal/middleware/security"
	"github.com/FriggD/controle-gastos-residenciais/internal/middleware/trace"
	"github.com/FriggD/controle-gastos-residenciais/internal/services"
	appweb "github.com/FriggD/controle-gastos-residenciais/web"
	"github.com/google/uuid"
)

// apiPrefix is the alternate mount point of every JSON route.
const apiPrefix = "/api"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config carries the collaborators and tunables of the server.
type Config struct {
	Addr               string
	Ledger             *services.Ledger
	Store              Pinger
	Logger             *log.Logger
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	TrustedProxies     []string
}

type appMetrics struct {
	peopleCreated       int64
	transactionsCreated int64
	uptime              time.Time
}

type Server struct {
	http.Server
	ledger    *services.Ledger
	store     Pinger
	logger    *log.Logger
	templates *template.Template

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	cacheManager     *cache.Manager
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	limiterConfig := ratelimit.DefaultConfig()
	if cfg.RateLimitPerMinute > 0 {
		limiterConfig.RequestsPerMinute = cfg.RateLimitPerMinute
	}

	s := &Server{
		ledger:           cfg.Ledger,
		store:            cfg.Store,
		logger:           logger,
		rateLimiter:      ratelimit.NewLimiter(limiterConfig),
		securityDetector: security.NewDetector(),
		cacheManager:     cache.NewManager(),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}
	for _, cidr := range cfg.TrustedProxies {
		if err := s.securityDetector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)

	s.cacheManager.Register(cfg.Ledger.Reports)
	s.cacheManager.StartCleanup(5 * time.Minute)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)(handler)
	handler = s.securityDetector.Middleware(logger)(handler)
	handler = security.NewCORS(cfg.CORSAllowedOrigins).Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.api(mux, "GET /people", s.handleListPeople)
	s.api(mux, "POST /people", s.handleCreatePerson)
	s.api(mux, "GET /people/{id}", s.handleGetPerson)
	s.api(mux, "PUT /people/{id}", s.handleUpdatePerson)
	s.api(mux, "DELETE /people/{id}", s.handleDeletePerson)
	s.api(mux, "GET /people/{id}/transactions", s.handlePersonTransactions)

	s.api(mux, "GET /categories", s.handleListCategories)
	s.api(mux, "POST /categories", s.handleCreateCategory)
	s.api(mux, "GET /categories/{id}", s.handleGetCategory)
	s.api(mux, "PUT /categories/{id}", s.handleUpdateCategory)
	s.api(mux, "DELETE /categories/{id}", s.handleDeleteCategory)

	s.api(mux, "GET /transactions", s.handleListTransactions)
	s.api(mux, "POST /transactions", s.handleCreateTransaction)
	s.api(mux, "GET /transactions/{id}", s.handleGetTransaction)

	s.api(mux, "GET /reports/totals-by-person", s.handleTotalsByPerson)
	s.api(mux, "GET /reports/totals-by-category", s.handleTotalsByCategory)
}

// api registers a JSON route at its own path and under apiPrefix.
func (s *Server) api(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	mux.HandleFunc(pattern, h)
	mux.HandleFunc(method+" "+apiPrefix+path, h)
}

// resourceLocation is the URL of a resource created under the request path.
func resourceLocation(r *http.Request, id uuid.UUID) string {
	return strings.TrimSuffix(r.URL.Path, "/") + "/" + id.String()
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		if err := s.Server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("shutdown http server: %w", err)
		}
	})
	return shutdownErr
}
