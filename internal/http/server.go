package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"financetrack/internal/core"
	"financetrack/internal/log"
	authmw "financetrack/internal/middleware/auth"
	"financetrack/internal/middleware/cors"
	"financetrack/internal/middleware/ratelimit"
	"financetrack/internal/middleware/security"
	"financetrack/internal/middleware/trace"
	"financetrack/internal/services"
)

type (
	// Pinger reports whether the database answers.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Sizer reports the number of cached entries.
	Sizer interface {
		Size() int
	}

	// Dependencies are the services behind the API.
	Dependencies struct {
		Users        *services.UserService
		Transactions *services.TransactionService
		Categories   *services.CategoryService
		Budgets      *services.BudgetService
		Goals        *services.GoalService
		Reports      *services.ReportService
		Exports      *services.ExportService

		Tokens      authmw.TokenValidator
		UserLookup  authmw.UserLookup
		Health      Pinger
		ReportCache Sizer
	}

	// Config holds the transport settings of the API server.
	Config struct {
		Addr               string
		AllowedOrigins     []string
		TrustedProxies     []string
		RateLimitPerMinute int
		Logger             *log.Logger
	}
)

type Server struct {
	http.Server
	deps   Dependencies
	router *mux.Router
	logger *log.Logger
	events *log.StructuredLogger

	auth     *authmw.Middleware
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(cfg Config, deps Dependencies) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
	}

	rl := ratelimit.DefaultConfig()
	if cfg.RateLimitPerMinute > 0 {
		rl.RequestsPerMinute = cfg.RateLimitPerMinute
	}
	rl.Methods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

	s := &Server{
		deps:      deps,
		router:    mux.NewRouter(),
		logger:    logger,
		events:    log.NewStructuredLogger(logger),
		auth:      authmw.NewMiddleware(deps.Tokens, deps.UserLookup, writeError),
		limiter:   ratelimit.NewLimiter(rl),
		detector:  detector,
		tracer:    trace.NewMiddleware(detector.ExtractClientIP),
		startedAt: time.Now(),
	}
	s.registerRoutes()

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.chain(s.router, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// chain wraps h with the middleware stack, outermost first.
func (s *Server) chain(h http.Handler, origins []string) http.Handler {
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, MsgTooManyRequests).Write(w)
	})

	h = limit(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = cors.New(cors.DefaultConfig(origins)).Middleware(h)
	h = log.Middleware(s.logger)(h)
	h = s.tracer.Middleware(h)
	return recoverer(h)
}

func (s *Server) registerRoutes() {
	r := s.router
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		NotFoundError(MsgRouteNotFound).Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		MethodNotAllowedError("").Write(w)
	})

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	// Public API
	r.HandleFunc("/api/users/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/reports", s.handleReportsInfo).Methods(http.MethodGet)

	// Protected API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.auth.Require)

	api.HandleFunc("/users/profile", s.handleProfile).Methods(http.MethodGet)
	api.Handle("/users", s.auth.RequireRole(core.RoleAdmin, http.HandlerFunc(s.handleListUsers))).Methods(http.MethodGet)

	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", s.handleGetTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}", s.handleUpdateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)

	api.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", s.handleGetCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", s.handleUpdateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", s.handleDeleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/budgets", s.handleCreateBudget).Methods(http.MethodPost)
	api.HandleFunc("/budgets", s.handleListBudgets).Methods(http.MethodGet)
	api.HandleFunc("/budgets/{id}", s.handleGetBudget).Methods(http.MethodGet)
	api.HandleFunc("/budgets/{id}", s.handleUpdateBudget).Methods(http.MethodPut)
	api.HandleFunc("/budgets/{id}", s.handleDeleteBudget).Methods(http.MethodDelete)

	api.HandleFunc("/goals", s.handleCreateGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals", s.handleListGoals).Methods(http.MethodGet)
	api.HandleFunc("/goals/{id}", s.handleGetGoal).Methods(http.MethodGet)
	api.HandleFunc("/goals/{id}", s.handleUpdateGoal).Methods(http.MethodPut)
	api.HandleFunc("/goals/{id}", s.handleDeleteGoal).Methods(http.MethodDelete)

	api.HandleFunc("/reports/monthly", s.handleMonthlyReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/weekly", s.handleWeeklyReport).Methods(http.MethodGet)
	api.HandleFunc("/reports/range", s.handleRangeReport).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
