package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	applog "invoicestats/internal/log"
	"invoicestats/internal/middleware/cors"
	"invoicestats/internal/middleware/ratelimit"
	"invoicestats/internal/middleware/security"
	"invoicestats/internal/middleware/trace"
	"invoicestats/internal/ports"
)

// Readers groups the ports the API reads from.
type Readers struct {
	Stats     ports.StatsReader
	Invoices  ports.InvoiceReader
	Directory ports.DirectoryReader
	Health    ports.HealthChecker
}

// Options tunes the server. Zero values take defaults.
type Options struct {
	RequestTimeout    time.Duration
	CORSAllowedOrigin string
	// RateLimitPerMin caps /api requests per client IP; 0 disables it.
	RateLimitPerMin int
	Logger          *applog.Logger
}

const defaultRequestTimeout = 7 * time.Second

type Server struct {
	http.Server
	readers        Readers
	requestTimeout time.Duration
	logger         *applog.Logger
	rateLimiter    *ratelimit.Limiter
	tracer         *trace.Middleware
	startedAt      time.Time
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, readers Readers, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}

	s := &Server{
		readers:        readers,
		requestTimeout: opts.RequestTimeout,
		logger:         logger.WithComponent(applog.ComponentHTTP),
		startedAt:      time.Now(),
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	r.HandleFunc("/", handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if opts.RateLimitPerMin > 0 {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMin})
		api.Use(s.rateLimiter.Middleware(extractClientIP, s.handleRateLimited))
	}

	api.HandleFunc("/stats/overview", s.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/stats/payment-stats", s.handlePaymentStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/monthly-revenue", s.handleMonthlyRevenue).Methods(http.MethodGet)
	api.HandleFunc("/stats/client-stats", s.handleClientStats).Methods(http.MethodGet)

	api.HandleFunc("/invoices", s.handleListInvoices).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id:[0-9]+}", s.handleInvoiceDetail).Methods(http.MethodGet)

	api.HandleFunc("/clients", s.handleListClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id:[0-9]+}", s.handleGetClient).Methods(http.MethodGet)
	api.HandleFunc("/companies", s.handleListCompanies).Methods(http.MethodGet)
	api.HandleFunc("/companies/{id:[0-9]+}", s.handleGetCompany).Methods(http.MethodGet)

	corsCfg := cors.DefaultConfig()
	if opts.CORSAllowedOrigin != "" {
		corsCfg.AllowedOrigin = opts.CORSAllowedOrigin
	}
	s.tracer = trace.NewMiddleware(extractClientIP, logger)

	// Outermost first: CORS answers preflights before routing so OPTIONS
	// never hits the 405 handler.
	var handler http.Handler = r
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = applog.Middleware(logger)(handler)
	handler = cors.Middleware(corsCfg)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics returns request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

// RateLimitMetrics is zero when rate limiting is disabled.
func (s *Server) RateLimitMetrics() ratelimit.Metrics {
	if s.rateLimiter == nil {
		return ratelimit.Metrics{}
	}
	return s.rateLimiter.GetMetrics()
}
