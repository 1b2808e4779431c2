package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"invoicestats/internal/core"
	applog "invoicestats/internal/log"
)

const (
	prefixStats          = "Error fetching stats: "
	prefixPaymentStats   = "Error fetching payment stats: "
	prefixMonthlyRevenue = "Error fetching monthly revenue: "
	prefixClientStats    = "Error fetching client stats: "
	prefixDatabase       = "Database error: "
)

const indexBanner = "Invoice stats service is running! Use /api/stats/overview for statistics."

func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexBanner))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the database.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.readers.Health != nil {
		if err := s.readers.Health.Ping(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics writes request and rate limit counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.Metrics()
	rateLimitMetrics := s.RateLimitMetrics()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_server_errors_total Responses with a 5xx status\n")
	fmt.Fprintf(w, "# TYPE http_server_errors_total counter\n")
	fmt.Fprintf(w, "http_server_errors_total %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP http_last_request_duration_microseconds Duration of the most recent request\n")
	fmt.Fprintf(w, "# TYPE http_last_request_duration_microseconds gauge\n")
	fmt.Fprintf(w, "http_last_request_duration_microseconds %d\n\n", traceMetrics.LastDurationUs)

	fmt.Fprintf(w, "# HELP rate_limit_rejected_total Requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_rejected_total counter\n")
	fmt.Fprintf(w, "rate_limit_rejected_total %d\n\n", rateLimitMetrics.Rejected)

	fmt.Fprintf(w, "# HELP rate_limit_tracked_clients Client IPs currently tracked by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_tracked_clients gauge\n")
	fmt.Fprintf(w, "rate_limit_tracked_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Seconds since the server was created\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %d\n", int64(time.Since(s.startedAt).Seconds()))
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	NotFoundError().Write(w)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	MethodNotAllowedError(http.MethodGet).Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, extractClientIP(r),
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

// fail logs err and writes a 500 carrying the prefixed error text. fields
// may be nil.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, component, op, prefix string, err error, fields applog.LogFields) {
	ctx := r.Context()
	if fields == nil {
		fields = applog.NewFields()
	}
	applog.NewStructuredLogger(applog.FromContext(ctx).WithComponent(component)).
		LogError(ctx, "Request failed", err, op, fields.WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", ""))
	InternalServerError(prefix, err).Write(w)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	ov, err := s.readers.Stats.Overview(ctx)
	if err != nil {
		s.fail(w, r, applog.ComponentStats, applog.OpRead, prefixStats, err, nil)
		return
	}
	NewJSONResponse().JSON(ov).Write(w)
}

func (s *Server) handlePaymentStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	ps, err := s.readers.Stats.PaymentStats(ctx)
	if err != nil {
		s.fail(w, r, applog.ComponentStats, applog.OpRead, prefixPaymentStats, err, nil)
		return
	}
	NewJSONResponse().JSON(ps).Write(w)
}

func (s *Server) handleMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	months, err := s.readers.Stats.MonthlyRevenue(ctx)
	if err != nil {
		s.fail(w, r, applog.ComponentStats, applog.OpRead, prefixMonthlyRevenue, err, nil)
		return
	}
	if months == nil {
		months = []core.MonthlyRevenue{}
	}
	NewJSONResponse().JSON(months).Write(w)
}

func (s *Server) handleClientStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	clients, err := s.readers.Stats.TopClients(ctx)
	if err != nil {
		s.fail(w, r, applog.ComponentStats, applog.OpRead, prefixClientStats, err, nil)
		return
	}
	if clients == nil {
		clients = []core.ClientSpend{}
	}
	NewJSONResponse().JSON(clients).Write(w)
}

func (s *Server) handleInvoiceDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError().Write(w)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	detail, err := s.readers.Invoices.InvoiceDetail(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		NotFoundError().Write(w)
		return
	}
	if err != nil {
		s.fail(w, r, applog.ComponentInvoices, applog.OpRead, prefixDatabase, err, applog.NewFields().WithInvoice(id))
		return
	}
	NewJSONResponse().JSON(detail).Write(w)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	invoices, err := s.readers.Invoices.ListInvoices(ctx)
	if err != nil {
		s.fail(w, r, applog.ComponentInvoices, applog.OpList, prefixDatabase, err, nil)
		return
	}
	if invoices == nil {
		invoices = []core.Invoice{}
	}
	NewJSONResponse().JSON(invoices).Write(w)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	clients, err := s.readers.Directory.ListClients(ctx)
	if err != nil {
		s.fail(w, r, applog.ComponentDirectory, applog.OpList, prefixDatabase, err, nil)
		return
	}
	if clients == nil {
		clients = []core.Client{}
	}
	NewJSONResponse().JSON(clients).Write(w)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError().Write(w)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	client, err := s.readers.Directory.GetClient(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		NotFoundError().Write(w)
		return
	}
	if err != nil {
		s.fail(w, r, applog.ComponentDirectory, applog.OpRead, prefixDatabase, err, applog.NewFields().WithClient(id))
		return
	}
	NewJSONResponse().JSON(client).Write(w)
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	companies, err := s.readers.Directory.ListCompanies(ctx)
	if err != nil {
		s.fail(w, r, applog.ComponentDirectory, applog.OpList, prefixDatabase, err, nil)
		return
	}
	if companies == nil {
		companies = []core.Company{}
	}
	NewJSONResponse().JSON(companies).Write(w)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		NotFoundError().Write(w)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	company, err := s.readers.Directory.GetCompany(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		NotFoundError().Write(w)
		return
	}
	if err != nil {
		s.fail(w, r, applog.ComponentDirectory, applog.OpRead, prefixDatabase, err, applog.NewFields().WithCompany(id))
		return
	}
	NewJSONResponse().JSON(company).Write(w)
}

// pathID parses the {id} route variable. Values that overflow int64 are
// treated like any other unknown id.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
