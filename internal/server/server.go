package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"availscan/internal/metrics"
	"availscan/internal/scanner"
)

// Server exposes the most recent scan report and prometheus metrics over
// HTTP. Only the current snapshot is held; no history is kept.
type Server struct {
	router  chi.Router
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	latest *scanner.Report
}

// New creates a Server and registers all routes. Pass nil logger to use the
// default logger.
func New(m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  chi.NewRouter(),
		logger:  logger,
		metrics: m,
	}
	s.registerRoutes()
	return s
}

// Router returns the chi router (for mounting or testing).
func (s *Server) Router() chi.Router {
	return s.router
}

// SetReport replaces the current snapshot. Called after each scan cycle.
func (s *Server) SetReport(report scanner.Report) {
	s.mu.Lock()
	s.latest = &report
	s.mu.Unlock()
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/report", s.handleReport)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
}

// --- Response helpers ---

type envelope struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: msg})
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type serviceStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Detail    string `json:"detail"`
	LatencyMs int64  `json:"latency_ms"`
}

type reportResponse struct {
	StartedAt      time.Time       `json:"started_at"`
	DurationMs     int64           `json:"duration_ms"`
	Total          int             `json:"total"`
	Online         int             `json:"online"`
	Offline        int             `json:"offline"`
	OnlinePercent  float64         `json:"online_percent"`
	OfflinePercent float64         `json:"offline_percent"`
	Services       []serviceStatus `json:"services"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	report := s.latest
	s.mu.RUnlock()

	if report == nil {
		writeError(w, http.StatusServiceUnavailable, "no scan completed yet")
		return
	}

	services := make([]serviceStatus, 0, report.Total())
	for _, res := range report.Results {
		status := "offline"
		if res.Available {
			status = "online"
		}
		services = append(services, serviceStatus{
			Name:      res.Service,
			Status:    status,
			Detail:    res.Detail,
			LatencyMs: res.Latency.Milliseconds(),
		})
	}

	writeJSON(w, http.StatusOK, reportResponse{
		StartedAt:      report.StartedAt,
		DurationMs:     report.Duration.Milliseconds(),
		Total:          report.Total(),
		Online:         report.Online(),
		Offline:        report.Offline(),
		OnlinePercent:  report.OnlinePercent(),
		OfflinePercent: report.OfflinePercent(),
		Services:       services,
	})
}

// --- Middleware ---

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}
