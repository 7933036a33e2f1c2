package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/hashicorp-forge/employee-api/internal/server"
	"github.com/hashicorp-forge/employee-api/internal/version"
	"github.com/hashicorp-forge/employee-api/pkg/upstream"
)

// NewHandler returns the root HTTP handler: the employee API, /health and
// /metrics, wrapped with request ID propagation.
func NewHandler(srv server.Server) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(employeesPath, instrument(srv, "employees", EmployeesHandler(srv)))
	mux.Handle(employeesPath+"/", instrument(srv, "employee", EmployeeHandler(srv)))
	mux.Handle("/health", instrument(srv, "health", HealthHandler(srv)))
	if srv.Metrics != nil {
		mux.Handle("/metrics", srv.Metrics.Handler())
	}

	return withRequestID(mux)
}

// HealthHandler reports liveness and the configured upstream.
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		resp := map[string]string{
			"status":  "ok",
			"version": version.Version,
		}
		if srv.Config != nil && srv.Config.Upstream != nil {
			resp["upstream"] = srv.Config.Upstream.BaseURL
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			srv.Logger.Error("error encoding health response", "error", err)
		}
	})
}

// withRequestID reuses the caller's X-Request-ID or generates one, stores it
// in the request context for upstream calls and echoes it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(upstream.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(upstream.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(upstream.WithRequestID(r.Context(), id)))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument logs every request and counts it by route and status code.
func instrument(srv server.Server, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		srv.Logger.Debug("served request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", upstream.RequestIDFromContext(r.Context()),
		)
		if srv.Metrics != nil {
			srv.Metrics.ObserveHTTP(route, rec.status)
		}
	})
}
