package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func SetupRoutes(logger *slog.Logger, handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests(logger.With("component", "http")))

	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/ranges", handler.GetRanges).Methods(http.MethodGet)
	api.HandleFunc("/ranges/{grade}", handler.GetRange).Methods(http.MethodGet)
	api.HandleFunc("/prices", handler.GetPrices).Methods(http.MethodGet)
	api.HandleFunc("/prices/{date}", handler.PutPrices).Methods(http.MethodPut)
	api.HandleFunc("/catalog", handler.GetCatalog).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{grade}", handler.PutCatalogBand).Methods(http.MethodPut)
	api.HandleFunc("/calculator", handler.Calculate).Methods(http.MethodPost)

	return r
}

// NewServer wraps the router with the server timeouts.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Debug("request served", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		})
	}
}
