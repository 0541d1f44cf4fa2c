package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every route of the storefront API. Read endpoints are
// public; every mutating endpoint sits behind the session check except
// checkout, which shoppers call anonymously.
func NewRouter(h *Handler, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(metricsMiddleware)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", h.Logout).Methods(http.MethodPost)

	r.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.requireSession(h.CreateProduct)).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", h.requireSession(h.UpdateProduct)).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id}", h.requireSession(h.DeleteProduct)).Methods(http.MethodDelete)

	r.HandleFunc("/api/site", h.GetSite).Methods(http.MethodGet)
	r.HandleFunc("/api/site", h.requireSession(h.UpdateSite)).Methods(http.MethodPut)

	r.HandleFunc("/api/checkout", h.Checkout).Methods(http.MethodPost)
	r.HandleFunc("/api/orders", h.requireSession(h.ListOrders)).Methods(http.MethodGet)

	r.HandleFunc("/api/ws", h.OrderFeedSocket).Methods(http.MethodGet)

	// CORS preflight for any API path
	r.PathPrefix("/api/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
