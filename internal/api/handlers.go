// Package api is the HTTP/JSON boundary of the storefront backend. Handlers
// decode requests, delegate to the services and translate typed errors into
// status codes; no business rules live here.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/apex-athletics/storefront/internal/auth"
	"github.com/apex-athletics/storefront/internal/catalog"
	"github.com/apex-athletics/storefront/internal/orders"
	"github.com/apex-athletics/storefront/internal/site"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// OrderPublisher forwards created orders to an event stream. Optional.
type OrderPublisher interface {
	PublishOrderCreated(order models.Order) error
}

// OrderFeed pushes live events to connected admin dashboards and serves the
// WebSocket endpoint itself. Optional.
type OrderFeed interface {
	Broadcast(eventType string, data any)
	http.Handler
}

type Handler struct {
	auth     *auth.Authority
	catalog  *catalog.Service
	site     *site.Service
	orders   *orders.Service
	logger   *logrus.Logger
	producer OrderPublisher
	feed     OrderFeed
}

func NewHandler(authority *auth.Authority, catalogService *catalog.Service, siteService *site.Service, orderService *orders.Service, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:    authority,
		catalog: catalogService,
		site:    siteService,
		orders:  orderService,
		logger:  logger,
	}
}

func (h *Handler) SetOrderPublisher(producer OrderPublisher) {
	h.producer = producer
}

func (h *Handler) SetOrderFeed(feed OrderFeed) {
	h.feed = feed
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, session, err := h.auth.Login(body.Email, body.Password)
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"session": session,
	})
}

// Logout is deliberately always a 200: revoking an already-dead token is a
// no-op, not a failure.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.auth.Logout(token)
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List()
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"items": products})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid product payload")
		return
	}

	product, err := h.catalog.Create(payload)
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid product payload")
		return
	}

	product, err := h.catalog.Update(mux.Vars(r)["id"], payload)
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	removed, err := h.catalog.Delete(mux.Vars(r)["id"])
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, removed)
}

func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.site.Get()
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

func (h *Handler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var patch site.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid site payload")
		return
	}

	cfg, err := h.site.Update(patch)
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req orders.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid checkout payload")
		return
	}

	order, err := h.orders.Checkout(req)
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}

	// the order is durable at this point; event delivery failures are
	// logged, never surfaced to the shopper
	if h.producer != nil {
		if err := h.producer.PublishOrderCreated(order); err != nil {
			h.logger.WithError(err).Error("Failed to publish order created event")
		}
	}
	if h.feed != nil {
		h.feed.Broadcast("order_created", order)
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"message": "order created, payment gateway configuration pending",
		"order":   order,
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if session, ok := sessionFromContext(r.Context()); ok {
		h.logger.WithField("admin", session.Email).Debug("Listing orders")
	}
	list, err := h.orders.List()
	if err != nil {
		h.respondWithAppError(w, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"items": list})
}

// OrderFeedSocket upgrades an admin dashboard connection. Browsers cannot
// set headers on WebSocket requests, so the bearer token rides in the query
// string instead.
func (h *Handler) OrderFeedSocket(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		respondWithError(w, http.StatusNotFound, "live feed is not enabled")
		return
	}
	if _, ok := h.auth.Validate(r.URL.Query().Get("token")); !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized, please log in again")
		return
	}
	h.feed.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "storefront",
	})
}
