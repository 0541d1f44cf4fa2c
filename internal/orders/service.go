// Package orders converts carts into priced, immutable order records. A
// checkout resolves every line item against the live catalog, freezes unit
// prices, computes the total server-side and appends the order to the orders
// collection. Nothing is persisted when any part of the cart fails to
// resolve.
package orders

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/apex-athletics/storefront/internal/apperr"
	"github.com/apex-athletics/storefront/internal/catalog"
	"github.com/apex-athletics/storefront/internal/storage"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Collection is the record store key for orders.
const Collection = "orders"

// CartItem is one line of a checkout request. Quantity is deliberately
// untyped: clients send numbers, numeric strings or nothing at all, and all
// of those coerce rather than fail.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  any    `json:"quantity"`
}

// CheckoutRequest is the client-supplied part of an order. Prices never
// appear here; they come from the catalog at checkout time.
type CheckoutRequest struct {
	Items    []CartItem      `json:"items"`
	Customer map[string]any  `json:"customer"`
	Payment  *PaymentRequest `json:"payment"`
}

type PaymentRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference"`
}

type Service struct {
	store   *storage.Store
	catalog *catalog.Service
	logger  *logrus.Logger
}

func NewService(store *storage.Store, catalogService *catalog.Service, logger *logrus.Logger) *Service {
	return &Service{store: store, catalog: catalogService, logger: logger}
}

// Checkout prices the cart against the current catalog snapshot and appends
// the resulting order. The whole checkout fails before anything is written
// if the cart is empty or references an unknown product.
func (s *Service) Checkout(req CheckoutRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, apperr.Validation("order must contain at least one item")
	}

	products, err := s.catalog.List()
	if err != nil {
		return models.Order{}, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var total float64
	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return models.Order{}, apperr.Validation(fmt.Sprintf("product %q not found", line.ProductID))
		}
		quantity := coerceQuantity(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
		total += product.Price * float64(quantity)
	}

	customer := req.Customer
	if customer == nil {
		customer = map[string]any{}
	}
	payment := models.Payment{Method: "offline", Status: "pending"}
	if req.Payment != nil {
		if req.Payment.Method != "" {
			payment.Method = req.Payment.Method
		}
		payment.Reference = req.Payment.Reference
	}

	order := models.Order{
		ID:        "order-" + uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Items:     items,
		Customer:  customer,
		Payment:   payment,
		Total:     total,
	}

	err = s.store.Update(Collection, func() error {
		var orders []models.Order
		if err := s.store.Load(Collection, &orders); err != nil {
			return err
		}
		orders = append(orders, order)
		return s.store.Save(Collection, orders)
	})
	if err != nil {
		return models.Order{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"items_count": len(order.Items),
		"total":       order.Total,
	}).Info("Order created")
	return order, nil
}

// List returns every stored order in insertion order.
func (s *Service) List() ([]models.Order, error) {
	var orders []models.Order
	if err := s.store.Load(Collection, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// coerceQuantity turns whatever the client sent into a positive integer,
// defaulting to 1 for anything absent or non-numeric.
func coerceQuantity(v any) int {
	switch n := v.(type) {
	case float64:
		return clampQuantity(n)
	case int:
		if n < 1 {
			return 1
		}
		return n
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 1
		}
		return clampQuantity(parsed)
	default:
		return 1
	}
}

// clampQuantity bounds the float before converting: int(f) is not defined
// for values outside the int range.
func clampQuantity(f float64) int {
	if f < 1 || math.IsNaN(f) {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
