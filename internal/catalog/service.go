// Package catalog implements CRUD over the product collection. Every
// mutation reads the full collection, applies the single-record change, and
// writes the whole collection back through the record store.
package catalog

import (
	"fmt"

	"github.com/apex-athletics/storefront/internal/apperr"
	"github.com/apex-athletics/storefront/internal/storage"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Collection is the record store key for products.
const Collection = "products"

// Payload is a product create/update body. Pointer fields distinguish
// "absent" from an explicit zero value, so partial updates keep unspecified
// fields intact.
type Payload struct {
	ID          *string   `json:"id"`
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price"`
	Currency    *string   `json:"currency"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Features    *[]string `json:"features"`
	Inventory   *int      `json:"inventory"`
	Badge       *string   `json:"badge"`
}

func (p Payload) apply(dst *models.Product) {
	if p.ID != nil {
		dst.ID = *p.ID
	}
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Currency != nil {
		dst.Currency = *p.Currency
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Image != nil {
		dst.Image = *p.Image
	}
	if p.Features != nil {
		dst.Features = *p.Features
	}
	if p.Inventory != nil {
		dst.Inventory = *p.Inventory
	}
	if p.Badge != nil {
		dst.Badge = *p.Badge
	}
}

type Service struct {
	store  *storage.Store
	logger *logrus.Logger
}

func NewService(store *storage.Store, logger *logrus.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) List() ([]models.Product, error) {
	var products []models.Product
	if err := s.store.Load(Collection, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) Get(id string) (models.Product, error) {
	products, err := s.List()
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, apperr.NotFound(fmt.Sprintf("product %q not found", id))
}

// Create validates and normalizes the payload, generates an id when the
// payload carries none, and rejects ids that already exist.
func (s *Service) Create(payload Payload) (models.Product, error) {
	if payload.Price == nil {
		return models.Product{}, apperr.Validation("name, category and price are required")
	}

	var product models.Product
	payload.apply(&product)
	if product.ID == "" {
		product.ID = "prod-" + uuid.New().String()
	}
	if err := normalize(&product); err != nil {
		return models.Product{}, err
	}

	err := s.store.Update(Collection, func() error {
		var products []models.Product
		if err := s.store.Load(Collection, &products); err != nil {
			return err
		}
		for _, existing := range products {
			if existing.ID == product.ID {
				return apperr.Conflict(fmt.Sprintf("product id %q already exists", product.ID))
			}
		}
		products = append(products, product)
		return s.store.Save(Collection, products)
	})
	if err != nil {
		return models.Product{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      product.Price,
	}).Info("Product created")
	return product, nil
}

// Update merges the partial payload onto the current record and re-validates
// the result. The id is immutable; an id in the payload is ignored.
func (s *Service) Update(id string, payload Payload) (models.Product, error) {
	var updated models.Product
	err := s.store.Update(Collection, func() error {
		var products []models.Product
		if err := s.store.Load(Collection, &products); err != nil {
			return err
		}
		index := -1
		for i, p := range products {
			if p.ID == id {
				index = i
				break
			}
		}
		if index == -1 {
			return apperr.NotFound(fmt.Sprintf("product %q not found", id))
		}

		merged := products[index]
		payload.apply(&merged)
		merged.ID = id
		if err := normalize(&merged); err != nil {
			return err
		}

		products[index] = merged
		if err := s.store.Save(Collection, products); err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}

	s.logger.WithField("product_id", id).Info("Product updated")
	return updated, nil
}

// Delete removes the record and returns it.
func (s *Service) Delete(id string) (models.Product, error) {
	var removed models.Product
	err := s.store.Update(Collection, func() error {
		var products []models.Product
		if err := s.store.Load(Collection, &products); err != nil {
			return err
		}
		index := -1
		for i, p := range products {
			if p.ID == id {
				index = i
				break
			}
		}
		if index == -1 {
			return apperr.NotFound(fmt.Sprintf("product %q not found", id))
		}
		removed = products[index]
		products = append(products[:index], products[index+1:]...)
		return s.store.Save(Collection, products)
	})
	if err != nil {
		return models.Product{}, err
	}

	s.logger.WithField("product_id", id).Info("Product deleted")
	return removed, nil
}

// normalize validates required fields and fills optional ones with their
// defaults. It runs on every create and on every merged update, so an update
// can never leave a record in a shape a create would have rejected.
func normalize(p *models.Product) error {
	if p.Name == "" || p.Category == "" {
		return apperr.Validation("name, category and price are required")
	}
	if p.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	if p.Inventory < 0 {
		return apperr.Validation("inventory must not be negative")
	}
	if p.Currency == "" {
		p.Currency = "CNY"
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return nil
}
