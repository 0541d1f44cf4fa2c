// Package site manages the singleton site configuration record. Updates are
// an explicit per-field merge over the fixed schema: shallow at the top
// level, deep for hero/consult/footer, and highlights replaced only when the
// patch actually carries an array.
package site

import (
	"github.com/apex-athletics/storefront/internal/storage"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/sirupsen/logrus"
)

// Collection is the record store key for the site configuration.
const Collection = "site"

// Patch is a partial site configuration. Nil fields mean "keep the current
// value"; nested patches merge key by key.
type Patch struct {
	Brand      *string            `json:"brand"`
	Hero       *HeroPatch         `json:"hero"`
	Highlights []models.Highlight `json:"highlights"`
	Consult    *ConsultPatch      `json:"consult"`
	Footer     *FooterPatch       `json:"footer"`
}

type HeroPatch struct {
	Title           *string            `json:"title"`
	Subtitle        *string            `json:"subtitle"`
	BackgroundImage *string            `json:"backgroundImage"`
	PrimaryAction   *models.HeroAction `json:"primaryAction"`
	SecondaryAction *models.HeroAction `json:"secondaryAction"`
}

type ConsultPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type FooterPatch struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type Service struct {
	store  *storage.Store
	logger *logrus.Logger
}

func NewService(store *storage.Store, logger *logrus.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Get() (models.SiteConfig, error) {
	var cfg models.SiteConfig
	if err := s.store.Load(Collection, &cfg); err != nil {
		return models.SiteConfig{}, err
	}
	return cfg, nil
}

// Update merges the patch onto the stored configuration and persists the
// result. Unspecified nested fields keep their prior values.
func (s *Service) Update(patch Patch) (models.SiteConfig, error) {
	var merged models.SiteConfig
	err := s.store.Update(Collection, func() error {
		var current models.SiteConfig
		if err := s.store.Load(Collection, &current); err != nil {
			return err
		}
		merged = merge(current, patch)
		return s.store.Save(Collection, merged)
	})
	if err != nil {
		return models.SiteConfig{}, err
	}

	s.logger.Info("Site configuration updated")
	return merged, nil
}

func merge(current models.SiteConfig, patch Patch) models.SiteConfig {
	out := current
	if patch.Brand != nil {
		out.Brand = *patch.Brand
	}
	if patch.Hero != nil {
		out.Hero = mergeHero(current.Hero, *patch.Hero)
	}
	// a supplied array replaces highlights wholesale; there is no
	// element-wise merge
	if patch.Highlights != nil {
		out.Highlights = patch.Highlights
	}
	if patch.Consult != nil {
		if patch.Consult.Title != nil {
			out.Consult.Title = *patch.Consult.Title
		}
		if patch.Consult.Description != nil {
			out.Consult.Description = *patch.Consult.Description
		}
	}
	if patch.Footer != nil {
		if patch.Footer.Email != nil {
			out.Footer.Email = *patch.Footer.Email
		}
		if patch.Footer.Phone != nil {
			out.Footer.Phone = *patch.Footer.Phone
		}
		if patch.Footer.Address != nil {
			out.Footer.Address = *patch.Footer.Address
		}
	}
	return out
}

func mergeHero(current models.Hero, patch HeroPatch) models.Hero {
	out := current
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		out.Subtitle = *patch.Subtitle
	}
	if patch.BackgroundImage != nil {
		out.BackgroundImage = *patch.BackgroundImage
	}
	// actions replace wholesale when supplied; there is no label/href-level
	// merge
	if patch.PrimaryAction != nil {
		action := *patch.PrimaryAction
		out.PrimaryAction = &action
	}
	if patch.SecondaryAction != nil {
		action := *patch.SecondaryAction
		out.SecondaryAction = &action
	}
	return out
}

// DefaultConfig seeds a fresh data directory so the storefront renders
// before an admin has touched anything.
func DefaultConfig() models.SiteConfig {
	return models.SiteConfig{
		Brand: "Apex Athletics",
		Hero: models.Hero{
			Title:           "Gear built for the long run",
			Subtitle:        "Performance equipment tested by athletes, priced for everyone.",
			BackgroundImage: "/assets/hero.jpg",
			PrimaryAction:   &models.HeroAction{Label: "Shop now", Href: "#products"},
			SecondaryAction: &models.HeroAction{Label: "Book a consult", Href: "#consult"},
		},
		Highlights: []models.Highlight{
			{Title: "Free returns", Description: "30 days, no questions asked."},
			{Title: "Expert fitting", Description: "Every order reviewed by a coach."},
			{Title: "Fast dispatch", Description: "Orders ship within one business day."},
		},
		Consult: models.Consult{
			Title:       "Talk to a specialist",
			Description: "Leave your contact details and we will call you back within a day.",
		},
		Footer: models.Footer{
			Email:   "hello@apex-athletics.com",
			Phone:   "+86 400 000 0000",
			Address: "88 Riverside Avenue, Hangzhou",
		},
	}
}
