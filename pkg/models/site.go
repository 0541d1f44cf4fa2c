package models

// SiteConfig is the singleton record describing storefront copy and contact
// details. Exactly one instance exists; updates merge onto it field by field.
type SiteConfig struct {
	Brand      string      `json:"brand"`
	Hero       Hero        `json:"hero"`
	Highlights []Highlight `json:"highlights"`
	Consult    Consult     `json:"consult"`
	Footer     Footer      `json:"footer"`
}

type Hero struct {
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle"`
	BackgroundImage string      `json:"backgroundImage"`
	PrimaryAction   *HeroAction `json:"primaryAction,omitempty"`
	SecondaryAction *HeroAction `json:"secondaryAction,omitempty"`
}

// HeroAction is a call-to-action button rendered in the hero section.
type HeroAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Highlight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Consult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Footer struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
