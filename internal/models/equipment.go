package models

import (
	"strings"
	"time"
)

// Product states and locations.
const (
	StateStock  = "stock"
	StateLoan   = "loan"
	StateBroken = "broken"

	LocationClub = "club"
	LocationLoan = "loan"
)

// Composite statuses. Transitions only happen through the
// assignment/return workflow (plus the manual reset escape hatch).
const (
	StatusClub = "club"
	StatusLoan = "loan"
)

// Category describes a kind of equipment (viseur, stab, branches...).
// The Has* flags drive which specific fields a product form shows;
// CustomFields holds extra field names, comma-separated, in order.
type Category struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:50;unique;not null"`
	HasSize      bool
	HasPower     bool
	HasModel     bool
	HasBrand     bool
	CustomFields string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CustomFieldList returns the ordered custom field names, skipping blanks.
func (c Category) CustomFieldList() []string {
	if strings.TrimSpace(c.CustomFields) == "" {
		return nil
	}
	parts := strings.Split(c.CustomFields, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Product is a single piece of equipment belonging to a category.
type Product struct {
	ID         uint     `gorm:"primaryKey"`
	CategoryID uint     `gorm:"not null;index"`
	Category   Category `gorm:"foreignKey:CategoryID"`
	Brand      string   `gorm:"size:50"`
	State      string   `gorm:"size:20;not null;default:'stock'"`
	Location   string   `gorm:"size:20;not null;default:'club'"`
	Size       string   `gorm:"size:20"`
	Power      string   `gorm:"size:20"`
	Model      string   `gorm:"size:50"`
	Comments   string   `gorm:"type:text"`
	// CustomValues keys come from Category.CustomFields.
	CustomValues JSONMap            `gorm:"type:text"`
	Composites   []CompositeProduct `gorm:"many2many:composite_components;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Label is the short human form used in history summaries and exports.
func (p Product) Label() string {
	if p.Category.Name != "" {
		return p.Brand + " (" + p.Category.Name + ")"
	}
	return p.Brand
}

// CompositeProduct is an assembled bow tracked as one loanable unit.
type CompositeProduct struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"size:100;not null"`
	Type       string    `gorm:"size:10"` // BB, CL
	Status     string    `gorm:"size:20;not null;default:'club'"`
	Components []Product `gorm:"many2many:composite_components;"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
