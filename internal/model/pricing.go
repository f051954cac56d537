package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTable groups price rules under one priority. Lower Priority applies
// first; ties break by insertion order (id ascending).
type PriceTable struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Active    bool      `gorm:"not null;default:true"`
	Priority  int       `gorm:"not null;default:100"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Rules []PriceRule `gorm:"foreignKey:TableID"`
}

// PriceRule overrides or discounts a product's price inside its table's turn.
// Scope is a specific product or a whole category. A rule may carry a fixed
// price, a percentage discount, or both: the fixed price is applied first,
// then the percentage over the new price. Every matching rule of a table
// applies in insertion order; a non-combinable rule stops resolution, so
// later rules and tables are never consulted.
type PriceRule struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID  *uuid.UUID `gorm:"type:uuid;index"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	FixedPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	// Validity window: StartsAt <= t < EndsAt.
	StartsAt   time.Time `gorm:"index;not null"`
	EndsAt     time.Time `gorm:"index;not null"`
	Combinable bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
}

// ValidAt reports whether the rule applies at time t.
func (r *PriceRule) ValidAt(t time.Time) bool {
	return !t.Before(r.StartsAt) && t.Before(r.EndsAt)
}

// Matches reports whether the rule's scope covers the product, either by a
// direct product reference or by the product's category.
func (r *PriceRule) Matches(p *Product) bool {
	if r.ProductID != nil && *r.ProductID == p.ID {
		return true
	}
	if r.CategoryID != nil && *r.CategoryID == p.CategoryID {
		return true
	}
	return false
}
