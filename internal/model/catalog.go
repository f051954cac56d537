package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies products and is the fallback scope for price and
// commission rules that are not bound to a specific product.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Category) TableName() string { return "categories" }

// Product is catalog master data — created and maintained externally.
// Quantity on hand lives in the stock ledger, never here.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Barcode     *string         `gorm:"uniqueIndex"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	// MinStock is the low-stock notification threshold.
	MinStock  int  `gorm:"not null;default:5"`
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// Promotion applies a percentage discount to its linked products during a
// validity window inclusive on both ends. Concurrent promotions never
// stack: price resolution takes the single largest discount.
type Promotion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	DiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	StartsAt    time.Time `gorm:"index;not null"`
	EndsAt      time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []Product `gorm:"many2many:promotion_products"`
}
