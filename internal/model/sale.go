package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale status state machine: draft → open → invoiced; draft|open → canceled.
// Invoiced and canceled are terminal.
const (
	SaleDraft    = "draft"
	SaleOpen     = "open"
	SaleInvoiced = "invoiced"
	SaleCanceled = "canceled"
)

// Customer is master data maintained externally; the core only reads it to
// resolve the receivable debtor.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Document  *string   `gorm:"type:varchar(20)"`
	Email     *string
	Phone     *string `gorm:"type:varchar(30)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentMethod: cash, card, transfer… RequiresInstallments drives whether
// the invoice call may split the receivable.
type PaymentMethod struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string    `gorm:"uniqueIndex;not null"`
	RequiresInstallments bool      `gorm:"not null;default:false"`
}

// Sale aggregates line items from draft through invoicing.
type Sale struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number          int64      `gorm:"uniqueIndex;not null"`
	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`
	SalespersonID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID  `gorm:"type:uuid;not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:'draft'"`
	DiscountTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SurchargeTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer      *Customer      `gorm:"foreignKey:CustomerID"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID"`
	Items         []SaleLineItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// RecomputeTotals derives subtotal/total from the line items. Line values are
// already rounded, so the sums stay at 2 decimals.
func (s *Sale) RecomputeTotals() {
	subtotal := decimal.Zero
	lineDiscounts := decimal.Zero
	for _, it := range s.Items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		lineDiscounts = lineDiscounts.Add(it.LineDiscount)
	}
	s.Subtotal = subtotal
	s.Total = subtotal.Sub(lineDiscounts).Sub(s.DiscountTotal).Add(s.SurchargeTotal)
}

// SaleLineItem freezes the effective unit price and the current average unit
// cost at add time; the cost snapshot feeds margin-based commissions.
// Immutable once the sale is invoiced.
type SaleLineItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID           uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity         int       `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineDiscount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UnitCostSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
