package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission basis and entry status values.
const (
	BasisRevenue = "revenue"
	BasisMargin  = "margin"

	CommissionOpen = "open"
	CommissionPaid = "paid"
)

// CommissionRule configures a percentage commission. Every scope field is
// optional: a nil salesperson matches any salesperson, and a rule with
// neither product nor category is the global fallback. Resolution picks the
// first active match ordered by (priority asc, id asc).
type CommissionRule struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalespersonID *uuid.UUID `gorm:"type:uuid;index"`
	ProductID     *uuid.UUID `gorm:"type:uuid;index"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	RatePct       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	// Basis: "revenue" (price*qty) or "margin" ((price-cost)*qty).
	Basis     string `gorm:"type:varchar(10);not null;default:'margin'"`
	Active    bool   `gorm:"not null;default:true"`
	Priority  int    `gorm:"not null;default:100"`
	CreatedAt time.Time
}

// CommissionEntry is the computed result for one sale line item. At most one
// entry exists per line item; it is created during invoicing and never
// recomputed.
type CommissionEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID        uuid.UUID `gorm:"type:uuid;not null;index"`
	LineItemID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	SalespersonID uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(12);not null;default:'open'"`
	CreatedAt     time.Time
}

func (CommissionEntry) TableName() string { return "commission_entries" }
