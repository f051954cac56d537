package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receivable account status values.
const (
	ReceivableOpen    = "open"
	ReceivablePartial = "partial"
	ReceivablePaid    = "paid"
)

// Debtor is the financial counterparty of a receivable. Sales without a
// customer resolve to a reusable walk-in debtor looked up by name.
type Debtor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Document  *string   `gorm:"type:varchar(20)"`
	CreatedAt time.Time
}

// ReceivableAccount is created once per invoiced sale. Status moves
// open → partial → paid as installments get paid; it is derived from the
// installments, never set directly by sale code.
type ReceivableAccount struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      *uuid.UUID `gorm:"type:uuid;index"`
	DebtorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Description string     `gorm:"not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IssuedOn    time.Time       `gorm:"type:date;not null"`
	Status      string          `gorm:"type:varchar(12);not null;default:'open'"`
	CreatedAt   time.Time

	Debtor       *Debtor       `gorm:"foreignKey:DebtorID"`
	Installments []Installment `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// Installment is one scheduled payment of a receivable. Amounts are split
// with 2-decimal rounding; the last installment absorbs the remainder so the
// sum always equals the account total exactly.
type Installment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Number     int       `gorm:"not null"`
	DueOn      time.Time `gorm:"type:date;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidOn     *time.Time      `gorm:"type:date"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}
