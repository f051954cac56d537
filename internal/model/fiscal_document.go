package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FiscalDocument tracks the best-effort emission of a fiscal receipt for an
// invoiced sale. Emission never affects the committed financial state: a
// failure leaves the document pending for the retry cron.
// Status: "pending" | "issued" | "rejected" | "error"
type FiscalDocument struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID `gorm:"type:uuid;index;not null"`
	Number *int64
	// AuthCode is the authorization code returned by the fiscal authority.
	AuthCode       *string    `gorm:"type:varchar(20)"`
	AuthExpiration *time.Time
	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// PDFPath is relative to the configured PDF storage directory.
	PDFPath *string
	Notes   *string
	// Retry fields — used by the retry cron to re-attempt failed emissions.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
