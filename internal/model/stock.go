package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds. Entries and positive adjustments carry a unit cost that
// feeds the weighted-average recompute; exits never change the cost.
const (
	MovementEntry      = "entry"
	MovementExit       = "exit"
	MovementAdjustment = "adjustment"
)

// StockLedger is the authoritative quantity / weighted-average cost per
// product. It is mutated only by applying stock movements under the ledger
// row lock — sale code never writes it directly.
type StockLedger struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Quantity    int             `gorm:"not null;default:0"`
	AvgUnitCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UpdatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockLedger) TableName() string { return "stock_ledgers" }

// StockMovement is an immutable, append-only record of a quantity change.
// Kind: "entry" | "exit" | "adjustment". For adjustments Quantity is a signed
// delta. Movements are NEVER modified or deleted — corrections create new
// adjustment rows.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_movements_product_created"`
	Kind      string    `gorm:"type:varchar(12);not null"`
	Quantity  int       `gorm:"not null"`
	// UnitCost is meaningful for entries and positive adjustments.
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Reason    string
	// Reference links back to the originating document, e.g. a sale number.
	Reference string
	CreatedAt time.Time `gorm:"index:idx_stock_movements_product_created"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
