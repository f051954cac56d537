package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest covers entries and adjustments registered through
// the API. Exits are only ever produced by invoicing.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Kind      string `json:"kind"       validate:"required,oneof=entry adjustment"`
	// Quantity: > 0 for entries; any non-zero signed delta for adjustments.
	Quantity int             `json:"quantity"  validate:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" validate:"min=0"`
	Reason   string          `json:"reason"`
	Reference string         `json:"reference"`
}

// MovementFilterRequest is bound from the query string of GET /v1/stock/movements.
type MovementFilterRequest struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Kind      string `form:"kind"       validate:"omitempty,oneof=entry exit adjustment"`
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type LedgerResponse struct {
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	AvgUnitCost decimal.Decimal `json:"avg_unit_cost"`
}

type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	Kind      string          `json:"kind"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reason    string          `json:"reason,omitempty"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type LowStockAlertResponse struct {
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	MinStock  int    `json:"min_stock"`
}
