package dto

import "github.com/shopspring/decimal"

// CommissionFilterRequest is bound from the query string of GET /v1/commissions.
type CommissionFilterRequest struct {
	SalespersonID string `form:"salesperson_id" validate:"omitempty,uuid"`
	Status        string `form:"status" validate:"omitempty,oneof=open paid"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CommissionEntryResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	LineItemID    string          `json:"line_item_id"`
	SalespersonID string          `json:"salesperson_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

type CommissionListResponse struct {
	Data  []CommissionEntryResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
