package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type CreateSaleRequest struct {
	CustomerID      *string `json:"customer_id"       validate:"omitempty,uuid"`
	SalespersonID   string  `json:"salesperson_id"    validate:"required,uuid"`
	PaymentMethodID string  `json:"payment_method_id" validate:"required,uuid"`
}

type AddLineItemRequest struct {
	ProductID    string          `json:"product_id"    validate:"required,uuid"`
	Quantity     int             `json:"quantity"      validate:"required,min=1"`
	LineDiscount decimal.Decimal `json:"line_discount" validate:"min=0"`
}

type InvoiceSaleRequest struct {
	Installments int `json:"installments" validate:"min=1,max=48"`
}

// SaleFilterRequest is bound from the query string of GET /v1/sales.
type SaleFilterRequest struct {
	Status        string `form:"status"`
	SalespersonID string `form:"salesperson_id" validate:"omitempty,uuid"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type LineItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Product          string          `json:"product,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineDiscount     decimal.Decimal `json:"line_discount"`
	UnitCostSnapshot decimal.Decimal `json:"unit_cost_snapshot"`
}

type SaleResponse struct {
	ID             string             `json:"id"`
	Number         int64              `json:"number"`
	CustomerID     *string            `json:"customer_id"`
	SalespersonID  string             `json:"salesperson_id"`
	Status         string             `json:"status"`
	Items          []LineItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountTotal  decimal.Decimal    `json:"discount_total"`
	SurchargeTotal decimal.Decimal    `json:"surcharge_total"`
	Total          decimal.Decimal    `json:"total"`
	CreatedAt      string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
