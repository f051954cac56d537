package dto

import "github.com/shopspring/decimal"

type DailySalesReportResponse struct {
	Date       string          `json:"date"`
	SaleCount  int64           `json:"sale_count"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type MonthlySalesReportResponse struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	SaleCount  int64           `json:"sale_count"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type StockValuationItemResponse struct {
	ProductID   string          `json:"product_id"`
	Product     string          `json:"product"`
	Quantity    int             `json:"quantity"`
	AvgUnitCost decimal.Decimal `json:"avg_unit_cost"`
}

type StockValuationResponse struct {
	Items     []StockValuationItemResponse `json:"items"`
	TotalCost decimal.Decimal              `json:"total_cost"`
}

// InvoicedCostReportRequest is bound from the query string of
// GET /v1/reports/stock/invoiced-cost. Both dates are inclusive.
type InvoicedCostReportRequest struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to"   validate:"required,datetime=2006-01-02"`
}

type InvoicedCostReportResponse struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	InvoicedCost decimal.Decimal `json:"invoiced_cost"`
}
