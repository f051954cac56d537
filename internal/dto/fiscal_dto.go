package dto

import "github.com/shopspring/decimal"

type FiscalDocumentResponse struct {
	ID             string          `json:"id"`
	SaleID         string          `json:"sale_id"`
	Number         *int64          `json:"number"`
	AuthCode       *string         `json:"auth_code"`
	AuthExpiration *string         `json:"auth_expiration"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	PDFUrl         *string         `json:"pdf_url"`
	CreatedAt      string          `json:"created_at"`
}
