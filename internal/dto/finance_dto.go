package dto

import "github.com/shopspring/decimal"

type PayInstallmentRequest struct {
	Amount decimal.Decimal `json:"amount"  validate:"required"`
	// PaidOn: YYYY-MM-DD; empty = today.
	PaidOn string `json:"paid_on" validate:"omitempty,datetime=2006-01-02"`
}

type InstallmentResponse struct {
	ID         string          `json:"id"`
	Number     int             `json:"number"`
	DueOn      string          `json:"due_on"`
	Amount     decimal.Decimal `json:"amount"`
	PaidOn     *string         `json:"paid_on"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

type ReceivableAccountResponse struct {
	ID           string                `json:"id"`
	SaleID       *string               `json:"sale_id"`
	Debtor       string                `json:"debtor"`
	Description  string                `json:"description"`
	Total        decimal.Decimal       `json:"total"`
	IssuedOn     string                `json:"issued_on"`
	Status       string                `json:"status"`
	Installments []InstallmentResponse `json:"installments"`
}
