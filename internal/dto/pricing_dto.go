package dto

import "github.com/shopspring/decimal"

// PriceCheckResponse is the payload of GET /v1/prices/:product_id, cached in
// Redis for a short TTL.
type PriceCheckResponse struct {
	ProductID      string          `json:"product_id"`
	Product        string          `json:"product"`
	BasePrice      decimal.Decimal `json:"base_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	ResolvedAt     string          `json:"resolved_at"`
}
