// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// InsufficientStock is the payload for 409 responses from the invoicing
// saga, identifying the offending product.
type InsufficientStock struct {
	Detail    string `json:"detail"`
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

func NewInsufficientStock(productID string, available, requested int) *InsufficientStock {
	return &InsufficientStock{
		Detail:    "insufficient stock",
		ProductID: productID,
		Available: available,
		Requested: requested,
	}
}
