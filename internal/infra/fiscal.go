package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// EmitPayload is sent by the worker pool to the fiscal gateway sidecar,
// which talks to the tax authority and returns the authorization code.
type EmitPayload struct {
	TaxID    string  `json:"tax_id"`
	Terminal int     `json:"terminal"`
	DocType  int     `json:"doc_type"`
	Net      float64 `json:"net"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	SaleID   string  `json:"sale_id"`
}

// EmitResponse is returned by the sidecar after the authority call.
type EmitResponse struct {
	AuthCode       string `json:"auth_code"`
	AuthExpiration string `json:"auth_expiration"` // YYYYMMDD
	Result         string `json:"result"`          // "A" (approved) | "R" (rejected)
	Notes          []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"notes"`
}

// FiscalClient is an HTTP client that delegates tax-authority communication
// to the sidecar. The decoupling keeps authority outages away from the core.
type FiscalClient struct {
	gatewayURL string
	httpClient *http.Client
}

func NewFiscalClient(gatewayURL string) *FiscalClient {
	return &FiscalClient{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Emit sends a POST to the gateway and returns the authorization response.
func (c *FiscalClient) Emit(ctx context.Context, payload EmitPayload) (*EmitResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("fiscal: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/emit", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fiscal: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fiscal: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fiscal: gateway returned %d", resp.StatusCode)
	}

	var result EmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("fiscal: decode response: %w", err)
	}
	return &result, nil
}
