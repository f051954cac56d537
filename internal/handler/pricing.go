package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"retailcore/internal/apierror"
	"retailcore/internal/dto"
	"retailcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PricingHandler serves the price check endpoint. Resolution walks the
// active price tables and promotions, so results are cached in Redis for a
// short TTL to keep the endpoint cheap.
type PricingHandler struct {
	svc      service.PricingService
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewPricingHandler(svc service.PricingService, rdb *redis.Client, cacheTTL time.Duration) *PricingHandler {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &PricingHandler{svc: svc, rdb: rdb, cacheTTL: cacheTTL}
}

// CheckPrice godoc
// @Summary      Check the effective price of a product
// @Description  Resolves price tables by priority and applies the best active promotion. Read-only, no side effects.
// @Tags         pricing
// @Produce      json
// @Param        product_id path string true "Product UUID"
// @Success      200 {object} dto.PriceCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/prices/{product_id} [get]
func (h *PricingHandler) CheckPrice(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}

	ctx := c.Request.Context()
	cacheKey := "price:" + productID.String()

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.PriceCheckResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss — resolve
	resp, err := h.svc.CheckPrice(ctx, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, h.cacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
