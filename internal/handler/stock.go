package handler

import (
	"net/http"

	"retailcore/internal/apierror"
	"retailcore/internal/dto"
	"retailcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// RegisterMovement godoc
// @Summary      Register a stock entry or adjustment
// @Description  Entries carry a unit cost that feeds the weighted-average recompute. Exits are only produced by invoicing.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body body dto.RegisterMovementRequest true "Movement"
// @Success      201  {object} dto.MovementResponse
// @Failure      400  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *gin.Context) {
	var req dto.RegisterMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegisterMovement(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMovements godoc
// @Summary      List stock movements
// @Tags         stock
// @Produce      json
// @Param        product_id query string false "Product UUID"
// @Param        kind       query string false "entry|exit|adjustment"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Page size (default 100)"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	var req dto.MovementFilterRequest
	if !bindQueryAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger godoc
// @Summary      Get a product's stock ledger
// @Tags         stock
// @Produce      json
// @Param        product_id path string true "Product UUID"
// @Success      200 {object} dto.LedgerResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/stock/ledger/{product_id} [get]
func (h *StockHandler) GetLedger(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	resp, err := h.svc.Ledger(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAlerts godoc
// @Summary      List products at or below their minimum stock
// @Tags         stock
// @Produce      json
// @Success      200 {array} dto.LowStockAlertResponse
// @Router       /v1/stock/alerts [get]
func (h *StockHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.svc.LowStockAlerts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
