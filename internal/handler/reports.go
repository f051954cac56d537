package handler

import (
	"net/http"

	"retailcore/internal/dto"
	"retailcore/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// DailySales godoc
// @Summary      Sales summary for the current day
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.DailySalesReportResponse
// @Router       /v1/reports/sales/daily [get]
func (h *ReportsHandler) DailySales(c *gin.Context) {
	resp, err := h.svc.DailySales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MonthlySales godoc
// @Summary      Sales summary for the current month
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.MonthlySalesReportResponse
// @Router       /v1/reports/sales/monthly [get]
func (h *ReportsHandler) MonthlySales(c *gin.Context) {
	resp, err := h.svc.MonthlySales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockValuation godoc
// @Summary      Current stock valued at weighted average cost
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.StockValuationResponse
// @Router       /v1/reports/stock/valuation [get]
func (h *ReportsHandler) StockValuation(c *gin.Context) {
	resp, err := h.svc.StockValuation(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InvoicedCost godoc
// @Summary      Cost of goods invoiced over a period
// @Tags         reports
// @Produce      json
// @Param        from query string true "Period start (YYYY-MM-DD, inclusive)"
// @Param        to   query string true "Period end (YYYY-MM-DD, inclusive)"
// @Success      200 {object} dto.InvoicedCostReportResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reports/stock/invoiced-cost [get]
func (h *ReportsHandler) InvoicedCost(c *gin.Context) {
	var req dto.InvoicedCostReportRequest
	if !bindQueryAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.InvoicedCost(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
