package handler

import (
	"net/http"

	"retailcore/internal/apierror"
	"retailcore/internal/dto"
	"retailcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceivablesHandler struct{ svc service.ReceivableService }

func NewReceivablesHandler(svc service.ReceivableService) *ReceivablesHandler {
	return &ReceivablesHandler{svc: svc}
}

// GetReceivable godoc
// @Summary      Get a receivable account with its installments
// @Tags         receivables
// @Produce      json
// @Param        id path string true "Receivable account UUID"
// @Success      200 {object} dto.ReceivableAccountResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/receivables/{id} [get]
func (h *ReceivablesHandler) GetReceivable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("receivable account not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSaleReceivable godoc
// @Summary      Get the receivable account of a sale
// @Tags         receivables
// @Produce      json
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.ReceivableAccountResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id}/receivable [get]
func (h *ReceivablesHandler) GetSaleReceivable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetBySaleID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("no receivable account for this sale"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PayInstallment godoc
// @Summary      Pay an installment
// @Description  Records the payment and re-derives the account status (open, partial, paid).
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        id   path string true "Installment UUID"
// @Param        body body dto.PayInstallmentRequest true "Payment"
// @Success      200  {object} dto.ReceivableAccountResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/installments/{id}/pay [post]
func (h *ReceivablesHandler) PayInstallment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.PayInstallmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PayInstallment(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
