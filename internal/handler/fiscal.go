package handler

import (
	"net/http"

	"retailcore/internal/apierror"
	"retailcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FiscalHandler struct{ svc service.FiscalService }

func NewFiscalHandler(svc service.FiscalService) *FiscalHandler {
	return &FiscalHandler{svc: svc}
}

// GetSaleFiscalDocument godoc
// @Summary      Get the fiscal document of a sale
// @Tags         fiscal
// @Produce      json
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.FiscalDocumentResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id}/fiscal [get]
func (h *FiscalHandler) GetSaleFiscalDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetBySaleID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("no fiscal document for this sale"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RetryFiscalDocument godoc
// @Summary      Reschedule a stuck fiscal document
// @Description  Resets the retry counter so the retry cron picks the document up on its next tick.
// @Tags         fiscal
// @Produce      json
// @Param        id path string true "Fiscal document UUID"
// @Success      200 {object} dto.FiscalDocumentResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/fiscal/{id}/retry [post]
func (h *FiscalHandler) RetryFiscalDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Retry(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
