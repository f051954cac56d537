package handler

import (
	"net/http"

	"retailcore/internal/apierror"
	"retailcore/internal/dto"
	"retailcore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommissionsHandler struct{ svc service.CommissionService }

func NewCommissionsHandler(svc service.CommissionService) *CommissionsHandler {
	return &CommissionsHandler{svc: svc}
}

// ListCommissions godoc
// @Summary      List commission entries
// @Tags         commissions
// @Produce      json
// @Param        salesperson_id query string false "Salesperson UUID"
// @Param        status         query string false "open|paid"
// @Param        page           query int    false "Page (default 1)"
// @Param        limit          query int    false "Page size (default 50)"
// @Success      200 {object} dto.CommissionListResponse
// @Router       /v1/commissions [get]
func (h *CommissionsHandler) ListCommissions(c *gin.Context) {
	var req dto.CommissionFilterRequest
	if !bindQueryAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PayCommission godoc
// @Summary      Mark a commission entry as paid
// @Tags         commissions
// @Produce      json
// @Param        id path string true "Commission entry UUID"
// @Success      200 {object} dto.CommissionEntryResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/commissions/{id}/pay [post]
func (h *CommissionsHandler) PayCommission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Pay(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
