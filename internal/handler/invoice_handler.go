package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ellena02/hs-invoice-manager/internal/dto"
	"github.com/ellena02/hs-invoice-manager/internal/service"
)

// InvoiceHandler handles cross-object invoice actions
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// CascadeBadDebt marks an invoice, its optional deal and the company as
// bad debt. Each write succeeds or fails on its own; callers inspect
// the per-target outcomes in the response.
func (h *InvoiceHandler) CascadeBadDebt(c *gin.Context) {
	var req dto.CascadeBadDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	portalID := req.PortalID
	if portalID == "" {
		portalID = PortalID(c)
	}

	result, err := h.invoiceService.MarkInvoiceBadDebt(c.Request.Context(), portalID, req.CompanyID, req.InvoiceID, req.DealID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
