package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ellena02/hs-invoice-manager/internal/dto"
	"github.com/ellena02/hs-invoice-manager/internal/service"
	"github.com/ellena02/hs-invoice-manager/internal/utils"
)

// CompanyHandler handles company reads and bad-debt actions
type CompanyHandler struct {
	invoiceService service.InvoiceService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(invoiceService service.InvoiceService) *CompanyHandler {
	return &CompanyHandler{
		invoiceService: invoiceService,
	}
}

// Get fetches a company with its deals, invoices and overdue count.
func (h *CompanyHandler) Get(c *gin.Context) {
	overview, err := h.invoiceService.CompanyOverview(c.Request.Context(), PortalID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// SetBadDebt writes the company bad_debt flag directly.
func (h *CompanyHandler) SetBadDebt(c *gin.Context) {
	var req dto.BadDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if req.BadDebt == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "badDebt field is required",
		})
		return
	}

	portalID := req.PortalID
	if portalID == "" {
		portalID = PortalID(c)
	}

	badDebt := utils.ParseBool(req.BadDebt)
	if err := h.invoiceService.SetCompanyBadDebt(c.Request.Context(), portalID, c.Param("id"), badDebt); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Company bad debt flag updated",
	})
}

// ArchiveInvoice archives one overdue, unpaid invoice and flags the
// company. The overdue/unpaid gate is checked before any write.
func (h *CompanyHandler) ArchiveInvoice(c *gin.Context) {
	result, err := h.invoiceService.ArchiveInvoice(c.Request.Context(), PortalID(c), c.Param("id"), c.Param("invId"))
	if err != nil {
		if result != nil {
			// Partial progress: report what did happen alongside the error.
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Provider error",
				Message: err.Error(),
				Details: result,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ArchiveOverdueInvoices runs the bulk workflow: archive every overdue
// unpaid invoice of the company, then flag the company.
func (h *CompanyHandler) ArchiveOverdueInvoices(c *gin.Context) {
	result, err := h.invoiceService.ArchiveOverdueInvoices(c.Request.Context(), PortalID(c), c.Param("id"))
	if err != nil {
		if result != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Provider error",
				Message: err.Error(),
				Details: result,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
