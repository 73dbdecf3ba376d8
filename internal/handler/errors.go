package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ellena02/hs-invoice-manager/internal/dto"
	"github.com/ellena02/hs-invoice-manager/internal/service"
	"github.com/ellena02/hs-invoice-manager/pkg/hubspot"
)

// respondError maps the service failure taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Configuration error",
			Message: "HubSpot OAuth app is not configured; set HUBSPOT_CLIENT_ID, HUBSPOT_CLIENT_SECRET and HUBSPOT_REDIRECT_URL",
		})
	case errors.Is(err, service.ErrNotConnected):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Not connected",
			Message: "No HubSpot credentials available; connect the portal via /auth/start",
		})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid state",
			Message: "OAuth state is missing, expired or already used; restart the authorization flow",
		})
	case errors.Is(err, service.ErrMissingIdentifier):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Missing identifier",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvoiceNotActionable):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Precondition failed",
			Message: err.Error(),
		})
	default:
		var apiErr *hubspot.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Provider error",
				Message: apiErr.Message,
				Details: gin.H{"status_code": apiErr.StatusCode, "category": apiErr.Category},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
	}
}

// respondValidationError surfaces the first binding violation.
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Validation failed",
		Message: err.Error(),
	})
}
