package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ellena02/hs-invoice-manager/internal/dto"
	"github.com/ellena02/hs-invoice-manager/internal/service"
	"github.com/ellena02/hs-invoice-manager/internal/utils"
)

// AuthHandler handles the OAuth connect/callback/status/disconnect flow
type AuthHandler struct {
	oauthService service.OAuthService
	sessions     *utils.SessionManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(oauthService service.OAuthService, sessions *utils.SessionManager) *AuthHandler {
	return &AuthHandler{
		oauthService: oauthService,
		sessions:     sessions,
	}
}

// Start begins the authorization flow: issues a CSRF state and
// redirects the browser to HubSpot.
func (h *AuthHandler) Start(c *gin.Context) {
	authURL, err := h.oauthService.AuthorizeURL(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// Callback completes the authorization flow: validates the state,
// exchanges the code, persists the token and issues the portal session
// cookie.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "code and state query parameters are required",
		})
		return
	}

	portalID, err := h.oauthService.CompleteCallback(c.Request.Context(), code, state)
	if err != nil {
		respondError(c, err)
		return
	}

	if session, err := h.sessions.IssueSession(portalID); err == nil {
		c.SetCookie(SessionCookieName, session, h.sessions.TTLSeconds(), "/", "", true, true)
	}

	c.JSON(http.StatusOK, dto.CallbackResponse{
		Status:   "connected",
		PortalID: portalID,
	})
}

// Status reports the connection state for the resolved portal. No side
// effects and no provider calls.
func (h *AuthHandler) Status(c *gin.Context) {
	status, err := h.oauthService.Status(c.Request.Context(), PortalID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Disconnect deletes the stored token for the portal. Idempotent: a
// second call for the same portal also succeeds.
func (h *AuthHandler) Disconnect(c *gin.Context) {
	var req dto.DisconnectRequest
	// Body is optional; the portal can come from the session instead.
	_ = c.ShouldBindJSON(&req)

	portalID := req.PortalID
	if portalID == "" {
		portalID = PortalID(c)
	}
	if portalID == "" {
		respondError(c, service.ErrMissingIdentifier)
		return
	}

	if err := h.oauthService.Disconnect(c.Request.Context(), portalID); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", true, true)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Disconnected successfully",
	})
}
