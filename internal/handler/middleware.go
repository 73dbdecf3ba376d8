package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ellena02/hs-invoice-manager/internal/utils"
)

// SessionCookieName carries the signed portal session issued after a
// completed authorization flow.
const SessionCookieName = "hs_session"

const portalIDKey = "portal_id"

// PortalMiddleware resolves the tenant for a request. An explicit
// portalId query parameter or X-Portal-ID header wins; otherwise the
// signed session cookie is consulted. Absence is not an error here:
// endpoints that cannot proceed without a portal fail closed themselves.
func PortalMiddleware(sessions *utils.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if portalID := c.Query("portalId"); portalID != "" {
			c.Set(portalIDKey, portalID)
			c.Next()
			return
		}
		if portalID := c.GetHeader("X-Portal-ID"); portalID != "" {
			c.Set(portalIDKey, portalID)
			c.Next()
			return
		}

		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			if portalID, err := sessions.VerifySession(cookie); err == nil {
				c.Set(portalIDKey, portalID)
			}
		}

		c.Next()
	}
}

// PortalID returns the resolved portal id for the request, or "".
func PortalID(c *gin.Context) string {
	return c.GetString(portalIDKey)
}
