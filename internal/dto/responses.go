package dto

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// CallbackResponse confirms a completed authorization flow.
type CallbackResponse struct {
	Status   string `json:"status"`
	PortalID string `json:"portal_id"`
}

// HealthResponse reports liveness plus config-presence flags, without
// touching the CRM.
type HealthResponse struct {
	Status          string          `json:"status"`
	OAuthConfigured bool            `json:"oauth_configured"`
	StaticFallback  bool            `json:"static_fallback"`
	RedirectURLSet  bool            `json:"redirect_url_set"`
	Storage         map[string]bool `json:"storage"`
}
