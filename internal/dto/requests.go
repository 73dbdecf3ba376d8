package dto

// BadDebtRequest sets a company's bad_debt flag. The frontend has
// historically sent the flag as bool, string or number, so the field is
// loosely typed and coerced once at the boundary.
type BadDebtRequest struct {
	BadDebt  any    `json:"badDebt"`
	PortalID string `json:"portalId"`
}

// CascadeBadDebtRequest marks an invoice (and optionally its deal) plus
// the owning company as bad debt.
type CascadeBadDebtRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
	InvoiceID string `json:"invoiceId" binding:"required"`
	DealID    string `json:"dealId"`
	PortalID  string `json:"portalId"`
}

// DisconnectRequest removes the stored token for a portal.
type DisconnectRequest struct {
	PortalID string `json:"portalId"`
}
