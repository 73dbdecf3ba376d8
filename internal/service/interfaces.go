package service

import (
	"context"
	"time"

	"github.com/ellena02/hs-invoice-manager/internal/domain"
	"github.com/ellena02/hs-invoice-manager/pkg/hubspot"
)

// ConnectionStatus reports whether a portal has a stored token set.
// Reading it never triggers provider calls.
type ConnectionStatus struct {
	Connected      bool       `json:"connected"`
	PortalID       string     `json:"portal_id,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	StaticFallback bool       `json:"static_fallback"`
}

// GatewayResolver resolves a portal id into an authenticated CRM
// gateway, refreshing the stored token transparently when stale.
type GatewayResolver interface {
	ResolveGateway(ctx context.Context, portalID string) (hubspot.Gateway, error)
}

// OAuthService orchestrates the HubSpot authorization-code flow and the
// token lifecycle for connected portals.
type OAuthService interface {
	GatewayResolver
	AuthorizeURL(ctx context.Context) (string, error)
	CompleteCallback(ctx context.Context, code, state string) (portalID string, err error)
	Status(ctx context.Context, portalID string) (*ConnectionStatus, error)
	Disconnect(ctx context.Context, portalID string) error
}

// StateRegistry guards the OAuth redirect step with single-use,
// time-limited opaque states.
type StateRegistry interface {
	// Issue generates and remembers a new state token.
	Issue(ctx context.Context) (string, error)
	// Consume removes the state unconditionally and reports
	// ErrInvalidState unless it was present and within its window.
	Consume(ctx context.Context, state string) error
}

// WriteOutcome is the per-target result of one remote mutation inside a
// cascade or bulk action.
type WriteOutcome struct {
	Attempted bool   `json:"attempted"`
	Updated   bool   `json:"updated"`
	Reason    string `json:"reason,omitempty"`
}

// CascadeResult aggregates the independent bad-debt writes to invoice,
// deal and company. Success reflects that the cascade ran; callers must
// inspect the per-target outcomes, not just the top-level flag.
type CascadeResult struct {
	Success bool         `json:"success"`
	Invoice WriteOutcome `json:"invoice"`
	Deal    WriteOutcome `json:"deal"`
	Company WriteOutcome `json:"company"`
}

// BulkFailure is one failed item in a bulk archive run.
type BulkFailure struct {
	Number string `json:"number"`
	Reason string `json:"reason"`
}

// BulkResult is the outcome of archiving a company's overdue invoices.
// A partial-failure batch: one item's failure never aborts the rest.
type BulkResult struct {
	Success        bool          `json:"success"`
	ArchivedCount  int           `json:"archived_count"`
	Archived       []string      `json:"archived"`
	Failed         []BulkFailure `json:"failed"`
	CompanyFlagged bool          `json:"company_flagged"`
	Message        string        `json:"message"`
}

// ArchiveInvoiceResult reports the single-invoice archive action and
// the follow-up company flag write.
type ArchiveInvoiceResult struct {
	Success bool         `json:"success"`
	Invoice WriteOutcome `json:"invoice"`
	Company WriteOutcome `json:"company"`
}

// CompanyOverview is the read-path aggregate for one company.
type CompanyOverview struct {
	Company      domain.Company   `json:"company"`
	Deals        []domain.Deal    `json:"deals"`
	Invoices     []domain.Invoice `json:"invoices"`
	OverdueCount int              `json:"overdue_count"`
}

// InvoiceService applies the overdue classification rules and runs the
// remote mutation workflows against the CRM.
type InvoiceService interface {
	CompanyOverview(ctx context.Context, portalID, companyID string) (*CompanyOverview, error)
	SetCompanyBadDebt(ctx context.Context, portalID, companyID string, badDebt bool) error
	ArchiveInvoice(ctx context.Context, portalID, companyID, invoiceID string) (*ArchiveInvoiceResult, error)
	MarkInvoiceBadDebt(ctx context.Context, portalID, companyID, invoiceID, dealID string) (*CascadeResult, error)
	ArchiveOverdueInvoices(ctx context.Context, portalID, companyID string) (*BulkResult, error)
}
