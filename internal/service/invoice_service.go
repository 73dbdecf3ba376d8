package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ellena02/hs-invoice-manager/internal/domain"
	"github.com/ellena02/hs-invoice-manager/internal/utils"
	"github.com/ellena02/hs-invoice-manager/pkg/hubspot"
)

var (
	companyProperties = []string{"name", "bad_debt"}
	dealProperties    = []string{"dealname", "amount", "dealstage", "closedate", "bad_debt"}
	invoiceProperties = []string{"hs_invoice_number", "hs_invoice_status", "hs_due_date", "amount", "hs_amount_paid", "hs_payment_status", "bad_debt"}
)

// invoiceService implements InvoiceService
type invoiceService struct {
	resolver GatewayResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewInvoiceService creates a new invoice workflow service
func NewInvoiceService(resolver GatewayResolver, logger *zap.Logger) InvoiceService {
	return &invoiceService{
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// CompanyOverview fetches a company with its associated deals and
// invoices and counts the overdue ones. Per-item fetch failures on this
// read path are logged and the item omitted, never propagated.
func (s *invoiceService) CompanyOverview(ctx context.Context, portalID, companyID string) (*CompanyOverview, error) {
	if companyID == "" {
		return nil, ErrMissingIdentifier
	}

	gw, err := s.resolver.ResolveGateway(ctx, portalID)
	if err != nil {
		return nil, err
	}

	companyObj, err := gw.GetObject(ctx, domain.ObjectTypeCompany, companyID, companyProperties)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company %s: %w", companyID, err)
	}

	overview := &CompanyOverview{
		Company:  companyFromObject(companyObj),
		Deals:    []domain.Deal{},
		Invoices: []domain.Invoice{},
	}

	dealsByID := make(map[string]domain.Deal)
	dealIDs, err := gw.ListAssociations(ctx, domain.ObjectTypeCompany, companyID, domain.ObjectTypeDeal)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal associations: %w", err)
	}
	for _, id := range dealIDs {
		obj, err := gw.GetObject(ctx, domain.ObjectTypeDeal, id, dealProperties)
		if err != nil {
			s.logger.Warn("Skipping deal that failed to fetch",
				zap.String("deal_id", id), zap.Error(err))
			continue
		}
		deal := dealFromObject(obj)
		dealsByID[deal.ID] = deal
		overview.Deals = append(overview.Deals, deal)
	}

	invoiceIDs, err := gw.ListAssociations(ctx, domain.ObjectTypeCompany, companyID, domain.ObjectTypeInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice associations: %w", err)
	}

	// One reference date for the whole response.
	today := domain.Today(s.now())

	for _, id := range invoiceIDs {
		obj, err := gw.GetObject(ctx, domain.ObjectTypeInvoice, id, invoiceProperties)
		if err != nil {
			s.logger.Warn("Skipping invoice that failed to fetch",
				zap.String("invoice_id", id), zap.Error(err))
			continue
		}
		inv := invoiceFromObject(obj)
		s.attachDeal(ctx, gw, &inv, dealsByID)
		if inv.IsOverdue(today) {
			overview.OverdueCount++
		}
		overview.Invoices = append(overview.Invoices, inv)
	}

	return overview, nil
}

// attachDeal looks up the invoice's deal association and annotates the
// invoice with the deal id and name. Best effort on the read path.
func (s *invoiceService) attachDeal(ctx context.Context, gw hubspot.Gateway, inv *domain.Invoice, dealsByID map[string]domain.Deal) {
	dealIDs, err := gw.ListAssociations(ctx, domain.ObjectTypeInvoice, inv.ID, domain.ObjectTypeDeal)
	if err != nil || len(dealIDs) == 0 {
		return
	}
	inv.DealID = dealIDs[0]
	if deal, ok := dealsByID[inv.DealID]; ok {
		inv.DealName = deal.DealName
	}
}

// SetCompanyBadDebt writes the company's bad_debt flag directly.
func (s *invoiceService) SetCompanyBadDebt(ctx context.Context, portalID, companyID string, badDebt bool) error {
	if companyID == "" {
		return ErrMissingIdentifier
	}

	gw, err := s.resolver.ResolveGateway(ctx, portalID)
	if err != nil {
		return err
	}

	props := map[string]string{"bad_debt": utils.BoolProperty(badDebt)}
	if err := gw.UpdateObject(ctx, domain.ObjectTypeCompany, companyID, props); err != nil {
		return fmt.Errorf("failed to update company %s: %w", companyID, err)
	}
	return nil
}

// ArchiveInvoice archives one invoice and then flags the company.
// Gated client-side: the invoice must classify as overdue and unpaid
// before any remote write is attempted.
func (s *invoiceService) ArchiveInvoice(ctx context.Context, portalID, companyID, invoiceID string) (*ArchiveInvoiceResult, error) {
	if companyID == "" || invoiceID == "" {
		return nil, ErrMissingIdentifier
	}

	gw, err := s.resolver.ResolveGateway(ctx, portalID)
	if err != nil {
		return nil, err
	}

	obj, err := gw.GetObject(ctx, domain.ObjectTypeInvoice, invoiceID, invoiceProperties)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice %s: %w", invoiceID, err)
	}
	inv := invoiceFromObject(obj)

	today := domain.Today(s.now())
	if !inv.IsOverdue(today) || inv.IsPaid() {
		return nil, ErrInvoiceNotActionable
	}

	result := &ArchiveInvoiceResult{}

	result.Invoice.Attempted = true
	if err := gw.ArchiveObject(ctx, domain.ObjectTypeInvoice, invoiceID); err != nil {
		result.Invoice.Reason = err.Error()
		return result, fmt.Errorf("failed to archive invoice %s: %w", invoiceID, err)
	}
	result.Invoice.Updated = true

	result.Company.Attempted = true
	props := map[string]string{"bad_debt": utils.BoolProperty(true)}
	if err := gw.UpdateObject(ctx, domain.ObjectTypeCompany, companyID, props); err != nil {
		result.Company.Reason = err.Error()
		return result, fmt.Errorf("failed to flag company %s: %w", companyID, err)
	}
	result.Company.Updated = true

	result.Success = true
	return result, nil
}

// MarkInvoiceBadDebt cascades a bad_debt write to the invoice, the
// optional deal and the company. Each write is independent; the result
// enumerates exactly which targets were updated and the top-level flag
// stays true even under partial attribution.
func (s *invoiceService) MarkInvoiceBadDebt(ctx context.Context, portalID, companyID, invoiceID, dealID string) (*CascadeResult, error) {
	if companyID == "" || invoiceID == "" {
		return nil, ErrMissingIdentifier
	}

	gw, err := s.resolver.ResolveGateway(ctx, portalID)
	if err != nil {
		return nil, err
	}

	props := map[string]string{"bad_debt": utils.BoolProperty(true)}
	result := &CascadeResult{Success: true}

	result.Invoice = s.markTarget(ctx, gw, domain.ObjectTypeInvoice, invoiceID, props)
	if dealID != "" {
		result.Deal = s.markTarget(ctx, gw, domain.ObjectTypeDeal, dealID, props)
	}
	result.Company = s.markTarget(ctx, gw, domain.ObjectTypeCompany, companyID, props)

	return result, nil
}

func (s *invoiceService) markTarget(ctx context.Context, gw hubspot.Gateway, objectType, id string, props map[string]string) WriteOutcome {
	outcome := WriteOutcome{Attempted: true}
	if err := gw.UpdateObject(ctx, objectType, id, props); err != nil {
		s.logger.Warn("Bad-debt write failed",
			zap.String("object_type", objectType),
			zap.String("object_id", id),
			zap.Error(err),
		)
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.Updated = true
	return outcome
}

// ArchiveOverdueInvoices archives every invoice of the company that
// classifies as overdue and unpaid, then flags the company. Per-item
// failures are collected, not propagated; the final company write is
// attempted regardless and its failure fails the overall operation.
// Side effects already applied are never rolled back.
func (s *invoiceService) ArchiveOverdueInvoices(ctx context.Context, portalID, companyID string) (*BulkResult, error) {
	if companyID == "" {
		return nil, ErrMissingIdentifier
	}

	gw, err := s.resolver.ResolveGateway(ctx, portalID)
	if err != nil {
		return nil, err
	}

	invoiceIDs, err := gw.ListAssociations(ctx, domain.ObjectTypeCompany, companyID, domain.ObjectTypeInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice associations: %w", err)
	}

	today := domain.Today(s.now())
	result := &BulkResult{Archived: []string{}, Failed: []BulkFailure{}}

	for _, id := range invoiceIDs {
		obj, err := gw.GetObject(ctx, domain.ObjectTypeInvoice, id, invoiceProperties)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{
				Number: id,
				Reason: fmt.Sprintf("fetch failed: %v", err),
			})
			continue
		}

		inv := invoiceFromObject(obj)
		if !inv.IsOverdue(today) || inv.IsPaid() {
			continue
		}

		number := inv.Number
		if number == "" {
			number = inv.ID
		}

		if err := gw.ArchiveObject(ctx, domain.ObjectTypeInvoice, inv.ID); err != nil {
			result.Failed = append(result.Failed, BulkFailure{
				Number: number,
				Reason: err.Error(),
			})
			continue
		}
		result.Archived = append(result.Archived, number)
	}
	result.ArchivedCount = len(result.Archived)

	// The company flag write runs even when every archive failed.
	props := map[string]string{"bad_debt": utils.BoolProperty(true)}
	if err := gw.UpdateObject(ctx, domain.ObjectTypeCompany, companyID, props); err != nil {
		result.Message = fmt.Sprintf("archived %d invoice(s) but failed to flag company: %v", result.ArchivedCount, err)
		return result, fmt.Errorf("failed to flag company %s: %w", companyID, err)
	}
	result.CompanyFlagged = true
	result.Success = true
	result.Message = fmt.Sprintf("archived %d overdue invoice(s), %d failure(s), company flagged as bad debt",
		result.ArchivedCount, len(result.Failed))

	return result, nil
}

func companyFromObject(obj *hubspot.Object) domain.Company {
	return domain.Company{
		ID:      obj.ID,
		Name:    obj.Property("name"),
		BadDebt: utils.ParseBool(obj.Property("bad_debt")),
	}
}

func dealFromObject(obj *hubspot.Object) domain.Deal {
	return domain.Deal{
		ID:        obj.ID,
		DealName:  obj.Property("dealname"),
		Amount:    obj.Property("amount"),
		DealStage: obj.Property("dealstage"),
		CloseDate: obj.Property("closedate"),
		BadDebt:   utils.ParseBool(obj.Property("bad_debt")),
	}
}

func invoiceFromObject(obj *hubspot.Object) domain.Invoice {
	return domain.Invoice{
		ID:            obj.ID,
		Number:        obj.Property("hs_invoice_number"),
		Status:        obj.Property("hs_invoice_status"),
		DueDate:       obj.Property("hs_due_date"),
		Amount:        obj.Property("amount"),
		AmountPaid:    obj.Property("hs_amount_paid"),
		PaymentStatus: obj.Property("hs_payment_status"),
		BadDebt:       utils.ParseBool(obj.Property("bad_debt")),
	}
}
