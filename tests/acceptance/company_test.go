package acceptance

import (
	"net/http"

	"github.com/ellena02/hs-invoice-manager/internal/dto"
	"github.com/ellena02/hs-invoice-manager/internal/service"
)

func (s *Suite) seedCompany() {
	s.HubSpot.putObject("companies", "5001", map[string]string{"name": "Acme Corp", "bad_debt": "false"})
	s.HubSpot.putObject("deals", "3001", map[string]string{"dealname": "Renewal", "amount": "5000"})
	s.HubSpot.associate("companies", "5001", "deals", "3001")

	// One long-overdue open invoice, one not due for years, one paid.
	s.HubSpot.putObject("invoices", "101", map[string]string{
		"hs_invoice_number": "INV-101",
		"hs_invoice_status": "open",
		"hs_due_date":       "2020-01-01",
		"amount":            "250.00",
	})
	s.HubSpot.putObject("invoices", "102", map[string]string{
		"hs_invoice_number": "INV-102",
		"hs_invoice_status": "open",
		"hs_due_date":       "2099-01-01",
		"amount":            "100.00",
	})
	s.HubSpot.putObject("invoices", "103", map[string]string{
		"hs_invoice_number": "INV-103",
		"hs_invoice_status": "paid",
		"hs_due_date":       "2020-01-01",
		"amount":            "300.00",
	})
	s.HubSpot.associate("companies", "5001", "invoices", "101", "102", "103")
	s.HubSpot.associate("invoices", "101", "deals", "3001")
}

func (s *Suite) TestCompanyOverview_NotConnected() {
	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodGet, "/companies/5001", "", nil, &errResp)

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// The service failed closed before touching the CRM.
	s.Zero(s.HubSpot.crmCallCount())
}

func (s *Suite) TestCompanyOverview() {
	cookie := s.connectPortal()
	s.seedCompany()

	var overview service.CompanyOverview
	resp := s.doJSON(http.MethodGet, "/companies/5001", "", cookie, &overview)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Acme Corp", overview.Company.Name)
	s.Len(overview.Deals, 1)
	s.Len(overview.Invoices, 3)
	s.Equal(1, overview.OverdueCount)
	s.Equal("3001", overview.Invoices[0].DealID)
	s.Equal("Renewal", overview.Invoices[0].DealName)
}

func (s *Suite) TestSetCompanyBadDebt() {
	cookie := s.connectPortal()
	s.seedCompany()

	var ok dto.SuccessResponse
	resp := s.doJSON(http.MethodPost, "/companies/5001/bad-debt", `{"badDebt":true}`, cookie, &ok)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("true", s.HubSpot.object("companies", "5001")["bad_debt"])
}

func (s *Suite) TestSetCompanyBadDebt_MissingField() {
	cookie := s.connectPortal()

	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/companies/5001/bad-debt", `{}`, cookie, &errResp)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Validation failed", errResp.Error)
}

func (s *Suite) TestArchiveInvoice() {
	cookie := s.connectPortal()
	s.seedCompany()

	var result service.ArchiveInvoiceResult
	resp := s.doJSON(http.MethodPost, "/companies/5001/invoices/101/archive", "", cookie, &result)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(result.Success)
	s.True(result.Invoice.Updated)
	s.True(result.Company.Updated)
	s.True(s.HubSpot.isArchived("invoices", "101"))
	s.Equal("true", s.HubSpot.object("companies", "5001")["bad_debt"])
}

func (s *Suite) TestArchiveInvoice_NotActionable() {
	cookie := s.connectPortal()
	s.seedCompany()

	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/companies/5001/invoices/102/archive", "", cookie, &errResp)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.False(s.HubSpot.isArchived("invoices", "102"))
}

func (s *Suite) TestArchiveOverdueInvoices() {
	cookie := s.connectPortal()
	s.seedCompany()

	var result service.BulkResult
	resp := s.doJSON(http.MethodPost, "/companies/5001/archive-overdue-invoices", "", cookie, &result)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(result.Success)
	s.Equal(1, result.ArchivedCount)
	s.Equal([]string{"INV-101"}, result.Archived)
	s.Empty(result.Failed)
	s.True(result.CompanyFlagged)

	s.True(s.HubSpot.isArchived("invoices", "101"))
	s.False(s.HubSpot.isArchived("invoices", "102"))
	s.False(s.HubSpot.isArchived("invoices", "103"))
	s.Equal("true", s.HubSpot.object("companies", "5001")["bad_debt"])
}

func (s *Suite) TestCascadeBadDebt() {
	cookie := s.connectPortal()
	s.seedCompany()

	body := `{"companyId":"5001","invoiceId":"101","dealId":"3001"}`
	var result service.CascadeResult
	resp := s.doJSON(http.MethodPost, "/invoices/bad-debt", body, cookie, &result)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(result.Success)
	s.True(result.Invoice.Updated)
	s.True(result.Deal.Updated)
	s.True(result.Company.Updated)

	s.Equal("true", s.HubSpot.object("invoices", "101")["bad_debt"])
	s.Equal("true", s.HubSpot.object("deals", "3001")["bad_debt"])
	s.Equal("true", s.HubSpot.object("companies", "5001")["bad_debt"])
}

func (s *Suite) TestCascadeBadDebt_MissingIDs() {
	cookie := s.connectPortal()

	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/invoices/bad-debt", `{"companyId":"5001"}`, cookie, &errResp)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Validation failed", errResp.Error)
}
