package domain

import (
	"strconv"
	"time"
)

// HubSpot CRM object type names used in API paths.
const (
	ObjectTypeCompany = "companies"
	ObjectTypeDeal    = "deals"
	ObjectTypeInvoice = "invoices"
)

// Invoice status values as reported by HubSpot.
const (
	InvoiceStatusDraft  = "draft"
	InvoiceStatusOpen   = "open"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoided = "voided"
)

// Company is the subset of HubSpot company properties this system reads
// and writes. BadDebt is the only property ever written.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BadDebt bool   `json:"bad_debt"`
}

// Deal is read-mostly; BadDebt may be written during a cascade mark.
type Deal struct {
	ID        string `json:"id"`
	DealName  string `json:"dealname"`
	Amount    string `json:"amount"`
	DealStage string `json:"dealstage"`
	CloseDate string `json:"closedate"`
	BadDebt   bool   `json:"bad_debt"`
}

// Invoice is the classification target. Status and DueDate come back from
// HubSpot as denormalized strings; DueDate uses the 2006-01-02 layout.
type Invoice struct {
	ID            string `json:"id"`
	Number        string `json:"hs_invoice_number"`
	Status        string `json:"hs_invoice_status"`
	DueDate       string `json:"hs_due_date"`
	Amount        string `json:"amount"`
	AmountPaid    string `json:"hs_amount_paid,omitempty"`
	PaymentStatus string `json:"hs_payment_status,omitempty"`
	DealID        string `json:"deal_id,omitempty"`
	DealName      string `json:"deal_name,omitempty"`
	BadDebt       bool   `json:"bad_debt"`
}

const dueDateLayout = "2006-01-02"

// IsOverdue reports whether the invoice is open with a due date strictly
// before the reference date. Invoices without a parseable due date are
// never overdue, regardless of status.
func (i Invoice) IsOverdue(today time.Time) bool {
	if i.Status != InvoiceStatusOpen {
		return false
	}
	if i.DueDate == "" {
		return false
	}
	due, err := time.ParseInLocation(dueDateLayout, i.DueDate, today.Location())
	if err != nil {
		return false
	}
	return due.Before(today)
}

// IsPaid reports whether any of the payment signals mark the invoice as
// settled. HubSpot denormalizes payment data across several properties,
// so all of them are consulted.
func (i Invoice) IsPaid() bool {
	if i.Status == InvoiceStatusPaid || i.PaymentStatus == "paid" {
		return true
	}
	if paid, err := strconv.ParseFloat(i.AmountPaid, 64); err == nil && paid > 0 {
		return true
	}
	return false
}

// Today truncates the given instant to midnight in its own location.
// Captured once per request so every invoice in one response is
// classified against the same reference date.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
