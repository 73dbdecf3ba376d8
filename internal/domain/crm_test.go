package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInvoiceIsOverdue(t *testing.T) {
	ref := date(2025, time.June, 1)

	tests := []struct {
		name    string
		invoice Invoice
		want    bool
	}{
		{
			name:    "open and past due",
			invoice: Invoice{Status: InvoiceStatusOpen, DueDate: "2024-11-20"},
			want:    true,
		},
		{
			name:    "open and due in the future",
			invoice: Invoice{Status: InvoiceStatusOpen, DueDate: "2099-01-01"},
			want:    false,
		},
		{
			name:    "paid is never overdue regardless of due date",
			invoice: Invoice{Status: InvoiceStatusPaid, DueDate: "2024-11-15"},
			want:    false,
		},
		{
			name:    "draft is never overdue",
			invoice: Invoice{Status: InvoiceStatusDraft, DueDate: "2020-01-01"},
			want:    false,
		},
		{
			name:    "voided is never overdue",
			invoice: Invoice{Status: InvoiceStatusVoided, DueDate: "2020-01-01"},
			want:    false,
		},
		{
			name:    "missing due date is never overdue",
			invoice: Invoice{Status: InvoiceStatusOpen},
			want:    false,
		},
		{
			name:    "unparseable due date is never overdue",
			invoice: Invoice{Status: InvoiceStatusOpen, DueDate: "soon"},
			want:    false,
		},
		{
			name:    "due exactly on the reference date is not overdue",
			invoice: Invoice{Status: InvoiceStatusOpen, DueDate: "2025-06-01"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.invoice.IsOverdue(ref))
		})
	}
}

func TestInvoiceIsOverdueDeterministic(t *testing.T) {
	ref := date(2025, time.June, 1)
	inv := Invoice{Status: InvoiceStatusOpen, DueDate: "2024-11-20"}

	first := inv.IsOverdue(ref)
	second := inv.IsOverdue(ref)

	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestInvoiceIsPaid(t *testing.T) {
	assert.True(t, Invoice{Status: InvoiceStatusPaid}.IsPaid())
	assert.True(t, Invoice{Status: InvoiceStatusOpen, PaymentStatus: "paid"}.IsPaid())
	assert.True(t, Invoice{Status: InvoiceStatusOpen, AmountPaid: "10.50"}.IsPaid())
	assert.False(t, Invoice{Status: InvoiceStatusOpen, AmountPaid: "0"}.IsPaid())
	assert.False(t, Invoice{Status: InvoiceStatusOpen, AmountPaid: ""}.IsPaid())
	assert.False(t, Invoice{Status: InvoiceStatusOpen}.IsPaid())
}

func TestToday(t *testing.T) {
	now := time.Date(2025, time.June, 1, 17, 42, 13, 999, time.UTC)

	got := Today(now)

	assert.Equal(t, date(2025, time.June, 1), got)
	// Derived date lives in the same location as the input instant.
	assert.Equal(t, now.Location(), got.Location())
}
