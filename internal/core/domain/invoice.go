package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus int

const (
	StatusProforma   InvoiceStatus = 0
	StatusDefinitive InvoiceStatus = 1
	StatusCancelled  InvoiceStatus = 2
)

func (s InvoiceStatus) String() string {
	switch s {
	case StatusProforma:
		return "PROFORMA"
	case StatusDefinitive:
		return "DEFINITIVE"
	case StatusCancelled:
		return "CANCELLED"
	}
	return fmt.Sprintf("InvoiceStatus(%d)", int(s))
}

// CanTransitionTo is the invoice state machine guard.
// Proforma -> Definitive | Cancelled; Definitive -> Proforma | Cancelled;
// Cancelled is terminal. Definitive -> Proforma exists only to undo an
// automatic settlement transition when the settling payment is cancelled.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case StatusProforma:
		return target == StatusDefinitive || target == StatusCancelled
	case StatusDefinitive:
		return target == StatusProforma || target == StatusCancelled
	}
	return false
}

// Invoice is the billing record derived from a parcel. Exactly one invoice
// exists per parcel. No tax is applied: AmountTTC always equals AmountHT.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	Reference     string          `json:"reference"` // FCO-MMYY-NNN, monotonic per calendar month
	ParcelID      string          `json:"parcelID"`
	AmountHT      decimal.Decimal `json:"amountHT"`
	AmountTTC     decimal.Decimal `json:"amountTTC"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Status        InvoiceStatus   `json:"status"`
	AutoValidated bool            `json:"autoValidated"` // Definitive was reached by full payment, not explicit validation
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	AuditFields
}

// Remaining returns the unpaid part of the invoice total.
func (i Invoice) Remaining() decimal.Decimal {
	return i.AmountTTC.Sub(i.PaidAmount)
}

// IsSettled reports whether payments cover the invoice total.
func (i Invoice) IsSettled() bool {
	return i.PaidAmount.GreaterThanOrEqual(i.AmountTTC)
}

// ReferencePrefix returns the per-month invoice reference prefix for t,
// e.g. "FCO-0126-" for January 2026.
func ReferencePrefix(t time.Time) string {
	return fmt.Sprintf("FCO-%02d%02d-", int(t.Month()), t.Year()%100)
}

// FormatReference builds a full invoice reference from a date and a
// monotonic per-month sequence number, zero-padded to three digits.
func FormatReference(t time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", ReferencePrefix(t), seq)
}
