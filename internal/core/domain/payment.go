package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is how a payment was made. Term modes record deferred
// settlement agreements (30/45/60/90 days).
type PaymentMode string

const (
	ModeEspeces    PaymentMode = "ESPECES"
	ModeCheque     PaymentMode = "CHEQUE"
	ModeVirement   PaymentMode = "VIREMENT"
	ModeEcheance30 PaymentMode = "ECHEANCE_30"
	ModeEcheance45 PaymentMode = "ECHEANCE_45"
	ModeEcheance60 PaymentMode = "ECHEANCE_60"
	ModeEcheance90 PaymentMode = "ECHEANCE_90"
)

// IsValid reports whether m is a member of the payment mode enum.
func (m PaymentMode) IsValid() bool {
	switch m {
	case ModeEspeces, ModeCheque, ModeVirement,
		ModeEcheance30, ModeEcheance45, ModeEcheance60, ModeEcheance90:
		return true
	}
	return false
}

// MovementKind maps the payment mode to the cash-movement kind its inflow
// is recorded under. The mapping is explicit per enum value; term payments
// are treated as cash inflows at settlement time.
func (m PaymentMode) MovementKind() MovementKind {
	switch m {
	case ModeCheque:
		return KindEntreeCheque
	case ModeVirement:
		return KindEntreeVirement
	default:
		return KindEntreeEspece
	}
}

// PaymentStatus is the validation state of a payment.
type PaymentStatus int

const (
	PaymentCancelled PaymentStatus = 0
	PaymentValidated PaymentStatus = 1
)

// Payment is a single payment recorded against an invoice.
type Payment struct {
	PaymentID         string          `json:"paymentID"`
	InvoiceID         string          `json:"invoiceID"`
	Amount            decimal.Decimal `json:"amount"`
	ChangeGiven       decimal.Decimal `json:"changeGiven"`
	Mode              PaymentMode     `json:"mode"`
	ExternalReference *string         `json:"externalReference,omitempty"`
	PaymentDate       time.Time       `json:"paymentDate"`
	Status            PaymentStatus   `json:"status"`
	AuditFields
}
