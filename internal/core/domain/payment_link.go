package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentLinkStatus is the lifecycle state of a mobile-money payment link.
type PaymentLinkStatus string

const (
	LinkPending   PaymentLinkStatus = "PENDING"
	LinkPaid      PaymentLinkStatus = "PAID"
	LinkExpired   PaymentLinkStatus = "EXPIRED"
	LinkCancelled PaymentLinkStatus = "CANCELLED"
)

// PaymentLink is a tokenized, time-limited payment request for an invoice,
// settled out of band by a mobile-money provider.
type PaymentLink struct {
	LinkID           string            `json:"linkID"`
	Token            string            `json:"token"`
	InvoiceID        string            `json:"invoiceID"`
	Status           PaymentLinkStatus `json:"status"`
	Amount           decimal.Decimal   `json:"amount"`
	Provider         *string           `json:"provider,omitempty"`
	ProviderMetadata map[string]any    `json:"providerMetadata,omitempty"`
	PaidAt           *time.Time        `json:"paidAt,omitempty"`
	ExpiresAt        time.Time         `json:"expiresAt"`
	AuditFields
}

// IsExpired reports whether the link is past its expiry at the given instant.
func (l PaymentLink) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
