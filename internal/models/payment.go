package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a payment row. Status is a smallint:
// 0 cancelled, 1 validated.
type Payment struct {
	PaymentID         string          `db:"payment_id"`
	InvoiceID         string          `db:"invoice_id"`
	Amount            decimal.Decimal `db:"amount"`
	ChangeGiven       decimal.Decimal `db:"change_given"`
	Mode              string          `db:"mode"`
	ExternalReference *string         `db:"external_reference"` // Nullable
	PaymentDate       time.Time       `db:"payment_date"`
	Status            int             `db:"status"`
	AuditFields
}

// PaymentLink represents a mobile-money payment link row.
type PaymentLink struct {
	LinkID           string          `db:"link_id"`
	Token            string          `db:"token"`
	InvoiceID        string          `db:"invoice_id"`
	Status           string          `db:"status"`
	Amount           decimal.Decimal `db:"amount"`
	Provider         *string         `db:"provider"`          // Nullable
	ProviderMetadata map[string]any  `db:"provider_metadata"` // JSONB, nullable
	PaidAt           *time.Time      `db:"paid_at"`           // Nullable
	ExpiresAt        time.Time       `db:"expires_at"`
	AuditFields
}
