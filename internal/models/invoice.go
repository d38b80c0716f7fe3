package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents an invoice row. Status is a smallint:
// 0 proforma, 1 definitive, 2 cancelled.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	Reference     string          `db:"reference"`
	ParcelID      string          `db:"parcel_id"`
	AmountHT      decimal.Decimal `db:"amount_ht"`
	AmountTTC     decimal.Decimal `db:"amount_ttc"`
	PaidAmount    decimal.Decimal `db:"paid_amount"`
	Status        int             `db:"status"`
	AutoValidated bool            `db:"auto_validated"`
	CurrencyCode  string          `db:"currency_code"`
	ExchangeRate  decimal.Decimal `db:"exchange_rate"`
	InvoiceDate   time.Time       `db:"invoice_date"`
	AuditFields
}
