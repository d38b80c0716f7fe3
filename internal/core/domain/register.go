package domain

import "github.com/shopspring/decimal"

// CashRegister is the mutable head record of a cash ledger. One register
// exists per agency; only the active flag changes after creation, the
// ledger itself lives in the append-only movement log.
type CashRegister struct {
	RegisterID     string          `json:"registerID"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsActive       bool            `json:"isActive"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"` // Balance below this triggers a warning
	AgencyID       *string         `json:"agencyID,omitempty"`
	AuditFields
}
