package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRegister represents a cash register row.
type CashRegister struct {
	RegisterID     string          `db:"register_id"`
	Name           string          `db:"name"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	IsActive       bool            `db:"is_active"`
	AlertThreshold decimal.Decimal `db:"alert_threshold"`
	AgencyID       *string         `db:"agency_id"` // Nullable
	AuditFields
}

// MovementKind mirrors the cash_movements kind enum column.
type MovementKind string

// CashMovement represents one row of a register's append-only movement log.
// There is deliberately no update path for this model.
type CashMovement struct {
	MovementID   string          `db:"movement_id"`
	RegisterID   string          `db:"register_id"`
	Kind         MovementKind    `db:"kind"`
	Label        string          `db:"label"`
	Amount       decimal.Decimal `db:"amount"`
	MovementDate time.Time       `db:"movement_date"`
	Detail       map[string]any  `db:"detail"` // JSONB, nullable
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
