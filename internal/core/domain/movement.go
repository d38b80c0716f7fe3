package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection indicates whether a movement kind adds to or removes from a register.
type MovementDirection string

const (
	DirectionCredit MovementDirection = "CREDIT"
	DirectionDebit  MovementDirection = "DEBIT"
)

// MovementKind classifies a cash movement. The sign of a movement is never
// inferred from its amount: amounts are always positive and the kind's
// direction decides how it affects the balance.
type MovementKind string

const (
	KindAppro          MovementKind = "APPRO"
	KindDecaissement   MovementKind = "DECAISSEMENT"
	KindEntreeCheque   MovementKind = "ENTREE_CHEQUE"
	KindEntreeEspece   MovementKind = "ENTREE_ESPECE"
	KindEntreeVirement MovementKind = "ENTREE_VIREMENT"
)

// MovementKinds lists every valid movement kind.
var MovementKinds = []MovementKind{
	KindAppro,
	KindDecaissement,
	KindEntreeCheque,
	KindEntreeEspece,
	KindEntreeVirement,
}

// IsValid reports whether k is a member of the movement kind enum.
func (k MovementKind) IsValid() bool {
	switch k {
	case KindAppro, KindDecaissement, KindEntreeCheque, KindEntreeEspece, KindEntreeVirement:
		return true
	}
	return false
}

// Direction returns the ledger direction of the kind. Only DECAISSEMENT
// debits a register; every other kind credits it.
func (k MovementKind) Direction() MovementDirection {
	if k == KindDecaissement {
		return DirectionDebit
	}
	return DirectionCredit
}

// CashMovement is a single, immutable entry in a register's ledger.
// Movements are never updated or deleted; corrections are recorded as
// new offsetting movements.
type CashMovement struct {
	MovementID   string          `json:"movementID"`
	RegisterID   string          `json:"registerID"` // FK -> CashRegister.RegisterID
	Kind         MovementKind    `json:"kind"`
	Label        string          `json:"label"`
	Amount       decimal.Decimal `json:"amount"` // Always positive; sign comes from Kind.Direction()
	MovementDate time.Time       `json:"movementDate"` // Date granularity
	Detail       map[string]any  `json:"detail,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// SignedAmount returns the amount with the sign implied by the movement kind.
func (m CashMovement) SignedAmount() decimal.Decimal {
	if m.Kind.Direction() == DirectionDebit {
		return m.Amount.Neg()
	}
	return m.Amount
}

// ComputeBalance folds a movement list against an opening balance.
// The fold is commutative: the result does not depend on movement order.
func ComputeBalance(opening decimal.Decimal, movements []CashMovement) decimal.Decimal {
	balance := opening
	for _, m := range movements {
		balance = balance.Add(m.SignedAmount())
	}
	return balance
}
