package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PointDeCaisse is the daily close of a register: that day's inflows and
// outflows alongside the register's current running balance.
type PointDeCaisse struct {
	RegisterID    string          `json:"registerID"`
	Day           time.Time       `json:"day"`
	Entrees       decimal.Decimal `json:"entrees"` // Sum of non-DECAISSEMENT movements
	Sorties       decimal.Decimal `json:"sorties"` // Sum of DECAISSEMENT movements
	MovementCount int             `json:"movementCount"`
	Solde         decimal.Decimal `json:"solde"` // Current running balance of the register
}

// GrandesLignes summarizes a register over a date range, grouped by kind,
// with the period-opening and period-closing balances.
type GrandesLignes struct {
	RegisterID           string          `json:"registerID"`
	From                 time.Time       `json:"from"`
	To                   time.Time       `json:"to"`
	TotalAppro           decimal.Decimal `json:"totalAppro"`
	TotalDecaissement    decimal.Decimal `json:"totalDecaissement"`
	TotalEntreesCheque   decimal.Decimal `json:"totalEntreesCheque"`
	TotalEntreesEspece   decimal.Decimal `json:"totalEntreesEspece"`
	TotalEntreesVirement decimal.Decimal `json:"totalEntreesVirement"`
	SoldeInitial         decimal.Decimal `json:"soldeInitial"` // Balance folded strictly before From
	SoldeFinal           decimal.Decimal `json:"soldeFinal"`
}

// TotalEntrees is the sum of the three inflow kinds (APPRO excluded).
func (g GrandesLignes) TotalEntrees() decimal.Decimal {
	return g.TotalEntreesCheque.Add(g.TotalEntreesEspece).Add(g.TotalEntreesVirement)
}

// ClosingBalance recomputes the closing identity:
// solde_initial + appro - decaissement + total_entrees.
func (g GrandesLignes) ClosingBalance() decimal.Decimal {
	return g.SoldeInitial.
		Add(g.TotalAppro).
		Sub(g.TotalDecaissement).
		Add(g.TotalEntrees())
}

// AgencyReconciliationRow is the per-agency slice of the reconciliation
// report: validated payments grouped by agency name.
type AgencyReconciliationRow struct {
	AgencyID     string          `json:"agencyID"`
	AgencyName   string          `json:"agencyName"`
	PaymentCount int             `json:"paymentCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// AgencyReconciliation is the agency-level reconciliation over a date range.
type AgencyReconciliation struct {
	From         time.Time                 `json:"from"`
	To           time.Time                 `json:"to"`
	Rows         []AgencyReconciliationRow `json:"rows"`
	TotalCount   int                       `json:"totalCount"`
	TotalAmount  decimal.Decimal           `json:"totalAmount"`
}
