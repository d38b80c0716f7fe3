package dto

import (
	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// PointDeCaisseResponse is the daily close of a register.
type PointDeCaisseResponse struct {
	RegisterID    string          `json:"registerID"`
	Day           string          `json:"day"` // YYYY-MM-DD
	Entrees       decimal.Decimal `json:"entrees"`
	Sorties       decimal.Decimal `json:"sorties"`
	MovementCount int             `json:"movementCount"`
	Solde         decimal.Decimal `json:"solde"`
}

// GrandesLignesResponse summarizes a register over a date range.
type GrandesLignesResponse struct {
	RegisterID           string          `json:"registerID"`
	From                 string          `json:"from"`
	To                   string          `json:"to"`
	TotalAppro           decimal.Decimal `json:"totalAppro"`
	TotalDecaissement    decimal.Decimal `json:"totalDecaissement"`
	TotalEntreesCheque   decimal.Decimal `json:"totalEntreesCheque"`
	TotalEntreesEspece   decimal.Decimal `json:"totalEntreesEspece"`
	TotalEntreesVirement decimal.Decimal `json:"totalEntreesVirement"`
	TotalEntrees         decimal.Decimal `json:"totalEntrees"`
	SoldeInitial         decimal.Decimal `json:"soldeInitial"`
	SoldeFinal           decimal.Decimal `json:"soldeFinal"`
}

// AgencyReconciliationRowResponse is one agency's share of a reconciliation.
type AgencyReconciliationRowResponse struct {
	AgencyID     string          `json:"agencyID"`
	AgencyName   string          `json:"agencyName"`
	PaymentCount int             `json:"paymentCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// AgencyReconciliationResponse is the agency-level reconciliation report.
type AgencyReconciliationResponse struct {
	From        string                            `json:"from"`
	To          string                            `json:"to"`
	Rows        []AgencyReconciliationRowResponse `json:"rows"`
	TotalCount  int                               `json:"totalCount"`
	TotalAmount decimal.Decimal                   `json:"totalAmount"`
}

const dateLayout = "2006-01-02"

// ToPointDeCaisseResponse converts a domain PointDeCaisse to its DTO.
func ToPointDeCaisseResponse(p *domain.PointDeCaisse) PointDeCaisseResponse {
	return PointDeCaisseResponse{
		RegisterID:    p.RegisterID,
		Day:           p.Day.Format(dateLayout),
		Entrees:       p.Entrees,
		Sorties:       p.Sorties,
		MovementCount: p.MovementCount,
		Solde:         p.Solde,
	}
}

// ToGrandesLignesResponse converts a domain GrandesLignes to its DTO.
func ToGrandesLignesResponse(g *domain.GrandesLignes) GrandesLignesResponse {
	return GrandesLignesResponse{
		RegisterID:           g.RegisterID,
		From:                 g.From.Format(dateLayout),
		To:                   g.To.Format(dateLayout),
		TotalAppro:           g.TotalAppro,
		TotalDecaissement:    g.TotalDecaissement,
		TotalEntreesCheque:   g.TotalEntreesCheque,
		TotalEntreesEspece:   g.TotalEntreesEspece,
		TotalEntreesVirement: g.TotalEntreesVirement,
		TotalEntrees:         g.TotalEntrees(),
		SoldeInitial:         g.SoldeInitial,
		SoldeFinal:           g.SoldeFinal,
	}
}

// ToAgencyReconciliationResponse converts a domain AgencyReconciliation to its DTO.
func ToAgencyReconciliationResponse(r *domain.AgencyReconciliation) AgencyReconciliationResponse {
	rows := make([]AgencyReconciliationRowResponse, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = AgencyReconciliationRowResponse{
			AgencyID:     row.AgencyID,
			AgencyName:   row.AgencyName,
			PaymentCount: row.PaymentCount,
			TotalAmount:  row.TotalAmount,
		}
	}
	return AgencyReconciliationResponse{
		From:        r.From.Format(dateLayout),
		To:          r.To.Format(dateLayout),
		Rows:        rows,
		TotalCount:  r.TotalCount,
		TotalAmount: r.TotalAmount,
	}
}
