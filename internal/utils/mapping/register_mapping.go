package mapping

import (
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	"github.com/sahelexpress/colis_backend/internal/models"
)

// ToModelCashRegister converts a domain CashRegister to a model CashRegister
func ToModelCashRegister(d domain.CashRegister) models.CashRegister {
	return models.CashRegister{
		RegisterID:     d.RegisterID,
		Name:           d.Name,
		OpeningBalance: d.OpeningBalance,
		IsActive:       d.IsActive,
		AlertThreshold: d.AlertThreshold,
		AgencyID:       d.AgencyID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashRegister converts a model CashRegister to a domain CashRegister
func ToDomainCashRegister(m models.CashRegister) domain.CashRegister {
	return domain.CashRegister{
		RegisterID:     m.RegisterID,
		Name:           m.Name,
		OpeningBalance: m.OpeningBalance,
		IsActive:       m.IsActive,
		AlertThreshold: m.AlertThreshold,
		AgencyID:       m.AgencyID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCashMovement converts a domain CashMovement to a model CashMovement
func ToModelCashMovement(d domain.CashMovement) models.CashMovement {
	return models.CashMovement{
		MovementID:   d.MovementID,
		RegisterID:   d.RegisterID,
		Kind:         models.MovementKind(d.Kind),
		Label:        d.Label,
		Amount:       d.Amount,
		MovementDate: d.MovementDate,
		Detail:       d.Detail,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

// ToDomainCashMovement converts a model CashMovement to a domain CashMovement
func ToDomainCashMovement(m models.CashMovement) domain.CashMovement {
	return domain.CashMovement{
		MovementID:   m.MovementID,
		RegisterID:   m.RegisterID,
		Kind:         domain.MovementKind(m.Kind),
		Label:        m.Label,
		Amount:       m.Amount,
		MovementDate: m.MovementDate,
		Detail:       m.Detail,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToDomainCashMovementSlice converts a slice of model CashMovements to domain objects
func ToDomainCashMovementSlice(ms []models.CashMovement) []domain.CashMovement {
	ds := make([]domain.CashMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCashMovement(m)
	}
	return ds
}
