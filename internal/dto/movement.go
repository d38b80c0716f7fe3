package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// CreateMovementRequest is the payload for recording a cash movement.
// Exactly one of RegisterID or AgencyID must identify the target register.
type CreateMovementRequest struct {
	RegisterID   *string             `json:"registerID,omitempty"`
	AgencyID     *string             `json:"agencyID,omitempty"`
	Kind         domain.MovementKind `json:"kind" binding:"required"`
	Amount       decimal.Decimal     `json:"amount" binding:"required"`
	Label        string              `json:"label" binding:"required"`
	MovementDate *time.Time          `json:"movementDate,omitempty"` // Defaults to today
	Detail       map[string]any      `json:"detail,omitempty"`
}

// MovementResponse defines the data returned for a cash movement.
type MovementResponse struct {
	MovementID   string          `json:"movementID"`
	RegisterID   string          `json:"registerID"`
	Kind         string          `json:"kind"`
	Direction    string          `json:"direction"`
	Label        string          `json:"label"`
	Amount       decimal.Decimal `json:"amount"`
	MovementDate time.Time       `json:"movementDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// ListMovementsParams holds pagination parameters for listing movements.
type ListMovementsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListMovementsResponse is a page of a register's movement log.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToMovementResponse converts a domain CashMovement to a MovementResponse DTO.
func ToMovementResponse(m *domain.CashMovement) MovementResponse {
	return MovementResponse{
		MovementID:   m.MovementID,
		RegisterID:   m.RegisterID,
		Kind:         string(m.Kind),
		Direction:    string(m.Kind.Direction()),
		Label:        m.Label,
		Amount:       m.Amount,
		MovementDate: m.MovementDate,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToMovementResponses converts a slice of domain CashMovements to DTOs.
func ToMovementResponses(ms []domain.CashMovement) []MovementResponse {
	responses := make([]MovementResponse, len(ms))
	for i := range ms {
		responses[i] = ToMovementResponse(&ms[i])
	}
	return responses
}

// RegisterResponse defines the data returned for a cash register.
type RegisterResponse struct {
	RegisterID     string          `json:"registerID"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsActive       bool            `json:"isActive"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
	AgencyID       *string         `json:"agencyID,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// BalanceResponse is the result of a balance query.
type BalanceResponse struct {
	RegisterID string          `json:"registerID"`
	Balance    decimal.Decimal `json:"balance"`
}

// SetRegisterActiveRequest toggles a register's active flag.
type SetRegisterActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ToRegisterResponse converts a domain CashRegister to a RegisterResponse DTO.
func ToRegisterResponse(r *domain.CashRegister) RegisterResponse {
	return RegisterResponse{
		RegisterID:     r.RegisterID,
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
		IsActive:       r.IsActive,
		AlertThreshold: r.AlertThreshold,
		AgencyID:       r.AgencyID,
		CreatedAt:      r.CreatedAt,
	}
}
