package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// RecordPaymentRequest is the payload for recording a payment against an invoice.
type RecordPaymentRequest struct {
	InvoiceID         string             `json:"invoiceID" binding:"required"`
	Amount            decimal.Decimal    `json:"amount" binding:"required"`
	Mode              domain.PaymentMode `json:"mode" binding:"required"`
	ChangeGiven       *decimal.Decimal   `json:"changeGiven,omitempty"`
	ExternalReference *string            `json:"externalReference,omitempty"`
	PaymentDate       *time.Time         `json:"paymentDate,omitempty"` // Defaults to today
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID         string          `json:"paymentID"`
	InvoiceID         string          `json:"invoiceID"`
	Amount            decimal.Decimal `json:"amount"`
	ChangeGiven       decimal.Decimal `json:"changeGiven"`
	Mode              string          `json:"mode"`
	ExternalReference *string         `json:"externalReference,omitempty"`
	PaymentDate       time.Time       `json:"paymentDate"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
}

// RecordPaymentResponse pairs the recorded payment with the invoice as mutated.
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// ToPaymentResponse converts a domain Payment to a PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	status := "VALIDATED"
	if p.Status == domain.PaymentCancelled {
		status = "CANCELLED"
	}
	return PaymentResponse{
		PaymentID:         p.PaymentID,
		InvoiceID:         p.InvoiceID,
		Amount:            p.Amount,
		ChangeGiven:       p.ChangeGiven,
		Mode:              string(p.Mode),
		ExternalReference: p.ExternalReference,
		PaymentDate:       p.PaymentDate,
		Status:            status,
		CreatedAt:         p.CreatedAt,
		CreatedBy:         p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain Payments to DTOs.
func ToPaymentResponses(ps []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(ps))
	for i := range ps {
		responses[i] = ToPaymentResponse(&ps[i])
	}
	return responses
}

// CreatePaymentLinkRequest is the payload for issuing a mobile-money payment link.
type CreatePaymentLinkRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Provider  *string         `json:"provider,omitempty"`
}

// SettleLinkRequest is the provider callback payload settling a link.
type SettleLinkRequest struct {
	ProviderReference *string        `json:"providerReference,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// PaymentLinkResponse defines the data returned for a payment link.
type PaymentLinkResponse struct {
	LinkID    string          `json:"linkID"`
	Token     string          `json:"token"`
	InvoiceID string          `json:"invoiceID"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Provider  *string         `json:"provider,omitempty"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	ExpiresAt time.Time       `json:"expiresAt"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToPaymentLinkResponse converts a domain PaymentLink to a PaymentLinkResponse DTO.
func ToPaymentLinkResponse(l *domain.PaymentLink) PaymentLinkResponse {
	return PaymentLinkResponse{
		LinkID:    l.LinkID,
		Token:     l.Token,
		InvoiceID: l.InvoiceID,
		Status:    string(l.Status),
		Amount:    l.Amount,
		Provider:  l.Provider,
		PaidAt:    l.PaidAt,
		ExpiresAt: l.ExpiresAt,
		CreatedAt: l.CreatedAt,
	}
}

// ToPaymentLinkResponses converts a slice of domain PaymentLinks to DTOs.
func ToPaymentLinkResponses(ls []domain.PaymentLink) []PaymentLinkResponse {
	responses := make([]PaymentLinkResponse, len(ls))
	for i := range ls {
		responses[i] = ToPaymentLinkResponse(&ls[i])
	}
	return responses
}
