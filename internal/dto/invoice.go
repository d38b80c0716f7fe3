package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// CreateProformaRequest is the payload for invoicing a parcel.
type CreateProformaRequest struct {
	ParcelID string `json:"parcelID" binding:"required"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID    string          `json:"invoiceID"`
	Reference    string          `json:"reference"`
	ParcelID     string          `json:"parcelID"`
	AmountHT     decimal.Decimal `json:"amountHT"`
	AmountTTC    decimal.Decimal `json:"amountTTC"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Remaining    decimal.Decimal `json:"remaining"`
	Status       string          `json:"status"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	InvoiceDate  time.Time       `json:"invoiceDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// ListInvoicesParams holds pagination parameters for listing invoices.
type ListInvoicesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListInvoicesResponse is a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain Invoice to an InvoiceResponse DTO.
func ToInvoiceResponse(i *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:    i.InvoiceID,
		Reference:    i.Reference,
		ParcelID:     i.ParcelID,
		AmountHT:     i.AmountHT,
		AmountTTC:    i.AmountTTC,
		PaidAmount:   i.PaidAmount,
		Remaining:    i.Remaining(),
		Status:       i.Status.String(),
		CurrencyCode: i.CurrencyCode,
		ExchangeRate: i.ExchangeRate,
		InvoiceDate:  i.InvoiceDate,
		CreatedAt:    i.CreatedAt,
		CreatedBy:    i.CreatedBy,
	}
}

// ToInvoiceResponses converts a slice of domain Invoices to DTOs.
func ToInvoiceResponses(is []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(is))
	for i := range is {
		responses[i] = ToInvoiceResponse(&is[i])
	}
	return responses
}
