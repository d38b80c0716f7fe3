package services

import (
	"context"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
	"github.com/sahelexpress/colis_backend/internal/dto"
)

// PaymentSvcFacade defines the payment-recorder operations.
type PaymentSvcFacade interface {
	// RecordPayment validates and records a payment against an invoice in a
	// single transaction, auto-settling the invoice when fully paid and
	// appending the matching cash movement. Returns the payment and the
	// invoice as mutated.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, *domain.Invoice, error)

	// RecordLinkPayment records the provider-confirmed payment behind a
	// pending link and flips the link to paid in the same transaction, so a
	// crash can never leave a paid link without its payment. Returns the
	// payment and the invoice as mutated.
	RecordLinkPayment(ctx context.Context, link *domain.PaymentLink, providerRef *string, metadata map[string]any) (*domain.Payment, *domain.Invoice, error)

	// CancelPayment cancels a validated payment, restores the invoice's paid
	// amount, reverts an automatic settlement and appends the offsetting
	// movement. Returns the invoice as mutated.
	CancelPayment(ctx context.Context, paymentID string, userID string) (*domain.Invoice, error)

	// ListPaymentsByInvoice retrieves every payment recorded for an invoice.
	ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error)
}

// PaymentLinkSvcFacade defines the mobile-money payment-link operations.
type PaymentLinkSvcFacade interface {
	// CreateLink issues a tokenized, time-limited payment link for an invoice.
	CreateLink(ctx context.Context, req dto.CreatePaymentLinkRequest, userID string) (*domain.PaymentLink, error)

	// GetLink retrieves a link by its public token.
	GetLink(ctx context.Context, token string) (*domain.PaymentLink, error)

	// SettleLink records the provider-confirmed payment behind a pending,
	// unexpired link and marks the link paid.
	SettleLink(ctx context.Context, token string, req dto.SettleLinkRequest) (*domain.PaymentLink, error)

	// CancelLink cancels a pending link.
	CancelLink(ctx context.Context, token string, userID string) (*domain.PaymentLink, error)

	// ListLinksForInvoice retrieves every link created for an invoice.
	ListLinksForInvoice(ctx context.Context, invoiceID string) ([]domain.PaymentLink, error)

	// ExpireStale marks overdue pending links expired; returns the count.
	ExpireStale(ctx context.Context) (int64, error)
}
