package services

import (
	"context"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
	"github.com/sahelexpress/colis_backend/internal/dto"
)

// InvoiceSvcFacade defines the invoice-ledger operations.
type InvoiceSvcFacade interface {
	// CreateProforma invoices a parcel: computes the billable total over its
	// line items, allocates the next per-month reference and persists a
	// proforma invoice. A parcel can only be invoiced once.
	CreateProforma(ctx context.Context, parcelID string, userID string) (*domain.Invoice, error)

	// GetInvoice retrieves an invoice by ID.
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a token-paginated list of invoices.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// ValidateInvoice explicitly transitions a proforma to definitive.
	ValidateInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// CancelInvoice transitions an invoice to cancelled. Terminal.
	CancelInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
}
