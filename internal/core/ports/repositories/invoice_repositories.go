package repositories

import (
	"context"
	"time"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoices.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByParcelID retrieves the invoice of a parcel, if any.
	FindInvoiceByParcelID(ctx context.Context, parcelID string) (*domain.Invoice, error)

	// MaxReferenceSuffix returns the highest numeric suffix among invoices
	// whose reference starts with prefix, or 0 when none exist.
	MaxReferenceSuffix(ctx context.Context, prefix string) (int, error)

	// ListInvoices retrieves a token-paginated list of invoices, newest first.
	ListInvoices(ctx context.Context, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoices.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice. A duplicate parcel maps to
	// apperrors.ErrDuplicate, a duplicate reference to apperrors.ErrConflict.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceStatus applies a lifecycle transition.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, autoValidated bool, updatedBy string, updatedAt time.Time) error
}

// ParcelReader exposes the parcel projection this core consumes.
type ParcelReader interface {
	// FindParcelByID retrieves a parcel with its billable line items.
	FindParcelByID(ctx context.Context, parcelID string) (*domain.Parcel, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	ParcelReader
}
