package repositories

import (
	"context"
	"time"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
)

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByInvoiceID retrieves every payment recorded against an invoice.
	ListPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error)
}

// LinkClaim asks SavePaymentAndSettle to flip a payment link from PENDING
// to PAID inside the same transaction as the payment it settles.
type LinkClaim struct {
	LinkID   string
	Metadata map[string]any
}

// PaymentWriter defines the atomic write operations of the payment ledger.
// Both operations run in a single database transaction: the payment row,
// the invoice mutation and the cash movement commit or roll back together.
type PaymentWriter interface {
	// SavePaymentAndSettle locks the invoice row, re-verifies the remaining
	// balance, inserts the payment, increments the invoice's paid amount
	// (auto-transitioning it to definitive when settled) and appends the
	// inflow movement. A non-nil claim additionally marks the payment link
	// paid in the same transaction; a link no longer pending fails the whole
	// transaction with apperrors.ErrDuplicate. Returns the invoice as mutated.
	SavePaymentAndSettle(ctx context.Context, payment domain.Payment, movement domain.CashMovement, claim *LinkClaim) (*domain.Invoice, error)

	// CancelPaymentAndReverse marks a validated payment cancelled, subtracts
	// its amount from the invoice's paid amount, reverts an automatic
	// definitive transition when payments no longer cover the total, and
	// appends the offsetting movement. Returns the invoice as mutated.
	CancelPaymentAndReverse(ctx context.Context, paymentID string, reversal domain.CashMovement, updatedBy string, updatedAt time.Time) (*domain.Invoice, error)
}

// PaymentLinkReader defines read operations for payment links.
type PaymentLinkReader interface {
	// FindLinkByToken retrieves a payment link by its public token.
	FindLinkByToken(ctx context.Context, token string) (*domain.PaymentLink, error)

	// ListLinksByInvoiceID retrieves every link created for an invoice.
	ListLinksByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentLink, error)
}

// PaymentLinkWriter defines write operations for payment links.
type PaymentLinkWriter interface {
	// SaveLink persists a new payment link.
	SaveLink(ctx context.Context, link domain.PaymentLink) error

	// UpdateLinkStatus transitions a link from one status to another.
	// Returns apperrors.ErrConflict when the link is no longer in `from`.
	UpdateLinkStatus(ctx context.Context, linkID string, from, to domain.PaymentLinkStatus, paidAt *time.Time, metadata map[string]any, updatedBy string, updatedAt time.Time) error

	// ExpireStaleLinks marks every pending link past its expiry as expired
	// and returns the number of links affected.
	ExpireStaleLinks(ctx context.Context, now time.Time) (int64, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
	PaymentLinkReader
	PaymentLinkWriter
}
