package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
	"github.com/sahelexpress/colis_backend/internal/utils"
)

var (
	ErrLienIntrouvable  = apperrors.NewAppError(404, "lien de paiement introuvable", apperrors.ErrNotFound)
	ErrLienExpire       = apperrors.NewAppError(409, "lien de paiement expiré", apperrors.ErrConflict)
	ErrLienNonEnAttente = apperrors.NewAppError(409, "lien de paiement déjà traité", apperrors.ErrConflict)
)

// defaultLinkTTL applies when no TTL is configured.
const defaultLinkTTL = 24 * time.Hour

// linkTokenBytes sizes the random link token; 16 bytes hex-encode to a
// 32-character URL-safe string.
const linkTokenBytes = 16

// paymentLinkService implements mobile-money payment links. A link is a
// tokenized, time-limited payment request settled out of band by a
// provider callback; settlement goes through the payment service, so the
// full invoice/movement semantics apply.
type paymentLinkService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	paymentSvc  portssvc.PaymentSvcFacade
	linkTTL     time.Duration
}

// NewPaymentLinkService creates a new payment link service.
func NewPaymentLinkService(paymentRepo portsrepo.PaymentRepositoryFacade, invoiceRepo portsrepo.InvoiceRepositoryFacade, paymentSvc portssvc.PaymentSvcFacade, linkTTL time.Duration) portssvc.PaymentLinkSvcFacade {
	if linkTTL <= 0 {
		linkTTL = defaultLinkTTL
	}
	return &paymentLinkService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		paymentSvc:  paymentSvc,
		linkTTL:     linkTTL,
	}
}

// Ensure paymentLinkService implements the portssvc.PaymentLinkSvcFacade interface
var _ portssvc.PaymentLinkSvcFacade = (*paymentLinkService)(nil)

// CreateLink issues a pending link for an invoice. The same payability
// rules as direct payments apply at creation time.
func (s *paymentLinkService) CreateLink(ctx context.Context, req dto.CreatePaymentLinkRequest, userID string) (*domain.PaymentLink, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrMontantInvalide
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrFactureIntrouvable
		}
		s.LogError(ctx, err, "failed to load invoice for payment link", slog.String("invoice_id", req.InvoiceID))
		return nil, err
	}
	if invoice.Status == domain.StatusCancelled {
		return nil, ErrFactureAnnulee
	}
	remaining := invoice.Remaining()
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil, ErrFactureSoldee
	}
	if req.Amount.GreaterThan(remaining) {
		return nil, ErrMontantDepasseSolde
	}

	token, err := utils.GenerateSecureRandomString(linkTokenBytes)
	if err != nil {
		s.LogError(ctx, err, "failed to generate link token")
		return nil, fmt.Errorf("failed to generate link token: %w", err)
	}

	now := time.Now()
	link := domain.PaymentLink{
		LinkID:    uuid.NewString(),
		Token:     token,
		InvoiceID: invoice.InvoiceID,
		Status:    domain.LinkPending,
		Amount:    req.Amount,
		Provider:  req.Provider,
		ExpiresAt: now.Add(s.linkTTL),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.paymentRepo.SaveLink(ctx, link); err != nil {
		s.LogError(ctx, err, "failed to save payment link", slog.String("invoice_id", invoice.InvoiceID))
		return nil, fmt.Errorf("failed to save payment link: %w", err)
	}

	s.LogInfo(ctx, "payment link created",
		slog.String("link_id", link.LinkID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("amount", link.Amount.String()),
		slog.Time("expires_at", link.ExpiresAt))

	return &link, nil
}

func (s *paymentLinkService) GetLink(ctx context.Context, token string) (*domain.PaymentLink, error) {
	link, err := s.paymentRepo.FindLinkByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrLienIntrouvable
		}
		s.LogError(ctx, err, "failed to find payment link")
		return nil, err
	}
	return link, nil
}

// SettleLink records the provider-confirmed payment behind a pending,
// unexpired link. The PENDING->PAID flip and the payment commit in one
// transaction, so a duplicated provider callback can never record the
// payment twice and a crash can never leave a paid link without its payment.
func (s *paymentLinkService) SettleLink(ctx context.Context, token string, req dto.SettleLinkRequest) (*domain.PaymentLink, error) {
	link, err := s.GetLink(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if link.Status == domain.LinkExpired || (link.Status == domain.LinkPending && link.IsExpired(now)) {
		return nil, ErrLienExpire
	}
	if link.Status != domain.LinkPending {
		return nil, ErrLienNonEnAttente
	}

	payment, _, err := s.paymentSvc.RecordLinkPayment(ctx, link, req.ProviderReference, req.Metadata)
	if err != nil {
		return nil, err
	}

	link.Status = domain.LinkPaid
	link.PaidAt = &payment.CreatedAt
	link.ProviderMetadata = req.Metadata
	link.LastUpdatedAt = payment.CreatedAt
	link.LastUpdatedBy = systemUserID

	s.LogInfo(ctx, "payment link settled",
		slog.String("link_id", link.LinkID),
		slog.String("invoice_id", link.InvoiceID),
		slog.String("amount", link.Amount.String()))

	return link, nil
}

// ListLinksForInvoice retrieves every link created for an invoice.
func (s *paymentLinkService) ListLinksForInvoice(ctx context.Context, invoiceID string) ([]domain.PaymentLink, error) {
	links, err := s.paymentRepo.ListLinksByInvoiceID(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "failed to list payment links", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to list payment links for invoice %s: %w", invoiceID, err)
	}
	return links, nil
}

// CancelLink cancels a pending link.
func (s *paymentLinkService) CancelLink(ctx context.Context, token string, userID string) (*domain.PaymentLink, error) {
	link, err := s.GetLink(ctx, token)
	if err != nil {
		return nil, err
	}
	if link.Status != domain.LinkPending {
		return nil, ErrLienNonEnAttente
	}

	now := time.Now()
	err = s.paymentRepo.UpdateLinkStatus(ctx, link.LinkID, domain.LinkPending, domain.LinkCancelled, nil, nil, userID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrLienNonEnAttente
		}
		s.LogError(ctx, err, "failed to cancel payment link", slog.String("link_id", link.LinkID))
		return nil, fmt.Errorf("failed to cancel payment link: %w", err)
	}

	link.Status = domain.LinkCancelled
	link.LastUpdatedAt = now
	link.LastUpdatedBy = userID
	return link, nil
}

// ExpireStale marks overdue pending links expired. Invoked by the cron sweep.
func (s *paymentLinkService) ExpireStale(ctx context.Context) (int64, error) {
	count, err := s.paymentRepo.ExpireStaleLinks(ctx, time.Now())
	if err != nil {
		s.LogError(ctx, err, "failed to expire stale payment links")
		return 0, fmt.Errorf("failed to expire stale payment links: %w", err)
	}
	if count > 0 {
		s.LogInfo(ctx, "expired stale payment links", slog.Int64("count", count))
	}
	return count, nil
}
