package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/core/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
)

type PaymentLinkServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockPaymentSvc  *MockPaymentService
	service         portssvc.PaymentLinkSvcFacade

	userID  string
	invoice domain.Invoice
	link    domain.PaymentLink
}

func (suite *PaymentLinkServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockPaymentSvc = new(MockPaymentService)
	suite.service = services.NewPaymentLinkService(suite.mockPaymentRepo, suite.mockInvoiceRepo, suite.mockPaymentSvc, 24*time.Hour)

	suite.userID = uuid.NewString()
	suite.invoice = domain.Invoice{
		InvoiceID:  uuid.NewString(),
		Reference:  "FCO-0126-001",
		AmountTTC:  decimal.NewFromInt(37250),
		PaidAmount: decimal.Zero,
		Status:     domain.StatusProforma,
	}
	suite.link = domain.PaymentLink{
		LinkID:    uuid.NewString(),
		Token:     "a1b2c3d4e5f60718a1b2c3d4e5f60718",
		InvoiceID: suite.invoice.InvoiceID,
		Status:    domain.LinkPending,
		Amount:    decimal.NewFromInt(37250),
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}
}

func (suite *PaymentLinkServiceTestSuite) TestCreateLink_Success() {
	ctx := context.Background()
	req := dto.CreatePaymentLinkRequest{
		InvoiceID: suite.invoice.InvoiceID,
		Amount:    decimal.NewFromInt(37250),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.invoice.InvoiceID).Return(&suite.invoice, nil).Once()

	var saved domain.PaymentLink
	suite.mockPaymentRepo.On("SaveLink", ctx, mock.AnythingOfType("domain.PaymentLink")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.PaymentLink)
		}).
		Return(nil).Once()

	link, err := suite.service.CreateLink(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(link)
	suite.Equal(domain.LinkPending, saved.Status)
	suite.Len(saved.Token, 32)
	suite.WithinDuration(time.Now().Add(24*time.Hour), saved.ExpiresAt, time.Minute)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentLinkServiceTestSuite) TestCreateLink_SettledInvoice() {
	ctx := context.Background()
	paid := suite.invoice
	paid.PaidAmount = paid.AmountTTC
	req := dto.CreatePaymentLinkRequest{
		InvoiceID: paid.InvoiceID,
		Amount:    decimal.NewFromInt(1000),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, paid.InvoiceID).Return(&paid, nil).Once()

	_, err := suite.service.CreateLink(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SaveLink", mock.Anything, mock.Anything)
}

func (suite *PaymentLinkServiceTestSuite) TestCreateLink_AmountAboveRemaining() {
	ctx := context.Background()
	req := dto.CreatePaymentLinkRequest{
		InvoiceID: suite.invoice.InvoiceID,
		Amount:    decimal.NewFromInt(50000),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, suite.invoice.InvoiceID).Return(&suite.invoice, nil).Once()

	_, err := suite.service.CreateLink(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentLinkServiceTestSuite) TestSettleLink_Success() {
	ctx := context.Background()
	providerRef := "MOMO-123456"
	req := dto.SettleLinkRequest{
		ProviderReference: &providerRef,
		Metadata:          map[string]any{"operator": "wave"},
	}

	suite.mockPaymentRepo.On("FindLinkByToken", ctx, suite.link.Token).Return(&suite.link, nil).Once()

	var settledLink *domain.PaymentLink
	payment := &domain.Payment{
		PaymentID: uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
			CreatedBy: "system",
		},
	}
	settled := suite.invoice
	settled.PaidAmount = settled.AmountTTC
	settled.Status = domain.StatusDefinitive
	suite.mockPaymentSvc.On("RecordLinkPayment", ctx, mock.AnythingOfType("*domain.PaymentLink"), &providerRef, req.Metadata).
		Run(func(args mock.Arguments) {
			settledLink = args.Get(1).(*domain.PaymentLink)
		}).
		Return(payment, &settled, nil).Once()

	link, err := suite.service.SettleLink(ctx, suite.link.Token, req)

	suite.Require().NoError(err)
	suite.Equal(domain.LinkPaid, link.Status)
	suite.Require().NotNil(link.PaidAt)

	suite.Equal(suite.link.LinkID, settledLink.LinkID)
	suite.Equal(suite.invoice.InvoiceID, settledLink.InvoiceID)
	suite.True(settledLink.Amount.Equal(suite.link.Amount))

	suite.mockPaymentRepo.AssertExpectations(suite.T())
	suite.mockPaymentSvc.AssertExpectations(suite.T())
}

func (suite *PaymentLinkServiceTestSuite) TestSettleLink_Expired() {
	ctx := context.Background()
	expired := suite.link
	expired.ExpiresAt = time.Now().Add(-time.Hour)

	suite.mockPaymentRepo.On("FindLinkByToken", ctx, expired.Token).Return(&expired, nil).Once()

	_, err := suite.service.SettleLink(ctx, expired.Token, dto.SettleLinkRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPaymentSvc.AssertNotCalled(suite.T(), "RecordLinkPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentLinkServiceTestSuite) TestSettleLink_DuplicateCallback() {
	ctx := context.Background()

	suite.mockPaymentRepo.On("FindLinkByToken", ctx, suite.link.Token).Return(&suite.link, nil).Once()
	// Another callback claimed the link between the read and the settlement
	// transaction; the compare-and-set inside it rolls the payment back.
	suite.mockPaymentSvc.On("RecordLinkPayment", ctx, mock.AnythingOfType("*domain.PaymentLink"), (*string)(nil), map[string]any(nil)).
		Return(nil, nil, services.ErrLienNonEnAttente).Once()

	_, err := suite.service.SettleLink(ctx, suite.link.Token, dto.SettleLinkRequest{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PaymentLinkServiceTestSuite) TestSettleLink_PaymentFailureLeavesLinkPending() {
	ctx := context.Background()

	suite.mockPaymentRepo.On("FindLinkByToken", ctx, suite.link.Token).Return(&suite.link, nil).Once()
	suite.mockPaymentSvc.On("RecordLinkPayment", ctx, mock.AnythingOfType("*domain.PaymentLink"), (*string)(nil), map[string]any(nil)).
		Return(nil, nil, apperrors.ErrInternal).Once()

	_, err := suite.service.SettleLink(ctx, suite.link.Token, dto.SettleLinkRequest{})

	suite.Require().Error(err)
	// The flip rides inside the payment transaction; a failed settlement
	// must not touch the link.
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpdateLinkStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentLinkServiceTestSuite) TestCancelLink_Success() {
	ctx := context.Background()

	suite.mockPaymentRepo.On("FindLinkByToken", ctx, suite.link.Token).Return(&suite.link, nil).Once()
	suite.mockPaymentRepo.On("UpdateLinkStatus", ctx, suite.link.LinkID, domain.LinkPending, domain.LinkCancelled,
		(*time.Time)(nil), map[string]any(nil), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	link, err := suite.service.CancelLink(ctx, suite.link.Token, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.LinkCancelled, link.Status)
}

func (suite *PaymentLinkServiceTestSuite) TestCancelLink_NotPending() {
	ctx := context.Background()
	paidLink := suite.link
	paidLink.Status = domain.LinkPaid

	suite.mockPaymentRepo.On("FindLinkByToken", ctx, paidLink.Token).Return(&paidLink, nil).Once()

	_, err := suite.service.CancelLink(ctx, paidLink.Token, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PaymentLinkServiceTestSuite) TestListLinksForInvoice() {
	ctx := context.Background()

	suite.mockPaymentRepo.On("ListLinksByInvoiceID", ctx, suite.link.InvoiceID).
		Return([]domain.PaymentLink{suite.link}, nil).Once()

	links, err := suite.service.ListLinksForInvoice(ctx, suite.link.InvoiceID)

	suite.Require().NoError(err)
	suite.Len(links, 1)
	suite.Equal(suite.link.LinkID, links[0].LinkID)
}

func (suite *PaymentLinkServiceTestSuite) TestExpireStale() {
	ctx := context.Background()

	suite.mockPaymentRepo.On("ExpireStaleLinks", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()

	count, err := suite.service.ExpireStale(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(3), count)
}

func TestPaymentLinkServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentLinkServiceTestSuite))
}
