package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
)

// --- Mock RegisterRepository ---

type MockRegisterRepository struct {
	mock.Mock
}

var _ portsrepo.RegisterRepositoryFacade = (*MockRegisterRepository)(nil)

func (m *MockRegisterRepository) FindRegisterByID(ctx context.Context, registerID string) (*domain.CashRegister, error) {
	args := m.Called(ctx, registerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) FindRegisterByAgencyID(ctx context.Context, agencyID string) (*domain.CashRegister, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) ListRegisters(ctx context.Context) ([]domain.CashRegister, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) GetRegisterBalance(ctx context.Context, registerID string) (decimal.Decimal, error) {
	args := m.Called(ctx, registerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRegisterRepository) ListMovementsByRegisterID(ctx context.Context, registerID string, limit int, nextToken *string) ([]domain.CashMovement, *string, error) {
	args := m.Called(ctx, registerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.CashMovement), returnedNextToken, args.Error(2)
}

func (m *MockRegisterRepository) SaveRegister(ctx context.Context, register domain.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockRegisterRepository) SetRegisterActive(ctx context.Context, registerID string, active bool, updatedBy string) error {
	args := m.Called(ctx, registerID, active, updatedBy)
	return args.Error(0)
}

func (m *MockRegisterRepository) SaveMovement(ctx context.Context, movement domain.CashMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockRegisterRepository) SaveMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.CashMovement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockRegisterRepository) FindAgencyByID(ctx context.Context, agencyID string) (*domain.Agency, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agency), args.Error(1)
}

func (m *MockRegisterRepository) ListAgencyIDsWithoutRegister(ctx context.Context) ([]domain.Agency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agency), args.Error(1)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByParcelID(ctx context.Context, parcelID string) (*domain.Invoice, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) MaxReferenceSuffix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, autoValidated bool, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, invoiceID, status, autoValidated, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindParcelByID(ctx context.Context, parcelID string) (*domain.Parcel, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Parcel), args.Error(1)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SavePaymentAndSettle(ctx context.Context, payment domain.Payment, movement domain.CashMovement, claim *portsrepo.LinkClaim) (*domain.Invoice, error) {
	args := m.Called(ctx, payment, movement, claim)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockPaymentRepository) CancelPaymentAndReverse(ctx context.Context, paymentID string, reversal domain.CashMovement, updatedBy string, updatedAt time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, paymentID, reversal, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockPaymentRepository) FindLinkByToken(ctx context.Context, token string) (*domain.PaymentLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentLink), args.Error(1)
}

func (m *MockPaymentRepository) ListLinksByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentLink, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentLink), args.Error(1)
}

func (m *MockPaymentRepository) SaveLink(ctx context.Context, link domain.PaymentLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateLinkStatus(ctx context.Context, linkID string, from, to domain.PaymentLinkStatus, paidAt *time.Time, metadata map[string]any, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, linkID, from, to, paidAt, metadata, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPaymentRepository) ExpireStaleLinks(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetDailyCloseData(ctx context.Context, registerID string, from, to time.Time) (*portsrepo.DailyCloseData, error) {
	args := m.Called(ctx, registerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.DailyCloseData), args.Error(1)
}

func (m *MockReportingRepository) GetKindTotals(ctx context.Context, registerID string, from, to time.Time) (map[domain.MovementKind]decimal.Decimal, error) {
	args := m.Called(ctx, registerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.MovementKind]decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetBalanceBefore(ctx context.Context, registerID string, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, registerID, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetAgencyReconciliationData(ctx context.Context, from, to time.Time) ([]domain.AgencyReconciliationRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgencyReconciliationRow), args.Error(1)
}

// --- Mock PaymentService (as used by the payment link service) ---

type MockPaymentService struct {
	mock.Mock
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

func (m *MockPaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, req, userID)
	var payment *domain.Payment
	var invoice *domain.Invoice
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		invoice = args.Get(1).(*domain.Invoice)
	}
	return payment, invoice, args.Error(2)
}

func (m *MockPaymentService) RecordLinkPayment(ctx context.Context, link *domain.PaymentLink, providerRef *string, metadata map[string]any) (*domain.Payment, *domain.Invoice, error) {
	args := m.Called(ctx, link, providerRef, metadata)
	var payment *domain.Payment
	var invoice *domain.Invoice
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	if args.Get(1) != nil {
		invoice = args.Get(1).(*domain.Invoice)
	}
	return payment, invoice, args.Error(2)
}

func (m *MockPaymentService) CancelPayment(ctx context.Context, paymentID string, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, paymentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockPaymentService) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
