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
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockRegisterRepo *MockRegisterRepository
	service          portssvc.InvoiceSvcFacade

	userID string
	agency domain.Agency
	parcel domain.Parcel
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockRegisterRepo = new(MockRegisterRepository)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockRegisterRepo)

	suite.userID = uuid.NewString()
	suite.agency = domain.Agency{
		AgencyID:     uuid.NewString(),
		Name:         "Dakar",
		CurrencyCode: "XOF",
	}
	parcelID := uuid.NewString()
	suite.parcel = domain.Parcel{
		ParcelID:  parcelID,
		Reference: "COL-2026-0042",
		AgencyID:  suite.agency.AgencyID,
		Items: []domain.ParcelItem{
			{
				ItemID:       uuid.NewString(),
				ParcelID:     parcelID,
				Designation:  "Carton électroménager",
				UnitPrice:    decimal.NewFromInt(15000),
				Quantity:     2,
				PackagingFee: decimal.NewFromInt(1000),
				InsuranceFee: decimal.NewFromInt(500),
				AgencyFee:    decimal.NewFromInt(750),
			},
			{
				ItemID:      uuid.NewString(),
				ParcelID:    parcelID,
				Designation: "Colis documents",
				UnitPrice:   decimal.NewFromInt(5000),
				Quantity:    1,
			},
		},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateProforma_Success() {
	ctx := context.Background()
	parcelID := suite.parcel.ParcelID

	suite.mockInvoiceRepo.On("FindInvoiceByParcelID", ctx, parcelID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvoiceRepo.On("FindParcelByID", ctx, parcelID).Return(&suite.parcel, nil).Once()
	suite.mockRegisterRepo.On("FindAgencyByID", ctx, suite.agency.AgencyID).Return(&suite.agency, nil).Once()

	var seenPrefix string
	suite.mockInvoiceRepo.On("MaxReferenceSuffix", ctx, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			seenPrefix = args.String(1)
		}).
		Return(7, nil).Once()

	var saved domain.Invoice
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Invoice)
		}).
		Return(nil).Once()

	invoice, err := suite.service.CreateProforma(ctx, parcelID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)

	// 15000*2 + 1000 + 500 + 750 + 5000*1 = 37250
	expectedTotal := decimal.NewFromInt(37250)
	suite.True(saved.AmountHT.Equal(expectedTotal), "amount_ht = %s", saved.AmountHT)
	suite.True(saved.AmountTTC.Equal(expectedTotal), "ttc must equal ht")
	suite.True(saved.PaidAmount.IsZero())
	suite.Equal(domain.StatusProforma, saved.Status)
	suite.False(saved.AutoValidated)
	suite.Equal("XOF", saved.CurrencyCode)
	suite.Equal(parcelID, saved.ParcelID)

	// The counter slot after 7 is 8, under the current month's prefix.
	suite.Equal(domain.ReferencePrefix(time.Now()), seenPrefix)
	suite.Equal(seenPrefix+"008", saved.Reference)

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateProforma_DefaultsCurrency() {
	ctx := context.Background()
	parcelID := suite.parcel.ParcelID
	agency := suite.agency
	agency.CurrencyCode = ""

	suite.mockInvoiceRepo.On("FindInvoiceByParcelID", ctx, parcelID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvoiceRepo.On("FindParcelByID", ctx, parcelID).Return(&suite.parcel, nil).Once()
	suite.mockRegisterRepo.On("FindAgencyByID", ctx, agency.AgencyID).Return(&agency, nil).Once()
	suite.mockInvoiceRepo.On("MaxReferenceSuffix", ctx, mock.AnythingOfType("string")).Return(0, nil).Once()

	var saved domain.Invoice
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Invoice)
		}).
		Return(nil).Once()

	_, err := suite.service.CreateProforma(ctx, parcelID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("XOF", saved.CurrencyCode)
}

func (suite *InvoiceServiceTestSuite) TestCreateProforma_DuplicateParcel() {
	ctx := context.Background()
	parcelID := suite.parcel.ParcelID
	existing := &domain.Invoice{InvoiceID: uuid.NewString(), ParcelID: parcelID}

	suite.mockInvoiceRepo.On("FindInvoiceByParcelID", ctx, parcelID).Return(existing, nil).Once()

	_, err := suite.service.CreateProforma(ctx, parcelID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateProforma_DuplicateAtSave() {
	ctx := context.Background()
	parcelID := suite.parcel.ParcelID

	suite.mockInvoiceRepo.On("FindInvoiceByParcelID", ctx, parcelID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvoiceRepo.On("FindParcelByID", ctx, parcelID).Return(&suite.parcel, nil).Once()
	suite.mockRegisterRepo.On("FindAgencyByID", ctx, suite.agency.AgencyID).Return(&suite.agency, nil).Once()
	suite.mockInvoiceRepo.On("MaxReferenceSuffix", ctx, mock.AnythingOfType("string")).Return(0, nil).Once()
	// A concurrent creation won the race; the unique constraint reports it.
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateProforma(ctx, parcelID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *InvoiceServiceTestSuite) TestCreateProforma_UnknownParcel() {
	ctx := context.Background()
	parcelID := uuid.NewString()

	suite.mockInvoiceRepo.On("FindInvoiceByParcelID", ctx, parcelID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvoiceRepo.On("FindParcelByID", ctx, parcelID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateProforma(ctx, parcelID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestCreateProforma_EmptyParcel() {
	ctx := context.Background()
	parcel := suite.parcel
	parcel.Items = nil

	suite.mockInvoiceRepo.On("FindInvoiceByParcelID", ctx, parcel.ParcelID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvoiceRepo.On("FindParcelByID", ctx, parcel.ParcelID).Return(&parcel, nil).Once()

	_, err := suite.service.CreateProforma(ctx, parcel.ParcelID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestValidateInvoice_Success() {
	ctx := context.Background()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.StatusProforma,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.StatusDefinitive, false, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	updated, err := suite.service.ValidateInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDefinitive, updated.Status)
	suite.False(updated.AutoValidated)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestValidateInvoice_AlreadyDefinitive() {
	ctx := context.Background()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.StatusDefinitive,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.ValidateInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_Terminal() {
	ctx := context.Background()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.StatusCancelled,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.CancelInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_FromDefinitive() {
	ctx := context.Background()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.StatusDefinitive,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.StatusCancelled, false, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	updated, err := suite.service.CancelInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, updated.Status)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
