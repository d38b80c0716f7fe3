package services_test

import (
	"context"
	"testing"

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

type CaisseServiceTestSuite struct {
	suite.Suite
	mockRegisterRepo *MockRegisterRepository
	service          portssvc.CaisseSvcFacade

	userID   string
	agencyID string
	register domain.CashRegister
}

func (suite *CaisseServiceTestSuite) SetupTest() {
	suite.mockRegisterRepo = new(MockRegisterRepository)
	suite.service = services.NewCaisseService(suite.mockRegisterRepo)

	suite.userID = uuid.NewString()
	suite.agencyID = uuid.NewString()
	agencyID := suite.agencyID
	suite.register = domain.CashRegister{
		RegisterID:     uuid.NewString(),
		Name:           "Caisse Dakar",
		OpeningBalance: decimal.NewFromInt(50000),
		IsActive:       true,
		AlertThreshold: decimal.NewFromInt(10000),
		AgencyID:       &agencyID,
	}
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_Success() {
	ctx := context.Background()
	registerID := suite.register.RegisterID
	req := dto.CreateMovementRequest{
		RegisterID: &registerID,
		Kind:       domain.KindEntreeEspece,
		Amount:     decimal.NewFromInt(20000),
		Label:      "Encaissement guichet",
	}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, registerID).Return(&suite.register, nil).Once()

	var saved domain.CashMovement
	suite.mockRegisterRepo.On("SaveMovement", ctx, mock.AnythingOfType("domain.CashMovement")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.CashMovement)
		}).
		Return(nil).Once()
	suite.mockRegisterRepo.On("GetRegisterBalance", ctx, registerID).Return(decimal.NewFromInt(70000), nil).Once()

	movement, err := suite.service.RecordMovement(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.NotEmpty(movement.MovementID)
	suite.Equal(registerID, saved.RegisterID)
	suite.Equal(domain.KindEntreeEspece, saved.Kind)
	suite.True(saved.Amount.Equal(decimal.NewFromInt(20000)))
	suite.Equal(suite.userID, saved.CreatedBy)
	// Movements carry date granularity.
	suite.Zero(saved.MovementDate.Hour())
	suite.Zero(saved.MovementDate.Minute())

	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_ResolvesRegisterByAgency() {
	ctx := context.Background()
	agencyID := suite.agencyID
	req := dto.CreateMovementRequest{
		AgencyID: &agencyID,
		Kind:     domain.KindAppro,
		Amount:   decimal.NewFromInt(100000),
		Label:    "Approvisionnement siège",
	}

	suite.mockRegisterRepo.On("FindRegisterByAgencyID", ctx, agencyID).Return(&suite.register, nil).Once()
	suite.mockRegisterRepo.On("SaveMovement", ctx, mock.AnythingOfType("domain.CashMovement")).Return(nil).Once()
	suite.mockRegisterRepo.On("GetRegisterBalance", ctx, suite.register.RegisterID).Return(decimal.NewFromInt(150000), nil).Once()

	movement, err := suite.service.RecordMovement(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.register.RegisterID, movement.RegisterID)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_InvalidKind() {
	registerID := suite.register.RegisterID
	req := dto.CreateMovementRequest{
		RegisterID: &registerID,
		Kind:       domain.MovementKind("VIREMENT_SORTANT"),
		Amount:     decimal.NewFromInt(100),
		Label:      "n/a",
	}

	_, err := suite.service.RecordMovement(context.Background(), req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "SaveMovement", mock.Anything, mock.Anything)
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_NonPositiveAmount() {
	registerID := suite.register.RegisterID
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-500)} {
		req := dto.CreateMovementRequest{
			RegisterID: &registerID,
			Kind:       domain.KindEntreeEspece,
			Amount:     amount,
			Label:      "n/a",
		}

		_, err := suite.service.RecordMovement(context.Background(), req, suite.userID)

		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "SaveMovement", mock.Anything, mock.Anything)
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_NoRegisterHint() {
	req := dto.CreateMovementRequest{
		Kind:   domain.KindEntreeEspece,
		Amount: decimal.NewFromInt(100),
		Label:  "n/a",
	}

	_, err := suite.service.RecordMovement(context.Background(), req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_UnknownRegister() {
	ctx := context.Background()
	registerID := uuid.NewString()
	req := dto.CreateMovementRequest{
		RegisterID: &registerID,
		Kind:       domain.KindEntreeEspece,
		Amount:     decimal.NewFromInt(100),
		Label:      "n/a",
	}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, registerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordMovement(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "SaveMovement", mock.Anything, mock.Anything)
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_InactiveRegister() {
	ctx := context.Background()
	inactive := suite.register
	inactive.IsActive = false
	registerID := inactive.RegisterID
	req := dto.CreateMovementRequest{
		RegisterID: &registerID,
		Kind:       domain.KindDecaissement,
		Amount:     decimal.NewFromInt(100),
		Label:      "n/a",
	}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, registerID).Return(&inactive, nil).Once()

	_, err := suite.service.RecordMovement(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *CaisseServiceTestSuite) TestRecordMovement_BalanceCheckFailureDoesNotFailWrite() {
	ctx := context.Background()
	registerID := suite.register.RegisterID
	req := dto.CreateMovementRequest{
		RegisterID: &registerID,
		Kind:       domain.KindDecaissement,
		Amount:     decimal.NewFromInt(45000),
		Label:      "Frais transporteur",
	}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, registerID).Return(&suite.register, nil).Once()
	suite.mockRegisterRepo.On("SaveMovement", ctx, mock.AnythingOfType("domain.CashMovement")).Return(nil).Once()
	// The low-balance alert is best effort; a failed read must not surface.
	suite.mockRegisterRepo.On("GetRegisterBalance", ctx, registerID).Return(decimal.Zero, apperrors.ErrInternal).Once()

	movement, err := suite.service.RecordMovement(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *CaisseServiceTestSuite) TestGetBalance_UnknownRegister() {
	ctx := context.Background()
	registerID := uuid.NewString()

	suite.mockRegisterRepo.On("GetRegisterBalance", ctx, registerID).Return(decimal.Zero, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBalance(ctx, registerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CaisseServiceTestSuite) TestGetBalance_Success() {
	ctx := context.Background()
	registerID := suite.register.RegisterID

	suite.mockRegisterRepo.On("GetRegisterBalance", ctx, registerID).Return(decimal.NewFromInt(125000), nil).Once()

	balance, err := suite.service.GetBalance(ctx, registerID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(125000)))
}

func (suite *CaisseServiceTestSuite) TestEnsureAgencyRegisters_CreatesMissing() {
	ctx := context.Background()
	agencies := []domain.Agency{
		{AgencyID: uuid.NewString(), Name: "Dakar"},
		{AgencyID: uuid.NewString(), Name: "Abidjan"},
	}

	suite.mockRegisterRepo.On("ListAgencyIDsWithoutRegister", ctx).Return(agencies, nil).Once()

	var created []domain.CashRegister
	suite.mockRegisterRepo.On("SaveRegister", ctx, mock.AnythingOfType("domain.CashRegister")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(domain.CashRegister))
		}).
		Return(nil).Twice()

	count, err := suite.service.EnsureAgencyRegisters(ctx)

	suite.Require().NoError(err)
	suite.Equal(2, count)
	suite.Require().Len(created, 2)
	suite.Equal("Caisse Dakar", created[0].Name)
	suite.Equal(agencies[0].AgencyID, *created[0].AgencyID)
	suite.True(created[0].IsActive)
	suite.True(created[0].OpeningBalance.IsZero())
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *CaisseServiceTestSuite) TestEnsureAgencyRegisters_SkipsConcurrentDuplicate() {
	ctx := context.Background()
	agencies := []domain.Agency{
		{AgencyID: uuid.NewString(), Name: "Dakar"},
		{AgencyID: uuid.NewString(), Name: "Abidjan"},
	}

	suite.mockRegisterRepo.On("ListAgencyIDsWithoutRegister", ctx).Return(agencies, nil).Once()
	suite.mockRegisterRepo.On("SaveRegister", ctx, mock.AnythingOfType("domain.CashRegister")).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockRegisterRepo.On("SaveRegister", ctx, mock.AnythingOfType("domain.CashRegister")).
		Return(nil).Once()

	count, err := suite.service.EnsureAgencyRegisters(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func (suite *CaisseServiceTestSuite) TestListMovements_ClampsLimit() {
	ctx := context.Background()
	registerID := suite.register.RegisterID

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, registerID).Return(&suite.register, nil).Twice()
	suite.mockRegisterRepo.On("ListMovementsByRegisterID", ctx, registerID, 50, (*string)(nil)).
		Return([]domain.CashMovement{}, nil, nil).Once()
	suite.mockRegisterRepo.On("ListMovementsByRegisterID", ctx, registerID, 100, (*string)(nil)).
		Return([]domain.CashMovement{}, nil, nil).Once()

	_, err := suite.service.ListMovements(ctx, registerID, dto.ListMovementsParams{})
	suite.Require().NoError(err)

	_, err = suite.service.ListMovements(ctx, registerID, dto.ListMovementsParams{Limit: 5000})
	suite.Require().NoError(err)

	suite.mockRegisterRepo.AssertExpectations(suite.T())
}

func TestCaisseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CaisseServiceTestSuite))
}
