package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/phonix-app/loan_settlement_app/internal/core/services"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InstallmentRepository ---
type MockInstallmentRepository struct {
	mock.Mock
}

// Ensure MockInstallmentRepository implements portsrepo.InstallmentRepositoryFacade
var _ portsrepo.InstallmentRepositoryFacade = (*MockInstallmentRepository)(nil)

func (m *MockInstallmentRepository) SaveInstallment(ctx context.Context, installment domain.Installment) (*domain.Installment, error) {
	args := m.Called(ctx, installment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) ListInstallmentsByCreditor(ctx context.Context, creditorID string) ([]domain.Installment, error) {
	args := m.Called(ctx, creditorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) UpdateInstallment(ctx context.Context, installment domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

func (m *MockInstallmentRepository) DeleteInstallment(ctx context.Context, installmentID string, deletedByUserID string, deletedAt time.Time) error {
	args := m.Called(ctx, installmentID, deletedByUserID, deletedAt)
	return args.Error(0)
}

// --- Test Suite Setup ---
type InstallmentServiceTestSuite struct {
	suite.Suite
	mockInstallmentRepo *MockInstallmentRepository
	mockCreditorRepo    *MockCreditorRepository
	service             *services.InstallmentService
	userID              string
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	suite.mockInstallmentRepo = new(MockInstallmentRepository)
	suite.mockCreditorRepo = new(MockCreditorRepository)
	suite.service = services.NewInstallmentService(suite.mockInstallmentRepo, suite.mockCreditorRepo)
	suite.userID = uuid.NewString()
}

func (suite *InstallmentServiceTestSuite) installmentCreditor() *domain.Creditor {
	return &domain.Creditor{
		CreditorID:       uuid.NewString(),
		LoanID:           uuid.NewString(),
		PaymentType:      domain.PaymentInstallment,
		SettlementStatus: domain.SettlementUnsettled,
		TotalAmount:      decimal.NewFromInt(1000),
		PaidAmount:       decimal.Zero,
	}
}

// --- Test Cases ---

func (suite *InstallmentServiceTestSuite) TestAddInstallment_Success() {
	ctx := context.Background()
	creditor := suite.installmentCreditor()
	req := dto.AddInstallmentRequest{PaidAmount: decimal.NewFromInt(200), Status: "paid"}

	suite.mockCreditorRepo.On("FindCreditorByID", ctx, creditor.CreditorID).Return(creditor, nil).Once()
	suite.mockInstallmentRepo.On("SaveInstallment", ctx, mock.AnythingOfType("domain.Installment")).
		Run(func(args mock.Arguments) {
			installment := args.Get(1).(domain.Installment)
			suite.Equal(creditor.CreditorID, installment.CreditorID)
			suite.Equal(domain.InstallmentPaid, installment.Status)
			// The number is assigned inside the repository transaction.
			suite.Zero(installment.InstallmentNumber)
		}).
		Return(&domain.Installment{
			InstallmentID:     uuid.NewString(),
			CreditorID:        creditor.CreditorID,
			InstallmentNumber: 1,
			PaidAmount:        decimal.NewFromInt(200),
			Status:            domain.InstallmentPaid,
		}, nil).Once()

	saved, err := suite.service.AddInstallment(ctx, creditor.CreditorID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, saved.InstallmentNumber)
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestAddInstallment_CashModeRejected() {
	ctx := context.Background()
	creditor := suite.installmentCreditor()
	creditor.PaymentType = domain.PaymentCash

	suite.mockCreditorRepo.On("FindCreditorByID", ctx, creditor.CreditorID).Return(creditor, nil).Once()

	_, err := suite.service.AddInstallment(ctx, creditor.CreditorID, dto.AddInstallmentRequest{PaidAmount: decimal.NewFromInt(200), Status: "paid"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "SaveInstallment", mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestAddInstallment_NegativeAmount() {
	ctx := context.Background()

	_, err := suite.service.AddInstallment(ctx, uuid.NewString(), dto.AddInstallmentRequest{PaidAmount: decimal.NewFromInt(-10), Status: "paid"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCreditorRepo.AssertNotCalled(suite.T(), "FindCreditorByID", mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestAddInstallment_InvalidStatus() {
	ctx := context.Background()

	_, err := suite.service.AddInstallment(ctx, uuid.NewString(), dto.AddInstallmentRequest{PaidAmount: decimal.NewFromInt(10), Status: "pending"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InstallmentServiceTestSuite) TestAddInstallment_NumberingRaceRetriesOnce() {
	ctx := context.Background()
	creditor := suite.installmentCreditor()
	req := dto.AddInstallmentRequest{PaidAmount: decimal.NewFromInt(200), Status: "paid"}

	suite.mockCreditorRepo.On("FindCreditorByID", ctx, creditor.CreditorID).Return(creditor, nil).Once()
	suite.mockInstallmentRepo.On("SaveInstallment", ctx, mock.AnythingOfType("domain.Installment")).
		Return(nil, apperrors.ErrDuplicate).Once()
	suite.mockInstallmentRepo.On("SaveInstallment", ctx, mock.AnythingOfType("domain.Installment")).
		Return(&domain.Installment{InstallmentID: uuid.NewString(), CreditorID: creditor.CreditorID, InstallmentNumber: 2, Status: domain.InstallmentPaid}, nil).Once()

	saved, err := suite.service.AddInstallment(ctx, creditor.CreditorID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, saved.InstallmentNumber)
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestAddInstallment_NumberingConflictAfterRetry() {
	ctx := context.Background()
	creditor := suite.installmentCreditor()
	req := dto.AddInstallmentRequest{PaidAmount: decimal.NewFromInt(200), Status: "paid"}

	suite.mockCreditorRepo.On("FindCreditorByID", ctx, creditor.CreditorID).Return(creditor, nil).Once()
	suite.mockInstallmentRepo.On("SaveInstallment", ctx, mock.AnythingOfType("domain.Installment")).
		Return(nil, apperrors.ErrDuplicate).Twice()

	_, err := suite.service.AddInstallment(ctx, creditor.CreditorID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestUpdateInstallment_NumberImmutable() {
	ctx := context.Background()
	existing := &domain.Installment{
		InstallmentID:     uuid.NewString(),
		CreditorID:        uuid.NewString(),
		InstallmentNumber: 3,
		PaidAmount:        decimal.NewFromInt(100),
		Status:            domain.InstallmentUnpaid,
	}
	newAmount := decimal.NewFromInt(150)
	paidStatus := "paid"

	suite.mockInstallmentRepo.On("FindInstallmentByID", ctx, existing.InstallmentID).Return(existing, nil).Once()
	suite.mockInstallmentRepo.On("UpdateInstallment", ctx, mock.AnythingOfType("domain.Installment")).
		Run(func(args mock.Arguments) {
			installment := args.Get(1).(domain.Installment)
			suite.Equal(3, installment.InstallmentNumber)
			suite.Equal(domain.InstallmentPaid, installment.Status)
			suite.True(installment.PaidAmount.Equal(newAmount))
		}).
		Return(nil).Once()

	updated, err := suite.service.UpdateInstallment(ctx, existing.InstallmentID, dto.UpdateInstallmentRequest{PaidAmount: &newAmount, Status: &paidStatus}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(3, updated.InstallmentNumber)
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestDeleteInstallment_Success() {
	ctx := context.Background()
	existing := &domain.Installment{InstallmentID: uuid.NewString(), CreditorID: uuid.NewString(), InstallmentNumber: 2}

	suite.mockInstallmentRepo.On("FindInstallmentByID", ctx, existing.InstallmentID).Return(existing, nil).Once()
	suite.mockInstallmentRepo.On("DeleteInstallment", ctx, existing.InstallmentID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteInstallment(ctx, existing.InstallmentID, suite.userID)

	suite.Require().NoError(err)
	suite.mockInstallmentRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestDeleteInstallment_NotFound() {
	ctx := context.Background()
	installmentID := uuid.NewString()

	suite.mockInstallmentRepo.On("FindInstallmentByID", ctx, installmentID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteInstallment(ctx, installmentID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "DeleteInstallment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestListInstallments_CreditorNotFound() {
	ctx := context.Background()
	creditorID := uuid.NewString()

	suite.mockCreditorRepo.On("FindCreditorByID", ctx, creditorID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListInstallments(ctx, creditorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockInstallmentRepo.AssertNotCalled(suite.T(), "ListInstallmentsByCreditor", mock.Anything, mock.Anything)
}

func TestInstallmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}
