package services_test

import (
	"context"
	"testing"

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

// --- Mock BuyerRepository ---
type MockBuyerRepository struct {
	mock.Mock
}

// Ensure MockBuyerRepository implements portsrepo.BuyerRepositoryFacade
var _ portsrepo.BuyerRepositoryFacade = (*MockBuyerRepository)(nil)

func (m *MockBuyerRepository) SaveBuyer(ctx context.Context, buyer domain.Buyer, firstHistory domain.StatusHistory) error {
	args := m.Called(ctx, buyer, firstHistory)
	return args.Error(0)
}

func (m *MockBuyerRepository) FindBuyerByID(ctx context.Context, buyerID string) (*domain.Buyer, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) ListBuyers(ctx context.Context, limit int, offset int) ([]domain.Buyer, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) UpdateBuyer(ctx context.Context, buyer domain.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) UpdateBuyerStatus(ctx context.Context, buyer domain.Buyer, history *domain.StatusHistory, completion *portsrepo.CompletionSideEffects) error {
	args := m.Called(ctx, buyer, history, completion)
	return args.Error(0)
}

func (m *MockBuyerRepository) ListStatusHistory(ctx context.Context, buyerID string) ([]domain.StatusHistory, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistory), args.Error(1)
}

// --- Test Suite Setup ---
type BuyerServiceTestSuite struct {
	suite.Suite
	mockBuyerRepo *MockBuyerRepository
	mockLoanRepo  *MockLoanRepository
	service       *services.BuyerService
	userID        string
}

func (suite *BuyerServiceTestSuite) SetupTest() {
	suite.mockBuyerRepo = new(MockBuyerRepository)
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.service = services.NewBuyerService(suite.mockBuyerRepo, suite.mockLoanRepo)
	suite.userID = uuid.NewString()
}

func (suite *BuyerServiceTestSuite) buyerReadyForCompletion() (*domain.Buyer, *domain.Loan) {
	loanID := uuid.NewString()
	salePrice := decimal.NewFromInt(450000)
	buyer := &domain.Buyer{
		BuyerID:       uuid.NewString(),
		FirstName:     "Reza",
		LastName:      "Karimi",
		NationalID:    "0011223344",
		LoanID:        &loanID,
		SalePrice:     &salePrice,
		Bank:          "Melli",
		SaleType:      domain.SaleCash,
		CurrentStatus: domain.BuyerBankValidation,
	}
	loan := &domain.Loan{
		LoanID:      loanID,
		BankName:    "Mellat",
		LoanType:    "housing",
		Amount:      decimal.NewFromInt(500000),
		PaymentType: domain.PaymentInstallment,
		Status:      domain.LoanAvailable,
		Holder: domain.LoanHolder{
			FirstName:  "Sara",
			LastName:   "Ahmadi",
			NationalID: "1234567890",
			Phone:      "09120000000",
		},
		AuditFields: domain.AuditFields{
			CreatedBy: uuid.NewString(),
		},
	}
	return buyer, loan
}

// --- Test Cases ---

func (suite *BuyerServiceTestSuite) TestCreateBuyer_Success() {
	ctx := context.Background()
	req := dto.CreateBuyerRequest{
		FirstName:       "Reza",
		LastName:        "Karimi",
		NationalID:      "0011223344",
		RequestedAmount: decimal.NewFromInt(300000),
	}

	suite.mockBuyerRepo.On("SaveBuyer", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("domain.StatusHistory")).
		Run(func(args mock.Arguments) {
			buyer := args.Get(1).(domain.Buyer)
			history := args.Get(2).(domain.StatusHistory)
			suite.Equal(domain.BuyerRegistered, buyer.CurrentStatus)
			suite.Equal(domain.SaleCash, buyer.SaleType)
			suite.Equal(buyer.BuyerID, history.BuyerID)
			suite.Equal(domain.BuyerRegistered, history.Status)
		}).
		Return(nil).Once()

	buyer, err := suite.service.CreateBuyer(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(buyer)
	suite.Equal(domain.BuyerRegistered, buyer.CurrentStatus)
	suite.mockBuyerRepo.AssertExpectations(suite.T())
}

func (suite *BuyerServiceTestSuite) TestCreateBuyer_DuplicateNationalID() {
	ctx := context.Background()
	req := dto.CreateBuyerRequest{
		FirstName:  "Reza",
		LastName:   "Karimi",
		NationalID: "0011223344",
	}

	suite.mockBuyerRepo.On("SaveBuyer", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("domain.StatusHistory")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateBuyer(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockBuyerRepo.AssertExpectations(suite.T())
}

func (suite *BuyerServiceTestSuite) TestCreateBuyer_UnknownLoanRejected() {
	ctx := context.Background()
	loanID := uuid.NewString()
	req := dto.CreateBuyerRequest{
		FirstName:  "Reza",
		LastName:   "Karimi",
		NationalID: "0011223344",
		LoanID:     &loanID,
	}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateBuyer(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBuyerRepo.AssertNotCalled(suite.T(), "SaveBuyer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_ChangeAppendsHistory() {
	ctx := context.Background()
	buyerID := uuid.NewString()
	existing := &domain.Buyer{BuyerID: buyerID, CurrentStatus: domain.BuyerRegistered}
	note := "documents received"

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyerID).Return(existing, nil).Once()
	suite.mockBuyerRepo.On("UpdateBuyerStatus", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("*domain.StatusHistory"), (*portsrepo.CompletionSideEffects)(nil)).
		Run(func(args mock.Arguments) {
			buyer := args.Get(1).(domain.Buyer)
			history := args.Get(2).(*domain.StatusHistory)
			suite.Equal(domain.BuyerUnderReview, buyer.CurrentStatus)
			suite.Require().NotNil(history)
			suite.Equal(domain.BuyerUnderReview, history.Status)
			suite.Equal(note, history.Note)
		}).
		Return(nil).Once()

	buyer, err := suite.service.SetBuyerStatus(ctx, buyerID, dto.SetBuyerStatusRequest{Status: "under_review", Note: note}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BuyerUnderReview, buyer.CurrentStatus)
	suite.mockBuyerRepo.AssertExpectations(suite.T())
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_SameStatusIsNoOp() {
	ctx := context.Background()
	buyerID := uuid.NewString()
	existing := &domain.Buyer{BuyerID: buyerID, CurrentStatus: domain.BuyerUnderReview}

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyerID).Return(existing, nil).Once()

	buyer, err := suite.service.SetBuyerStatus(ctx, buyerID, dto.SetBuyerStatusRequest{Status: "under_review"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BuyerUnderReview, buyer.CurrentStatus)
	suite.mockBuyerRepo.AssertNotCalled(suite.T(), "UpdateBuyerStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_InvalidStatus() {
	ctx := context.Background()

	_, err := suite.service.SetBuyerStatus(ctx, uuid.NewString(), dto.SetBuyerStatusRequest{Status: "bogus"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBuyerRepo.AssertNotCalled(suite.T(), "FindBuyerByID", mock.Anything, mock.Anything)
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_CompletedIsTerminal() {
	ctx := context.Background()
	buyerID := uuid.NewString()
	existing := &domain.Buyer{BuyerID: buyerID, CurrentStatus: domain.BuyerCompleted}

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyerID).Return(existing, nil).Once()

	_, err := suite.service.SetBuyerStatus(ctx, buyerID, dto.SetBuyerStatusRequest{Status: "under_review"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBuyerRepo.AssertNotCalled(suite.T(), "UpdateBuyerStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_CompletionRequiresFields() {
	ctx := context.Background()
	buyerID := uuid.NewString()
	// No loan, no sale price, no bank.
	existing := &domain.Buyer{BuyerID: buyerID, CurrentStatus: domain.BuyerBankValidation}

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyerID).Return(existing, nil).Once()

	_, err := suite.service.SetBuyerStatus(ctx, buyerID, dto.SetBuyerStatusRequest{Status: "completed"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "loan")
	suite.Contains(err.Error(), "sale_price")
	suite.Contains(err.Error(), "bank")
	suite.mockBuyerRepo.AssertNotCalled(suite.T(), "UpdateBuyerStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_CompletionSeedsCreditorFromLoanHolder() {
	ctx := context.Background()
	buyer, loan := suite.buyerReadyForCompletion()

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyer.BuyerID).Return(buyer, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockBuyerRepo.On("UpdateBuyerStatus", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("*domain.StatusHistory"), mock.AnythingOfType("*repositories.CompletionSideEffects")).
		Run(func(args mock.Arguments) {
			completion := args.Get(3).(*portsrepo.CompletionSideEffects)
			suite.Require().NotNil(completion)
			suite.Equal(loan.LoanID, completion.LoanID)
			suite.Equal(loan.Holder.FirstName, completion.Creditor.FirstName)
			suite.Equal(loan.Holder.NationalID, completion.Creditor.NationalID)
			suite.Equal(loan.PaymentType, completion.Creditor.PaymentType)
			suite.Equal(domain.SettlementUnsettled, completion.Creditor.SettlementStatus)
			// The debt is the agreed sale price, not the loan's face amount.
			suite.True(completion.Creditor.TotalAmount.Equal(*buyer.SalePrice))
			suite.True(completion.Creditor.PaidAmount.IsZero())
			// The loan's recorder, not the buyer's broker, backs the new entry.
			suite.Require().NotNil(completion.Creditor.BrokerID)
			suite.Equal(loan.CreatedBy, *completion.Creditor.BrokerID)
		}).
		Return(nil).Once()

	updated, err := suite.service.SetBuyerStatus(ctx, buyer.BuyerID, dto.SetBuyerStatusRequest{Status: "completed"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BuyerCompleted, updated.CurrentStatus)
	suite.mockBuyerRepo.AssertExpectations(suite.T())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_CompletionRetriesOnceOnDuplicate() {
	ctx := context.Background()
	buyer, loan := suite.buyerReadyForCompletion()

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyer.BuyerID).Return(buyer, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockBuyerRepo.On("UpdateBuyerStatus", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("*domain.StatusHistory"), mock.AnythingOfType("*repositories.CompletionSideEffects")).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockBuyerRepo.On("UpdateBuyerStatus", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("*domain.StatusHistory"), mock.AnythingOfType("*repositories.CompletionSideEffects")).
		Return(nil).Once()

	updated, err := suite.service.SetBuyerStatus(ctx, buyer.BuyerID, dto.SetBuyerStatusRequest{Status: "completed"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BuyerCompleted, updated.CurrentStatus)
	suite.mockBuyerRepo.AssertExpectations(suite.T())
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_CompletionConflictAfterRetry() {
	ctx := context.Background()
	buyer, loan := suite.buyerReadyForCompletion()

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyer.BuyerID).Return(buyer, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockBuyerRepo.On("UpdateBuyerStatus", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("*domain.StatusHistory"), mock.AnythingOfType("*repositories.CompletionSideEffects")).
		Return(apperrors.ErrDuplicate).Twice()

	_, err := suite.service.SetBuyerStatus(ctx, buyer.BuyerID, dto.SetBuyerStatusRequest{Status: "completed"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockBuyerRepo.AssertExpectations(suite.T())
}

func (suite *BuyerServiceTestSuite) TestSetBuyerStatus_DefectStageMayComplete() {
	ctx := context.Background()
	buyer, loan := suite.buyerReadyForCompletion()
	buyer.CurrentStatus = domain.BuyerGuarantorDefective

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyer.BuyerID).Return(buyer, nil).Once()
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockBuyerRepo.On("UpdateBuyerStatus", ctx, mock.AnythingOfType("domain.Buyer"), mock.AnythingOfType("*domain.StatusHistory"), mock.AnythingOfType("*repositories.CompletionSideEffects")).
		Return(nil).Once()

	updated, err := suite.service.SetBuyerStatus(ctx, buyer.BuyerID, dto.SetBuyerStatusRequest{Status: "completed"}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BuyerCompleted, updated.CurrentStatus)
	suite.mockBuyerRepo.AssertExpectations(suite.T())
}

func (suite *BuyerServiceTestSuite) TestListStatusHistory_BuyerNotFound() {
	ctx := context.Background()
	buyerID := uuid.NewString()

	suite.mockBuyerRepo.On("FindBuyerByID", ctx, buyerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListStatusHistory(ctx, buyerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockBuyerRepo.AssertNotCalled(suite.T(), "ListStatusHistory", mock.Anything, mock.Anything)
}

func TestBuyerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BuyerServiceTestSuite))
}
