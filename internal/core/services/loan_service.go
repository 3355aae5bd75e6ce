package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
	"github.com/phonix-app/loan_settlement_app/internal/middleware"
	"github.com/shopspring/decimal"
)

type LoanService struct {
	LoanRepository portsrepo.LoanRepositoryFacade
}

func NewLoanService(repo portsrepo.LoanRepositoryFacade) *LoanService {
	return &LoanService{LoanRepository: repo}
}

// CreateLoan registers a new loan offer. New loans always start on the market
// as available.
func (s *LoanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationError("loan amount must be positive")
	}
	if req.PurchaseRate != nil && req.PurchaseRate.LessThan(decimal.Zero) {
		return nil, apperrors.NewValidationError("purchase rate cannot be negative")
	}

	paymentType := domain.PaymentType(req.PaymentType)
	if req.PaymentType == "" {
		paymentType = domain.PaymentInstallment
	}
	if !paymentType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid payment type: %s", req.PaymentType))
	}

	now := time.Now()
	registrationDate := req.RegistrationDate
	if registrationDate == nil {
		registrationDate = &now
	}

	loan := domain.Loan{
		LoanID:           uuid.NewString(),
		BankName:         req.BankName,
		LoanType:         req.LoanType,
		Amount:           req.Amount,
		DurationMonths:   req.DurationMonths,
		PurchaseRate:     req.PurchaseRate,
		PaymentType:      paymentType,
		Status:           domain.LoanAvailable,
		RegistrationDate: registrationDate,
		BranchID:         req.BranchID,
		Referrer:         req.Referrer,
		Holder: domain.LoanHolder{
			FirstName:  req.Holder.FirstName,
			LastName:   req.Holder.LastName,
			NationalID: req.Holder.NationalID,
			Phone:      req.Holder.Phone,
		},
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.LoanRepository.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan in repository", slog.String("error", err.Error()), slog.String("loan_id", loan.LoanID))
		return nil, err
	}

	logger.Info("Loan registered successfully", slog.String("loan_id", loan.LoanID), slog.String("bank", loan.BankName))
	return &loan, nil
}

func (s *LoanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	loan, err := s.LoanRepository.FindLoanByID(ctx, loanID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find loan by ID in repository", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		}
		return nil, err
	}
	return loan, nil
}

func (s *LoanService) ListLoans(ctx context.Context, limit int, nextToken *string) ([]domain.Loan, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	loans, newToken, err := s.LoanRepository.ListLoans(ctx, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list loans from repository", slog.String("error", err.Error()), slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list loans: %w", err)
	}
	if loans == nil {
		loans = []domain.Loan{}
	}
	return loans, newToken, nil
}

// UpdateLoanStatus handles user-driven market status edits. A purchased loan is
// terminal and the purchased status itself can only be reached through the
// buyer completion flow, never through this path.
func (s *LoanService) UpdateLoanStatus(ctx context.Context, loanID string, status domain.LoanStatus, userID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid loan status: %s", status))
	}
	if status == domain.LoanPurchased {
		return nil, apperrors.NewValidationError("loans are marked purchased by completing a buyer, not directly")
	}

	loan, err := s.LoanRepository.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status == domain.LoanPurchased {
		return nil, apperrors.NewValidationError("purchased loans cannot change status")
	}
	if loan.Status == status {
		return loan, nil
	}

	now := time.Now()
	if err := s.LoanRepository.UpdateLoanStatus(ctx, loanID, status, userID, now); err != nil {
		logger.Error("Failed to update loan status in repository", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		return nil, err
	}

	loan.Status = status
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = userID
	logger.Info("Loan status updated", slog.String("loan_id", loanID), slog.String("status", string(status)))
	return loan, nil
}
