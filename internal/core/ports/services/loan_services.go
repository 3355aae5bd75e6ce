package services

import (
	"context"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
)

// LoanSvcFacade defines the loan-registry operations exposed to handlers and
// other services.
type LoanSvcFacade interface {
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error)
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, limit int, nextToken *string) ([]domain.Loan, *string, error)
	// UpdateLoanStatus handles user-driven status edits (available,
	// unsuccessful). The purchased transition belongs to the completion flow.
	UpdateLoanStatus(ctx context.Context, loanID string, status domain.LoanStatus, userID string) (*domain.Loan, error)
}
