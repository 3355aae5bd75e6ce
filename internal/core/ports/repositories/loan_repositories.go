package repositories

import (
	"context"
	"time"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
)

// LoanRepositoryFacade defines persistence operations for loan offers.
type LoanRepositoryFacade interface {
	SaveLoan(ctx context.Context, loan domain.Loan) error
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	// UpdateLoanStatus writes a new market status. Transitions away from
	// purchased are refused at the service layer, not here.
	UpdateLoanStatus(ctx context.Context, loanID string, status domain.LoanStatus, updatedByUserID string, updatedAt time.Time) error
	ListLoans(ctx context.Context, limit int, nextToken *string) ([]domain.Loan, *string, error)
}
