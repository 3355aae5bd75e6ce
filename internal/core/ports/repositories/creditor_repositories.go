package repositories

import (
	"context"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
)

// CreditorRepositoryFacade defines persistence operations for settlement-ledger
// entries.
type CreditorRepositoryFacade interface {
	FindCreditorByID(ctx context.Context, creditorID string) (*domain.Creditor, error)
	FindCreditorByLoanAndNationalID(ctx context.Context, loanID, nationalID string) (*domain.Creditor, error)
	ListCreditors(ctx context.Context, limit int, nextToken *string) ([]domain.Creditor, *string, error)
	// UpdateCreditor persists the creditor's editable and derived fields as
	// already evaluated by the caller (cash mode).
	UpdateCreditor(ctx context.Context, creditor domain.Creditor) error
	// UpdateCreditorAndRecalculate persists the editable fields, then locks the
	// creditor row, re-derives paid_amount from the paid child installments,
	// applies the settlement threshold, and persists the result, all in one
	// transaction so stale submitted figures never land (installment mode).
	UpdateCreditorAndRecalculate(ctx context.Context, creditor domain.Creditor) (*domain.Creditor, error)
}
