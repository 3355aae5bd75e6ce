package services

import (
	"context"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
)

// CreditorSvcFacade defines the settlement-ledger operations.
type CreditorSvcFacade interface {
	GetCreditorByID(ctx context.Context, creditorID string) (*domain.Creditor, error)
	GetCreditorByLoan(ctx context.Context, loanID, nationalID string) (*domain.Creditor, error)
	ListCreditors(ctx context.Context, limit int, nextToken *string) ([]domain.Creditor, *string, error)
	UpdateCreditor(ctx context.Context, creditorID string, req dto.UpdateCreditorRequest, userID string) (*domain.Creditor, error)
	GetSettlementSummary(ctx context.Context, creditorID string) (*dto.SettlementSummaryResponse, error)
}
