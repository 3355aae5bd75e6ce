package services

import (
	"context"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
)

// InstallmentSvcFacade defines the installment-book operations. Every mutation
// cascades a recompute of the owning creditor's settlement aggregate.
type InstallmentSvcFacade interface {
	AddInstallment(ctx context.Context, creditorID string, req dto.AddInstallmentRequest, userID string) (*domain.Installment, error)
	UpdateInstallment(ctx context.Context, installmentID string, req dto.UpdateInstallmentRequest, userID string) (*domain.Installment, error)
	DeleteInstallment(ctx context.Context, installmentID string, userID string) error
	ListInstallments(ctx context.Context, creditorID string) ([]domain.Installment, error)
}
