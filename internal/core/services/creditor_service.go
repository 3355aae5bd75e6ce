package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
	"github.com/phonix-app/loan_settlement_app/internal/middleware"
	"github.com/phonix-app/loan_settlement_app/internal/utils/settlement"
	"github.com/shopspring/decimal"
)

type CreditorService struct {
	CreditorRepository    portsrepo.CreditorRepositoryFacade
	InstallmentRepository portsrepo.InstallmentRepositoryFacade
}

func NewCreditorService(creditorRepo portsrepo.CreditorRepositoryFacade, installmentRepo portsrepo.InstallmentRepositoryFacade) *CreditorService {
	return &CreditorService{
		CreditorRepository:    creditorRepo,
		InstallmentRepository: installmentRepo,
	}
}

func (s *CreditorService) GetCreditorByID(ctx context.Context, creditorID string) (*domain.Creditor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	creditor, err := s.CreditorRepository.FindCreditorByID(ctx, creditorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find creditor by ID in repository", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
		}
		return nil, err
	}
	return creditor, nil
}

func (s *CreditorService) GetCreditorByLoan(ctx context.Context, loanID, nationalID string) (*domain.Creditor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	creditor, err := s.CreditorRepository.FindCreditorByLoanAndNationalID(ctx, loanID, nationalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find creditor by loan in repository", slog.String("error", err.Error()), slog.String("loan_id", loanID))
		}
		return nil, err
	}
	return creditor, nil
}

func (s *CreditorService) ListCreditors(ctx context.Context, limit int, nextToken *string) ([]domain.Creditor, *string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	creditors, newToken, err := s.CreditorRepository.ListCreditors(ctx, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list creditors from repository", slog.String("error", err.Error()), slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list creditors: %w", err)
	}
	if creditors == nil {
		creditors = []domain.Creditor{}
	}
	return creditors, newToken, nil
}

// UpdateCreditor edits a settlement-ledger entry. In cash mode the submitted
// paid amount and status run through the lump-sum rules: marking settled (or
// paying at least the total) clamps paid to total and stamps the settlement
// date once. In installment mode paid amount and status are derived from the
// installment book, so submitted values for them are discarded and the entry is
// re-evaluated in the same transaction the other edits land in.
func (s *CreditorService) UpdateCreditor(ctx context.Context, creditorID string, req dto.UpdateCreditorRequest, userID string) (*domain.Creditor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creditor, err := s.CreditorRepository.FindCreditorByID(ctx, creditorID)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		creditor.Phone = *req.Phone
	}
	if req.InstallmentCount != nil {
		if *req.InstallmentCount < 0 {
			return nil, apperrors.NewValidationError("installment count cannot be negative")
		}
		creditor.InstallmentCount = req.InstallmentCount
	}
	if req.Category != nil {
		category := domain.CreditorCategory(*req.Category)
		if !category.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid creditor category: %s", *req.Category))
		}
		creditor.Category = category
	}
	if req.BrokerID != nil {
		creditor.BrokerID = req.BrokerID
	}
	if req.InternalNotes != nil {
		creditor.InternalNotes = *req.InternalNotes
	}
	if req.FinalNotes != nil {
		creditor.FinalNotes = *req.FinalNotes
	}
	if req.NextFollowupDate != nil {
		creditor.NextFollowupDate = req.NextFollowupDate
	}
	if req.InternalDocumentNumber != nil {
		creditor.InternalDocumentNumber = *req.InternalDocumentNumber
	}

	now := time.Now()

	if creditor.PaymentType == domain.PaymentCash {
		paid := creditor.PaidAmount
		if req.PaidAmount != nil {
			if req.PaidAmount.LessThan(decimal.Zero) {
				return nil, apperrors.NewValidationError("paid amount cannot be negative")
			}
			paid = *req.PaidAmount
		}
		// Settled is sticky: an already-settled entry stays clamped to total
		// regardless of the submitted paid amount.
		markSettled := creditor.SettlementStatus == domain.SettlementSettled ||
			(req.SettlementStatus != nil && domain.SettlementStatus(*req.SettlementStatus) == domain.SettlementSettled)
		creditor.PaidAmount, creditor.SettlementStatus = settlement.EvaluateCash(paid, creditor.TotalAmount, markSettled)
		if creditor.SettlementStatus == domain.SettlementSettled && creditor.SettlementDate == nil {
			creditor.SettlementDate = &now
		}
	}

	creditor.LastUpdatedAt = now
	creditor.LastUpdatedBy = userID

	if creditor.PaymentType == domain.PaymentInstallment {
		// The book is the source of truth, not the submitted fields. The edit
		// and the recompute land in one transaction.
		creditor, err = s.CreditorRepository.UpdateCreditorAndRecalculate(ctx, *creditor)
		if err != nil {
			logger.Error("Failed to update creditor in repository", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			return nil, err
		}
	} else if err := s.CreditorRepository.UpdateCreditor(ctx, *creditor); err != nil {
		logger.Error("Failed to update creditor in repository", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
		return nil, err
	}

	logger.Info("Creditor updated successfully", slog.String("creditor_id", creditorID), slog.String("status", string(creditor.SettlementStatus)))
	return creditor, nil
}

// GetSettlementSummary projects a creditor's settlement position, including the
// installment counts for installment-mode entries.
func (s *CreditorService) GetSettlementSummary(ctx context.Context, creditorID string) (*dto.SettlementSummaryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creditor, err := s.CreditorRepository.FindCreditorByID(ctx, creditorID)
	if err != nil {
		return nil, err
	}

	summary := &dto.SettlementSummaryResponse{
		CreditorID:       creditor.CreditorID,
		PaymentType:      string(creditor.PaymentType),
		SettlementStatus: string(creditor.SettlementStatus),
		TotalAmount:      creditor.TotalAmount,
		PaidAmount:       creditor.PaidAmount,
		RemainingAmount:  creditor.TotalAmount.Sub(creditor.PaidAmount),
		PaidPercentage:   settlement.PaidPercentage(creditor.PaidAmount, creditor.TotalAmount),
		SettlementDate:   creditor.SettlementDate,
	}

	if creditor.PaymentType == domain.PaymentInstallment {
		installments, err := s.InstallmentRepository.ListInstallmentsByCreditor(ctx, creditorID)
		if err != nil {
			logger.Error("Failed to list installments for summary", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			return nil, fmt.Errorf("failed to list installments: %w", err)
		}
		summary.TotalInstallments = len(installments)
		for _, inst := range installments {
			if inst.Status == domain.InstallmentPaid {
				summary.PaidInstallments++
			}
		}
		summary.RemainingInstallments = summary.TotalInstallments - summary.PaidInstallments
	}

	return summary, nil
}
