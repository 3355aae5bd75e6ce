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

// numberingRetries bounds the re-attempts when two writers race for the same
// installment number.
const numberingRetries = 1

type InstallmentService struct {
	InstallmentRepository portsrepo.InstallmentRepositoryFacade
	CreditorRepository    portsrepo.CreditorRepositoryFacade
}

func NewInstallmentService(installmentRepo portsrepo.InstallmentRepositoryFacade, creditorRepo portsrepo.CreditorRepositoryFacade) *InstallmentService {
	return &InstallmentService{
		InstallmentRepository: installmentRepo,
		CreditorRepository:    creditorRepo,
	}
}

// AddInstallment records one payment against a creditor's debt. The creditor
// must be in installment mode. The installment number is assigned inside the
// repository transaction and the parent aggregate is recomputed there too.
func (s *InstallmentService) AddInstallment(ctx context.Context, creditorID string, req dto.AddInstallmentRequest, userID string) (*domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PaidAmount.LessThan(decimal.Zero) {
		return nil, apperrors.NewValidationError("paid amount cannot be negative")
	}
	status := domain.InstallmentStatus(req.Status)
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid installment status: %s", req.Status))
	}

	creditor, err := s.CreditorRepository.FindCreditorByID(ctx, creditorID)
	if err != nil {
		return nil, err
	}
	if creditor.PaymentType != domain.PaymentInstallment {
		return nil, apperrors.NewValidationError("installments can only be added to installment-mode creditors")
	}

	now := time.Now()
	installment := domain.Installment{
		InstallmentID: uuid.NewString(),
		CreditorID:    creditorID,
		PaidAmount:    req.PaidAmount,
		DueDate:       req.DueDate,
		PaymentDate:   req.PaymentDate,
		Status:        status,
		Note:          req.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var saved *domain.Installment
	for attempt := 0; ; attempt++ {
		saved, err = s.InstallmentRepository.SaveInstallment(ctx, installment)
		if err == nil {
			break
		}
		// A concurrent insert can take the number we computed. Retrying
		// recomputes max+1 under the creditor lock.
		if errors.Is(err, apperrors.ErrDuplicate) && attempt < numberingRetries {
			logger.Warn("Installment numbering race, retrying", slog.String("creditor_id", creditorID), slog.Int("attempt", attempt+1))
			continue
		}
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("installment numbering for creditor %s conflicted with a concurrent insert", creditorID))
		}
		logger.Error("Failed to save installment in repository", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
		return nil, err
	}

	logger.Info("Installment added", slog.String("installment_id", saved.InstallmentID), slog.Int("number", saved.InstallmentNumber))
	return saved, nil
}

// UpdateInstallment edits an installment's payment fields. The installment
// number is immutable. The parent aggregate is recomputed in the repository
// transaction.
func (s *InstallmentService) UpdateInstallment(ctx context.Context, installmentID string, req dto.UpdateInstallmentRequest, userID string) (*domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	installment, err := s.InstallmentRepository.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	if req.PaidAmount != nil {
		if req.PaidAmount.LessThan(decimal.Zero) {
			return nil, apperrors.NewValidationError("paid amount cannot be negative")
		}
		installment.PaidAmount = *req.PaidAmount
	}
	if req.DueDate != nil {
		installment.DueDate = req.DueDate
	}
	if req.PaymentDate != nil {
		installment.PaymentDate = req.PaymentDate
	}
	if req.Status != nil {
		status := domain.InstallmentStatus(*req.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid installment status: %s", *req.Status))
		}
		installment.Status = status
	}
	if req.Note != nil {
		installment.Note = *req.Note
	}

	installment.LastUpdatedAt = time.Now()
	installment.LastUpdatedBy = userID

	if err := s.InstallmentRepository.UpdateInstallment(ctx, *installment); err != nil {
		logger.Error("Failed to update installment in repository", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
		return nil, err
	}

	logger.Info("Installment updated", slog.String("installment_id", installmentID))
	return installment, nil
}

// DeleteInstallment removes an installment. Later installments keep their
// numbers; the freed number is never reissued.
func (s *InstallmentService) DeleteInstallment(ctx context.Context, installmentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.InstallmentRepository.FindInstallmentByID(ctx, installmentID); err != nil {
		return err
	}

	if err := s.InstallmentRepository.DeleteInstallment(ctx, installmentID, userID, time.Now()); err != nil {
		logger.Error("Failed to delete installment in repository", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
		return err
	}

	logger.Info("Installment deleted", slog.String("installment_id", installmentID))
	return nil
}

func (s *InstallmentService) ListInstallments(ctx context.Context, creditorID string) ([]domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.CreditorRepository.FindCreditorByID(ctx, creditorID); err != nil {
		return nil, err
	}

	installments, err := s.InstallmentRepository.ListInstallmentsByCreditor(ctx, creditorID)
	if err != nil {
		logger.Error("Failed to list installments from repository", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	if installments == nil {
		installments = []domain.Installment{}
	}
	return installments, nil
}
