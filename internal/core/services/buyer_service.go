package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
	"github.com/phonix-app/loan_settlement_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// completionRetries bounds the re-attempts when the completion transaction
// loses a race on the creditor uniqueness constraint.
const completionRetries = 1

type BuyerService struct {
	BuyerRepository portsrepo.BuyerRepositoryFacade
	LoanRepository  portsrepo.LoanRepositoryFacade
}

func NewBuyerService(buyerRepo portsrepo.BuyerRepositoryFacade, loanRepo portsrepo.LoanRepositoryFacade) *BuyerService {
	return &BuyerService{
		BuyerRepository: buyerRepo,
		LoanRepository:  loanRepo,
	}
}

// CreateBuyer registers a new buyer at the start of the pipeline. The buyer and
// its first history row (registered) are written together.
func (s *BuyerService) CreateBuyer(ctx context.Context, req dto.CreateBuyerRequest, creatorUserID string) (*domain.Buyer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.RequestedAmount.LessThan(decimal.Zero) {
		return nil, apperrors.NewValidationError("requested amount cannot be negative")
	}
	if req.SalePrice != nil && req.SalePrice.LessThan(decimal.Zero) {
		return nil, apperrors.NewValidationError("sale price cannot be negative")
	}

	saleType := domain.SaleType(req.SaleType)
	if req.SaleType == "" {
		saleType = domain.SaleCash
	}
	if !saleType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid sale type: %s", req.SaleType))
	}

	if req.LoanID != nil && *req.LoanID != "" {
		if _, err := s.LoanRepository.FindLoanByID(ctx, *req.LoanID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("loan %s does not exist", *req.LoanID))
			}
			return nil, err
		}
	}

	now := time.Now()
	buyer := domain.Buyer{
		BuyerID:         uuid.NewString(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		NationalID:      req.NationalID,
		Phone:           req.Phone,
		LoanID:          req.LoanID,
		RequestedAmount: req.RequestedAmount,
		Bank:            req.Bank,
		SalePrice:       req.SalePrice,
		SaleType:        saleType,
		ApplicationDate: req.ApplicationDate,
		CurrentStatus:   domain.BuyerRegistered,
		InternalNotes:   req.InternalNotes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	statusDate := now
	if req.ApplicationDate != nil {
		statusDate = *req.ApplicationDate
	}
	firstHistory := domain.StatusHistory{
		HistoryID:  uuid.NewString(),
		BuyerID:    buyer.BuyerID,
		Status:     domain.BuyerRegistered,
		StatusDate: statusDate,
		CreatedAt:  now,
	}

	if err := s.BuyerRepository.SaveBuyer(ctx, buyer, firstHistory); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewAppError(409, fmt.Sprintf("buyer with national ID %s already exists", req.NationalID), apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save buyer in repository", slog.String("error", err.Error()), slog.String("buyer_id", buyer.BuyerID))
		return nil, err
	}

	logger.Info("Buyer registered successfully", slog.String("buyer_id", buyer.BuyerID))
	return &buyer, nil
}

func (s *BuyerService) GetBuyerByID(ctx context.Context, buyerID string) (*domain.Buyer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	buyer, err := s.BuyerRepository.FindBuyerByID(ctx, buyerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find buyer by ID in repository", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
		}
		return nil, err
	}
	return buyer, nil
}

func (s *BuyerService) ListBuyers(ctx context.Context, limit int, offset int) ([]domain.Buyer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	buyers, err := s.BuyerRepository.ListBuyers(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list buyers from repository", slog.String("error", err.Error()), slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list buyers: %w", err)
	}
	if buyers == nil {
		buyers = []domain.Buyer{}
	}
	return buyers, nil
}

// UpdateBuyer edits a buyer's non-status fields. Status moves go through
// SetBuyerStatus only.
func (s *BuyerService) UpdateBuyer(ctx context.Context, buyerID string, req dto.UpdateBuyerRequest, userID string) (*domain.Buyer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	buyer, err := s.BuyerRepository.FindBuyerByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		buyer.Phone = *req.Phone
	}
	if req.LoanID != nil {
		if *req.LoanID != "" {
			if _, err := s.LoanRepository.FindLoanByID(ctx, *req.LoanID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, apperrors.NewValidationError(fmt.Sprintf("loan %s does not exist", *req.LoanID))
				}
				return nil, err
			}
			buyer.LoanID = req.LoanID
		} else {
			buyer.LoanID = nil
		}
	}
	if req.RequestedAmount != nil {
		if req.RequestedAmount.LessThan(decimal.Zero) {
			return nil, apperrors.NewValidationError("requested amount cannot be negative")
		}
		buyer.RequestedAmount = *req.RequestedAmount
	}
	if req.Bank != nil {
		buyer.Bank = *req.Bank
	}
	if req.SalePrice != nil {
		if req.SalePrice.LessThan(decimal.Zero) {
			return nil, apperrors.NewValidationError("sale price cannot be negative")
		}
		buyer.SalePrice = req.SalePrice
	}
	if req.SaleType != nil {
		saleType := domain.SaleType(*req.SaleType)
		if !saleType.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid sale type: %s", *req.SaleType))
		}
		buyer.SaleType = saleType
	}
	if req.InternalNotes != nil {
		buyer.InternalNotes = *req.InternalNotes
	}

	buyer.LastUpdatedAt = time.Now()
	buyer.LastUpdatedBy = userID

	if err := s.BuyerRepository.UpdateBuyer(ctx, *buyer); err != nil {
		logger.Error("Failed to update buyer in repository", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
		return nil, err
	}

	logger.Info("Buyer updated successfully", slog.String("buyer_id", buyerID))
	return buyer, nil
}

// SetBuyerStatus moves a buyer to a new pipeline stage. A genuine change
// appends one history row; re-submitting the current stage is a no-op. Moving
// into completed additionally flips the linked loan to purchased and opens a
// settlement-ledger entry for the loan's holder, all in one transaction.
func (s *BuyerService) SetBuyerStatus(ctx context.Context, buyerID string, req dto.SetBuyerStatusRequest, userID string) (*domain.Buyer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	newStatus := domain.BuyerStatus(req.Status)
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid buyer status: %s", req.Status))
	}

	buyer, err := s.BuyerRepository.FindBuyerByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	if !buyer.CurrentStatus.CanTransition(newStatus) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("buyer cannot move from %s to %s", buyer.CurrentStatus, newStatus))
	}
	if buyer.CurrentStatus == newStatus {
		// No change, no history row, no side effects.
		return buyer, nil
	}

	now := time.Now()
	statusDate := now
	if req.StatusDate != nil {
		statusDate = *req.StatusDate
	}
	history := &domain.StatusHistory{
		HistoryID:  uuid.NewString(),
		BuyerID:    buyer.BuyerID,
		Status:     newStatus,
		StatusDate: statusDate,
		Note:       req.Note,
		CreatedAt:  now,
	}

	var completion *portsrepo.CompletionSideEffects
	if newStatus == domain.BuyerCompleted {
		if missing := buyer.MissingCompletionFields(); len(missing) > 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("completion requires: %s", strings.Join(missing, ", ")))
		}
		loan, err := s.LoanRepository.FindLoanByID(ctx, *buyer.LoanID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("loan %s does not exist", *buyer.LoanID))
			}
			return nil, err
		}
		completion = &portsrepo.CompletionSideEffects{
			LoanID:   loan.LoanID,
			Creditor: s.seedCreditor(loan, buyer, userID, now),
		}
	}

	buyer.CurrentStatus = newStatus
	buyer.LastUpdatedAt = now
	buyer.LastUpdatedBy = userID

	for attempt := 0; ; attempt++ {
		err = s.BuyerRepository.UpdateBuyerStatus(ctx, *buyer, history, completion)
		if err == nil {
			break
		}
		// A concurrent completion may have inserted the creditor first. The
		// retry's get-or-create sees the existing row and keeps it.
		if errors.Is(err, apperrors.ErrDuplicate) && attempt < completionRetries {
			logger.Warn("Completion lost creditor race, retrying", slog.String("buyer_id", buyerID), slog.Int("attempt", attempt+1))
			continue
		}
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("completion for buyer %s conflicted with a concurrent update", buyerID))
		}
		logger.Error("Failed to update buyer status in repository", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
		return nil, err
	}

	logger.Info("Buyer status updated", slog.String("buyer_id", buyerID), slog.String("status", string(newStatus)))
	return buyer, nil
}

// seedCreditor builds the settlement-ledger entry opened when a sale completes.
// The creditor is the loan's original holder; the debt equals the agreed sale
// price, falling back to the loan's face amount.
func (s *BuyerService) seedCreditor(loan *domain.Loan, buyer *domain.Buyer, userID string, now time.Time) domain.Creditor {
	total := loan.Amount
	if buyer.SalePrice != nil && !buyer.SalePrice.IsZero() {
		total = *buyer.SalePrice
	}
	// The loan's recorder doubles as the broker on the opened ledger entry.
	var brokerID *string
	if loan.CreatedBy != "" {
		recorder := loan.CreatedBy
		brokerID = &recorder
	}
	return domain.Creditor{
		CreditorID:       uuid.NewString(),
		LoanID:           loan.LoanID,
		FirstName:        loan.Holder.FirstName,
		LastName:         loan.Holder.LastName,
		NationalID:       loan.Holder.NationalID,
		Phone:            loan.Holder.Phone,
		PaymentType:      loan.PaymentType,
		SettlementStatus: domain.SettlementUnsettled,
		TotalAmount:      total,
		PaidAmount:       decimal.Zero,
		Category:         domain.CategoryIndividual,
		BranchID:         loan.BranchID,
		BrokerID:         brokerID,
		Description:      fmt.Sprintf("loan %s - %s - %s", loan.LoanID, loan.LoanType, loan.BankName),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func (s *BuyerService) ListStatusHistory(ctx context.Context, buyerID string) ([]domain.StatusHistory, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.BuyerRepository.FindBuyerByID(ctx, buyerID); err != nil {
		return nil, err
	}

	history, err := s.BuyerRepository.ListStatusHistory(ctx, buyerID)
	if err != nil {
		logger.Error("Failed to list status history from repository", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	if history == nil {
		history = []domain.StatusHistory{}
	}
	return history, nil
}
