package repositories

import (
	"context"
	"time"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
)

// InstallmentRepositoryFacade defines persistence operations for the
// installment book. Every mutation locks the owning creditor row and
// recomputes its settlement aggregate in the same transaction.
type InstallmentRepositoryFacade interface {
	// SaveInstallment assigns the next installment number for the creditor,
	// inserts the row, recomputes the parent aggregate, and returns the stored
	// installment. Returns ErrDuplicate when the assigned number was taken by
	// a concurrent writer.
	SaveInstallment(ctx context.Context, installment domain.Installment) (*domain.Installment, error)
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)
	ListInstallmentsByCreditor(ctx context.Context, creditorID string) ([]domain.Installment, error)
	// UpdateInstallment persists editable fields (never the number) and
	// recomputes the parent aggregate.
	UpdateInstallment(ctx context.Context, installment domain.Installment) error
	// DeleteInstallment removes the row and recomputes the parent aggregate.
	// Later installments keep their numbers.
	DeleteInstallment(ctx context.Context, installmentID string, deletedByUserID string, deletedAt time.Time) error
}
