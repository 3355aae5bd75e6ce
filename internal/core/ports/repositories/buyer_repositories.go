package repositories

import (
	"context"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
)

// CompletionSideEffects carries the writes that must land atomically with a
// buyer's transition into the completed stage: the loan flip to purchased and
// the get-or-create of the settlement-ledger entry for the loan's holder.
type CompletionSideEffects struct {
	LoanID string
	// Creditor is the fully seeded candidate row. The insert is skipped when
	// an entry already exists for (loan, national ID); the existing row wins.
	Creditor domain.Creditor
}

// BuyerRepositoryFacade defines persistence operations for buyers and their
// status history.
type BuyerRepositoryFacade interface {
	// SaveBuyer inserts a new buyer together with its first history row in one
	// transaction. Returns ErrDuplicate when the national ID is already taken.
	SaveBuyer(ctx context.Context, buyer domain.Buyer, firstHistory domain.StatusHistory) error
	FindBuyerByID(ctx context.Context, buyerID string) (*domain.Buyer, error)
	ListBuyers(ctx context.Context, limit int, offset int) ([]domain.Buyer, error)
	UpdateBuyer(ctx context.Context, buyer domain.Buyer) error
	// UpdateBuyerStatus persists the buyer's new status, the optional history
	// row, and the optional completion side effects as one atomic unit. All
	// writes roll back together on any failure.
	UpdateBuyerStatus(ctx context.Context, buyer domain.Buyer, history *domain.StatusHistory, completion *CompletionSideEffects) error
	ListStatusHistory(ctx context.Context, buyerID string) ([]domain.StatusHistory, error)
}
