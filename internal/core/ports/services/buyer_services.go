package services

import (
	"context"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
)

// BuyerSvcFacade defines the buyer-pipeline operations. SetBuyerStatus is the
// single entry point for stage changes and triggers the completion
// orchestration when a buyer enters the completed stage.
type BuyerSvcFacade interface {
	CreateBuyer(ctx context.Context, req dto.CreateBuyerRequest, creatorUserID string) (*domain.Buyer, error)
	GetBuyerByID(ctx context.Context, buyerID string) (*domain.Buyer, error)
	ListBuyers(ctx context.Context, limit int, offset int) ([]domain.Buyer, error)
	UpdateBuyer(ctx context.Context, buyerID string, req dto.UpdateBuyerRequest, userID string) (*domain.Buyer, error)
	SetBuyerStatus(ctx context.Context, buyerID string, req dto.SetBuyerStatusRequest, userID string) (*domain.Buyer, error)
	ListStatusHistory(ctx context.Context, buyerID string) ([]domain.StatusHistory, error)
}
