package dto

import (
	"time"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBuyerRequest defines the data needed to register a buyer.
type CreateBuyerRequest struct {
	FirstName       string           `json:"firstName" binding:"required"`
	LastName        string           `json:"lastName" binding:"required"`
	NationalID      string           `json:"nationalID" binding:"required,nationalid"`
	Phone           string           `json:"phone"`
	LoanID          *string          `json:"loanID"`
	RequestedAmount decimal.Decimal  `json:"requestedAmount"`
	Bank            string           `json:"bank"`
	SalePrice       *decimal.Decimal `json:"salePrice"`
	SaleType        string           `json:"saleType" binding:"omitempty,oneof=cash conditional"`
	ApplicationDate *time.Time       `json:"applicationDate"`
	InternalNotes   string           `json:"internalNotes"`
}

// UpdateBuyerRequest updates a buyer's editable fields. Status changes go
// through SetBuyerStatusRequest so the pipeline side effects stay in one path.
type UpdateBuyerRequest struct {
	Phone           *string          `json:"phone"`
	LoanID          *string          `json:"loanID"`
	RequestedAmount *decimal.Decimal `json:"requestedAmount"`
	Bank            *string          `json:"bank"`
	SalePrice       *decimal.Decimal `json:"salePrice"`
	SaleType        *string          `json:"saleType" binding:"omitempty,oneof=cash conditional"`
	InternalNotes   *string          `json:"internalNotes"`
}

// SetBuyerStatusRequest moves a buyer to a new pipeline stage.
type SetBuyerStatusRequest struct {
	Status     string     `json:"status" binding:"required,oneof=registered under_review qualification_transfer bank_validation loan_paid guarantor_defective borrower_defective completed"`
	Note       string     `json:"note"`
	StatusDate *time.Time `json:"statusDate"` // defaults to today
}

// BuyerResponse defines the data returned for a buyer.
type BuyerResponse struct {
	BuyerID         string           `json:"buyerID"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	NationalID      string           `json:"nationalID"`
	Phone           string           `json:"phone,omitempty"`
	LoanID          *string          `json:"loanID,omitempty"`
	RequestedAmount decimal.Decimal  `json:"requestedAmount"`
	Bank            string           `json:"bank,omitempty"`
	SalePrice       *decimal.Decimal `json:"salePrice,omitempty"`
	SaleType        string           `json:"saleType"`
	ApplicationDate *time.Time       `json:"applicationDate,omitempty"`
	CurrentStatus   string           `json:"currentStatus"`
	BrokerID        *string          `json:"brokerID,omitempty"`
	InternalNotes   string           `json:"internalNotes,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	LastUpdatedAt   time.Time        `json:"lastUpdatedAt"`
}

// ToBuyerResponse converts a domain.Buyer to a BuyerResponse DTO.
func ToBuyerResponse(b *domain.Buyer) BuyerResponse {
	return BuyerResponse{
		BuyerID:         b.BuyerID,
		FirstName:       b.FirstName,
		LastName:        b.LastName,
		NationalID:      b.NationalID,
		Phone:           b.Phone,
		LoanID:          b.LoanID,
		RequestedAmount: b.RequestedAmount,
		Bank:            b.Bank,
		SalePrice:       b.SalePrice,
		SaleType:        string(b.SaleType),
		ApplicationDate: b.ApplicationDate,
		CurrentStatus:   string(b.CurrentStatus),
		BrokerID:        b.BrokerID,
		InternalNotes:   b.InternalNotes,
		CreatedAt:       b.CreatedAt,
		LastUpdatedAt:   b.LastUpdatedAt,
	}
}

// StatusHistoryResponse is one row of a buyer's status audit trail.
type StatusHistoryResponse struct {
	HistoryID  string    `json:"historyID"`
	Status     string    `json:"status"`
	StatusDate time.Time `json:"statusDate"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToStatusHistoryResponse converts a domain.StatusHistory row to its DTO.
func ToStatusHistoryResponse(h domain.StatusHistory) StatusHistoryResponse {
	return StatusHistoryResponse{
		HistoryID:  h.HistoryID,
		Status:     string(h.Status),
		StatusDate: h.StatusDate,
		Note:       h.Note,
		CreatedAt:  h.CreatedAt,
	}
}

// ListStatusHistoryResponse wraps a buyer's history rows, newest first.
type ListStatusHistoryResponse struct {
	History []StatusHistoryResponse `json:"history"`
}

// ListBuyersParams defines query parameters for listing buyers.
type ListBuyersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListBuyersResponse wraps the list of buyers.
type ListBuyersResponse struct {
	Buyers []BuyerResponse `json:"buyers"`
}
