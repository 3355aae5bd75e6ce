package dto

import (
	"time"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateCreditorRequest updates a settlement-ledger entry. PaidAmount and
// SettlementStatus are only meaningful input in cash mode; in installment mode
// they are derived from the installment book and any submitted values are
// overwritten by the recompute pass.
type UpdateCreditorRequest struct {
	Phone                  *string          `json:"phone"`
	PaidAmount             *decimal.Decimal `json:"paidAmount"`
	SettlementStatus       *string          `json:"settlementStatus" binding:"omitempty,oneof=unsettled partial settled"`
	InstallmentCount       *int             `json:"installmentCount"`
	Category               *string          `json:"category" binding:"omitempty,oneof=individual company organization"`
	BrokerID               *string          `json:"brokerID"`
	InternalNotes          *string          `json:"internalNotes"`
	FinalNotes             *string          `json:"finalNotes"`
	NextFollowupDate       *time.Time       `json:"nextFollowupDate"`
	InternalDocumentNumber *string          `json:"internalDocumentNumber"`
}

// CreditorResponse defines the data returned for a settlement-ledger entry.
type CreditorResponse struct {
	CreditorID             string          `json:"creditorID"`
	LoanID                 string          `json:"loanID"`
	FirstName              string          `json:"firstName"`
	LastName               string          `json:"lastName"`
	NationalID             string          `json:"nationalID"`
	Phone                  string          `json:"phone,omitempty"`
	PaymentType            string          `json:"paymentType"`
	SettlementStatus       string          `json:"settlementStatus"`
	InstallmentCount       *int            `json:"installmentCount,omitempty"`
	TotalAmount            decimal.Decimal `json:"totalAmount"`
	PaidAmount             decimal.Decimal `json:"paidAmount"`
	SettlementDate         *time.Time      `json:"settlementDate,omitempty"`
	Category               string          `json:"category"`
	BranchID               *string         `json:"branchID,omitempty"`
	BrokerID               *string         `json:"brokerID,omitempty"`
	Description            string          `json:"description,omitempty"`
	InternalNotes          string          `json:"internalNotes,omitempty"`
	FinalNotes             string          `json:"finalNotes,omitempty"`
	NextFollowupDate       *time.Time      `json:"nextFollowupDate,omitempty"`
	InternalDocumentNumber string          `json:"internalDocumentNumber,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
	LastUpdatedAt          time.Time       `json:"lastUpdatedAt"`
}

// ToCreditorResponse converts a domain.Creditor to a CreditorResponse DTO.
func ToCreditorResponse(c *domain.Creditor) CreditorResponse {
	return CreditorResponse{
		CreditorID:             c.CreditorID,
		LoanID:                 c.LoanID,
		FirstName:              c.FirstName,
		LastName:               c.LastName,
		NationalID:             c.NationalID,
		Phone:                  c.Phone,
		PaymentType:            string(c.PaymentType),
		SettlementStatus:       string(c.SettlementStatus),
		InstallmentCount:       c.InstallmentCount,
		TotalAmount:            c.TotalAmount,
		PaidAmount:             c.PaidAmount,
		SettlementDate:         c.SettlementDate,
		Category:               string(c.Category),
		BranchID:               c.BranchID,
		BrokerID:               c.BrokerID,
		Description:            c.Description,
		InternalNotes:          c.InternalNotes,
		FinalNotes:             c.FinalNotes,
		NextFollowupDate:       c.NextFollowupDate,
		InternalDocumentNumber: c.InternalDocumentNumber,
		CreatedAt:              c.CreatedAt,
		LastUpdatedAt:          c.LastUpdatedAt,
	}
}

// SettlementSummaryResponse is the read-only projection of a creditor's
// settlement position.
type SettlementSummaryResponse struct {
	CreditorID            string          `json:"creditorID"`
	PaymentType           string          `json:"paymentType"`
	SettlementStatus      string          `json:"settlementStatus"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	PaidAmount            decimal.Decimal `json:"paidAmount"`
	RemainingAmount       decimal.Decimal `json:"remainingAmount"`
	PaidPercentage        decimal.Decimal `json:"paidPercentage"`
	TotalInstallments     int             `json:"totalInstallments"`
	PaidInstallments      int             `json:"paidInstallments"`
	RemainingInstallments int             `json:"remainingInstallments"`
	SettlementDate        *time.Time      `json:"settlementDate,omitempty"`
}

// ListCreditorsParams defines query parameters for listing creditors.
type ListCreditorsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListCreditorsResponse wraps the list of creditors with the next token.
type ListCreditorsResponse struct {
	Creditors []CreditorResponse `json:"creditors"`
	NextToken *string            `json:"nextToken,omitempty"`
}
