package dto

import (
	"time"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanHolderRequest carries the original holder's identity, captured at
// loan-registration time.
type LoanHolderRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	NationalID string `json:"nationalID" binding:"required,nationalid"`
	Phone      string `json:"phone"`
}

// CreateLoanRequest defines the data needed to register a loan offer.
type CreateLoanRequest struct {
	BankName         string            `json:"bankName" binding:"required"`
	LoanType         string            `json:"loanType" binding:"required"`
	Amount           decimal.Decimal   `json:"amount" binding:"required"`
	DurationMonths   int               `json:"durationMonths"`
	PurchaseRate     *decimal.Decimal  `json:"purchaseRate"`
	PaymentType      string            `json:"paymentType" binding:"omitempty,oneof=cash installment"`
	RegistrationDate *time.Time        `json:"registrationDate"`
	BranchID         *string           `json:"branchID"`
	Referrer         string            `json:"referrer"`
	Holder           LoanHolderRequest `json:"holder" binding:"required"`
	Description      string            `json:"description"`
}

// UpdateLoanStatusRequest changes a loan's market status. Transitions into
// purchased are reserved for the completion flow and rejected here.
type UpdateLoanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available unsuccessful"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID           string            `json:"loanID"`
	BankName         string            `json:"bankName"`
	LoanType         string            `json:"loanType"`
	Amount           decimal.Decimal   `json:"amount"`
	DurationMonths   int               `json:"durationMonths"`
	PurchaseRate     *decimal.Decimal  `json:"purchaseRate,omitempty"`
	PaymentType      string            `json:"paymentType"`
	Status           string            `json:"status"`
	RegistrationDate *time.Time        `json:"registrationDate,omitempty"`
	BranchID         *string           `json:"branchID,omitempty"`
	Referrer         string            `json:"referrer,omitempty"`
	Holder           LoanHolderRequest `json:"holder"`
	Description      string            `json:"description,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	CreatedBy        string            `json:"createdBy"`
	LastUpdatedAt    time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy    string            `json:"lastUpdatedBy"`
}

// ToLoanResponse converts a domain.Loan to a LoanResponse DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:           l.LoanID,
		BankName:         l.BankName,
		LoanType:         l.LoanType,
		Amount:           l.Amount,
		DurationMonths:   l.DurationMonths,
		PurchaseRate:     l.PurchaseRate,
		PaymentType:      string(l.PaymentType),
		Status:           string(l.Status),
		RegistrationDate: l.RegistrationDate,
		BranchID:         l.BranchID,
		Referrer:         l.Referrer,
		Holder: LoanHolderRequest{
			FirstName:  l.Holder.FirstName,
			LastName:   l.Holder.LastName,
			NationalID: l.Holder.NationalID,
			Phone:      l.Holder.Phone,
		},
		Description:   l.Description,
		CreatedAt:     l.CreatedAt,
		CreatedBy:     l.CreatedBy,
		LastUpdatedAt: l.LastUpdatedAt,
		LastUpdatedBy: l.LastUpdatedBy,
	}
}

// ListLoansParams defines query parameters for listing loans.
type ListLoansParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListLoansResponse wraps the list of loans with the next pagination token.
type ListLoansResponse struct {
	Loans     []LoanResponse `json:"loans"`
	NextToken *string        `json:"nextToken,omitempty"`
}
