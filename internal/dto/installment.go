package dto

import (
	"time"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddInstallmentRequest records one payment against a creditor's debt.
// The installment number is assigned server-side and never supplied.
type AddInstallmentRequest struct {
	PaidAmount  decimal.Decimal `json:"paidAmount" binding:"required"`
	DueDate     *time.Time      `json:"dueDate"`
	PaymentDate *time.Time      `json:"paymentDate"`
	Status      string          `json:"status" binding:"required,oneof=unpaid paid"`
	Note        string          `json:"note"`
}

// UpdateInstallmentRequest updates an installment's editable fields.
type UpdateInstallmentRequest struct {
	PaidAmount  *decimal.Decimal `json:"paidAmount"`
	DueDate     *time.Time       `json:"dueDate"`
	PaymentDate *time.Time       `json:"paymentDate"`
	Status      *string          `json:"status" binding:"omitempty,oneof=unpaid paid"`
	Note        *string          `json:"note"`
}

// InstallmentResponse defines the data returned for an installment.
type InstallmentResponse struct {
	InstallmentID     string          `json:"installmentID"`
	CreditorID        string          `json:"creditorID"`
	InstallmentNumber int             `json:"installmentNumber"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	DueDate           *time.Time      `json:"dueDate,omitempty"`
	PaymentDate       *time.Time      `json:"paymentDate,omitempty"`
	Status            string          `json:"status"`
	Note              string          `json:"note,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
}

// ToInstallmentResponse converts a domain.Installment to its DTO.
func ToInstallmentResponse(i *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:     i.InstallmentID,
		CreditorID:        i.CreditorID,
		InstallmentNumber: i.InstallmentNumber,
		PaidAmount:        i.PaidAmount,
		DueDate:           i.DueDate,
		PaymentDate:       i.PaymentDate,
		Status:            string(i.Status),
		Note:              i.Note,
		CreatedAt:         i.CreatedAt,
		LastUpdatedAt:     i.LastUpdatedAt,
	}
}

// ListInstallmentsResponse wraps a creditor's installments, ordered by number.
type ListInstallmentsResponse struct {
	Installments []InstallmentResponse `json:"installments"`
}
