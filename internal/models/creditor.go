package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Creditor is the persistence model for the loan_creditors table.
// Unique per (loan_id, national_id).
type Creditor struct {
	CreditorID             string
	LoanID                 string
	FirstName              string
	LastName               string
	NationalID             string
	Phone                  string
	PaymentType            string
	SettlementStatus       string
	InstallmentCount       *int
	TotalAmount            decimal.Decimal
	PaidAmount             decimal.Decimal
	SettlementDate         *time.Time
	Category               string
	BranchID               *string
	BrokerID               *string
	Description            string
	InternalNotes          string
	FinalNotes             string
	NextFollowupDate       *time.Time
	InternalDocumentNumber string
	AuditFields
}

// Installment is the persistence model for the loan_creditor_installments table.
// Unique per (creditor_id, installment_number).
type Installment struct {
	InstallmentID     string
	CreditorID        string
	InstallmentNumber int
	PaidAmount        decimal.Decimal
	DueDate           *time.Time
	PaymentDate       *time.Time
	Status            string
	Note              string
	AuditFields
}
