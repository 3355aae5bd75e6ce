package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyerStatus is one stage of the buyer qualification pipeline.
type BuyerStatus string

const (
	BuyerRegistered            BuyerStatus = "registered"
	BuyerUnderReview           BuyerStatus = "under_review"
	BuyerQualificationTransfer BuyerStatus = "qualification_transfer"
	BuyerBankValidation        BuyerStatus = "bank_validation"
	BuyerLoanPaid              BuyerStatus = "loan_paid"
	BuyerGuarantorDefective    BuyerStatus = "guarantor_defective"
	BuyerBorrowerDefective     BuyerStatus = "borrower_defective"
	BuyerCompleted             BuyerStatus = "completed"
)

// Valid reports whether the status is one of the known pipeline stages.
func (s BuyerStatus) Valid() bool {
	switch s {
	case BuyerRegistered, BuyerUnderReview, BuyerQualificationTransfer,
		BuyerBankValidation, BuyerLoanPaid, BuyerGuarantorDefective,
		BuyerBorrowerDefective, BuyerCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a buyer may move from s to next. The pipeline
// is deliberately permissive: any stage may move to any other, including the
// defect stages moving straight to completed. The single guard is that
// completed is terminal; re-saving completed is treated as a no-op upstream.
func (s BuyerStatus) CanTransition(next BuyerStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == BuyerCompleted {
		return next == BuyerCompleted
	}
	return true
}

// SaleType classifies how the sale to the buyer is priced.
type SaleType string

const (
	SaleCash        SaleType = "cash"
	SaleConditional SaleType = "conditional"
)

// Valid reports whether the sale type is one of the known values.
func (s SaleType) Valid() bool {
	return s == SaleCash || s == SaleConditional
}

// Buyer is a candidate purchasing rights to a specific loan, tracked through
// the qualification pipeline.
type Buyer struct {
	BuyerID         string           `json:"buyerID"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	NationalID      string           `json:"nationalID"` // unique across buyers
	Phone           string           `json:"phone"`
	LoanID          *string          `json:"loanID"`
	RequestedAmount decimal.Decimal  `json:"requestedAmount"`
	Bank            string           `json:"bank"` // operating bank, required on completion
	SalePrice       *decimal.Decimal `json:"salePrice"`
	SaleType        SaleType         `json:"saleType"`
	ApplicationDate *time.Time       `json:"applicationDate"`
	CurrentStatus   BuyerStatus      `json:"currentStatus"`
	BrokerID        *string          `json:"brokerID"` // recording broker, opaque user reference
	InternalNotes   string           `json:"internalNotes"`
	AuditFields
}

// MissingCompletionFields returns the names of the fields that must be set
// before the buyer may enter the completed stage.
func (b *Buyer) MissingCompletionFields() []string {
	var missing []string
	if b.LoanID == nil || *b.LoanID == "" {
		missing = append(missing, "loan")
	}
	if b.SalePrice == nil || b.SalePrice.IsZero() {
		missing = append(missing, "sale_price")
	}
	if b.Bank == "" {
		missing = append(missing, "bank")
	}
	return missing
}
