package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus classifies how much of a creditor's debt has been paid.
type SettlementStatus string

const (
	SettlementUnsettled SettlementStatus = "unsettled"
	SettlementPartial   SettlementStatus = "partial"
	SettlementSettled   SettlementStatus = "settled"
)

// Valid reports whether the settlement status is one of the known values.
func (s SettlementStatus) Valid() bool {
	switch s {
	case SettlementUnsettled, SettlementPartial, SettlementSettled:
		return true
	}
	return false
}

// CreditorCategory classifies the creditor entity.
type CreditorCategory string

const (
	CategoryIndividual   CreditorCategory = "individual"
	CategoryCompany      CreditorCategory = "company"
	CategoryOrganization CreditorCategory = "organization"
)

// Valid reports whether the category is one of the known values.
func (c CreditorCategory) Valid() bool {
	switch c {
	case CategoryIndividual, CategoryCompany, CategoryOrganization:
		return true
	}
	return false
}

// Creditor is a settlement-ledger entry: money owed to a loan's original
// holder once a sale completes. At most one exists per (loan, national ID).
//
// PaidAmount is dual-purpose: in cash mode it is user-settable input that gets
// clamped to TotalAmount on settlement; in installment mode it is a strictly
// derived cache equal to the sum of paid child installments, recomputed on
// every child mutation. Direct edits in installment mode never survive the
// next evaluation.
type Creditor struct {
	CreditorID             string           `json:"creditorID"`
	LoanID                 string           `json:"loanID"`
	FirstName              string           `json:"firstName"`
	LastName               string           `json:"lastName"`
	NationalID             string           `json:"nationalID"`
	Phone                  string           `json:"phone"`
	PaymentType            PaymentType      `json:"paymentType"`
	SettlementStatus       SettlementStatus `json:"settlementStatus"`
	InstallmentCount       *int             `json:"installmentCount"` // planned count, installment mode only
	TotalAmount            decimal.Decimal  `json:"totalAmount"`
	PaidAmount             decimal.Decimal  `json:"paidAmount"`
	SettlementDate         *time.Time       `json:"settlementDate"` // set once, on first reaching settled
	Category               CreditorCategory `json:"category"`
	BranchID               *string          `json:"branchID"`
	BrokerID               *string          `json:"brokerID"`
	Description            string           `json:"description"`
	InternalNotes          string           `json:"internalNotes"`
	FinalNotes             string           `json:"finalNotes"`
	NextFollowupDate       *time.Time       `json:"nextFollowupDate"`
	InternalDocumentNumber string           `json:"internalDocumentNumber"`
	AuditFields
}

// FullName returns the creditor's display name.
func (c *Creditor) FullName() string {
	return LoanHolder{FirstName: c.FirstName, LastName: c.LastName}.FullName()
}
