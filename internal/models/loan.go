package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus mirrors the loans.status column.
type LoanStatus string

// Loan is the persistence model for the loans table.
type Loan struct {
	LoanID              string
	BankName            string
	LoanType            string
	Amount              decimal.Decimal
	DurationMonths      int
	PurchaseRate        *decimal.Decimal
	PaymentType         string
	Status              LoanStatus
	RegistrationDate    *time.Time
	BranchID            *string
	Referrer            string
	HolderFirstName     string
	HolderLastName      string
	HolderNationalID    string
	HolderPhone         string
	Description         string
	AuditFields
}
