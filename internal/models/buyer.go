package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Buyer is the persistence model for the loan_buyers table.
type Buyer struct {
	BuyerID         string
	FirstName       string
	LastName        string
	NationalID      string
	Phone           string
	LoanID          *string
	RequestedAmount decimal.Decimal
	Bank            string
	SalePrice       *decimal.Decimal
	SaleType        string
	ApplicationDate *time.Time
	CurrentStatus   string
	BrokerID        *string
	InternalNotes   string
	AuditFields
}

// StatusHistory is the persistence model for the loan_buyer_status_history table.
type StatusHistory struct {
	HistoryID  string
	BuyerID    string
	Status     string
	StatusDate time.Time
	Note       string
	CreatedAt  time.Time
}
