package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus indicates whether a loan offer is still on the market.
type LoanStatus string

const (
	LoanAvailable    LoanStatus = "available"
	LoanUnsuccessful LoanStatus = "unsuccessful"
	LoanPurchased    LoanStatus = "purchased"
)

// Valid reports whether the status is one of the known values.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanAvailable, LoanUnsuccessful, LoanPurchased:
		return true
	}
	return false
}

// LoanHolder is the identity of the loan's original holder, captured when the
// loan offer is registered. Once a sale completes this person becomes the
// creditor who is owed the payoff.
type LoanHolder struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	NationalID string `json:"nationalID"`
	Phone      string `json:"phone"`
}

// FullName returns the holder's display name.
func (h LoanHolder) FullName() string {
	return strings.TrimSpace(h.FirstName + " " + h.LastName)
}

// Loan represents a purchasable bank loan offer.
// Status is one-directional: once purchased it never reverts to available.
type Loan struct {
	LoanID           string           `json:"loanID"`
	BankName         string           `json:"bankName"`
	LoanType         string           `json:"loanType"` // free-text label (housing, personal, vehicle, ...)
	Amount           decimal.Decimal  `json:"amount"`
	DurationMonths   int              `json:"durationMonths"`
	PurchaseRate     *decimal.Decimal `json:"purchaseRate"` // cost to acquire, optional
	PaymentType      PaymentType      `json:"paymentType"`
	Status           LoanStatus       `json:"status"`
	RegistrationDate *time.Time       `json:"registrationDate"`
	BranchID         *string          `json:"branchID"` // opaque branch reference
	Referrer         string           `json:"referrer"`
	Holder           LoanHolder       `json:"holder"`
	Description      string           `json:"description"`
	AuditFields
}
