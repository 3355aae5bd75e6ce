package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus marks whether an installment has actually been paid.
type InstallmentStatus string

const (
	InstallmentUnpaid InstallmentStatus = "unpaid"
	InstallmentPaid   InstallmentStatus = "paid"
)

// Valid reports whether the installment status is one of the known values.
func (s InstallmentStatus) Valid() bool {
	return s == InstallmentUnpaid || s == InstallmentPaid
}

// Installment is one scheduled/recorded payment against a creditor's debt.
// InstallmentNumber is 1-based, assigned at creation as max(existing)+1 and
// never reused, even after a later installment is deleted.
type Installment struct {
	InstallmentID     string            `json:"installmentID"`
	CreditorID        string            `json:"creditorID"`
	InstallmentNumber int               `json:"installmentNumber"`
	PaidAmount        decimal.Decimal   `json:"paidAmount"`
	DueDate           *time.Time        `json:"dueDate"`
	PaymentDate       *time.Time        `json:"paymentDate"`
	Status            InstallmentStatus `json:"status"`
	Note              string            `json:"note"`
	AuditFields
}
