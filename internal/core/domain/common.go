package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// PaymentType selects how a debt is settled: one lump sum or scheduled installments.
type PaymentType string

const (
	PaymentCash        PaymentType = "cash"
	PaymentInstallment PaymentType = "installment"
)

// Valid reports whether the payment type is one of the known values.
func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentInstallment
}
