package mapping

import (
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/models"
)

// ToModelInstallment converts a domain Installment to a model Installment.
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID:     d.InstallmentID,
		CreditorID:        d.CreditorID,
		InstallmentNumber: d.InstallmentNumber,
		PaidAmount:        d.PaidAmount,
		DueDate:           d.DueDate,
		PaymentDate:       d.PaymentDate,
		Status:            string(d.Status),
		Note:              d.Note,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstallment converts a model Installment to a domain Installment.
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID:     m.InstallmentID,
		CreditorID:        m.CreditorID,
		InstallmentNumber: m.InstallmentNumber,
		PaidAmount:        m.PaidAmount,
		DueDate:           m.DueDate,
		PaymentDate:       m.PaymentDate,
		Status:            domain.InstallmentStatus(m.Status),
		Note:              m.Note,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstallmentSlice converts model Installments to domain Installments.
func ToDomainInstallmentSlice(ms []models.Installment) []domain.Installment {
	ds := make([]domain.Installment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstallment(m)
	}
	return ds
}
