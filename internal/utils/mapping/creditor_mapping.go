package mapping

import (
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/models"
)

// ToModelCreditor converts a domain Creditor to a model Creditor.
func ToModelCreditor(d domain.Creditor) models.Creditor {
	return models.Creditor{
		CreditorID:             d.CreditorID,
		LoanID:                 d.LoanID,
		FirstName:              d.FirstName,
		LastName:               d.LastName,
		NationalID:             d.NationalID,
		Phone:                  d.Phone,
		PaymentType:            string(d.PaymentType),
		SettlementStatus:       string(d.SettlementStatus),
		InstallmentCount:       d.InstallmentCount,
		TotalAmount:            d.TotalAmount,
		PaidAmount:             d.PaidAmount,
		SettlementDate:         d.SettlementDate,
		Category:               string(d.Category),
		BranchID:               d.BranchID,
		BrokerID:               d.BrokerID,
		Description:            d.Description,
		InternalNotes:          d.InternalNotes,
		FinalNotes:             d.FinalNotes,
		NextFollowupDate:       d.NextFollowupDate,
		InternalDocumentNumber: d.InternalDocumentNumber,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditor converts a model Creditor to a domain Creditor.
func ToDomainCreditor(m models.Creditor) domain.Creditor {
	return domain.Creditor{
		CreditorID:             m.CreditorID,
		LoanID:                 m.LoanID,
		FirstName:              m.FirstName,
		LastName:               m.LastName,
		NationalID:             m.NationalID,
		Phone:                  m.Phone,
		PaymentType:            domain.PaymentType(m.PaymentType),
		SettlementStatus:       domain.SettlementStatus(m.SettlementStatus),
		InstallmentCount:       m.InstallmentCount,
		TotalAmount:            m.TotalAmount,
		PaidAmount:             m.PaidAmount,
		SettlementDate:         m.SettlementDate,
		Category:               domain.CreditorCategory(m.Category),
		BranchID:               m.BranchID,
		BrokerID:               m.BrokerID,
		Description:            m.Description,
		InternalNotes:          m.InternalNotes,
		FinalNotes:             m.FinalNotes,
		NextFollowupDate:       m.NextFollowupDate,
		InternalDocumentNumber: m.InternalDocumentNumber,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCreditorSlice converts a slice of model Creditors to domain Creditors.
func ToDomainCreditorSlice(ms []models.Creditor) []domain.Creditor {
	ds := make([]domain.Creditor, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCreditor(m)
	}
	return ds
}
