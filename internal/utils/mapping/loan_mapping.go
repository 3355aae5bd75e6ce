package mapping

import (
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan.
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:           d.LoanID,
		BankName:         d.BankName,
		LoanType:         d.LoanType,
		Amount:           d.Amount,
		DurationMonths:   d.DurationMonths,
		PurchaseRate:     d.PurchaseRate,
		PaymentType:      string(d.PaymentType),
		Status:           models.LoanStatus(d.Status),
		RegistrationDate: d.RegistrationDate,
		BranchID:         d.BranchID,
		Referrer:         d.Referrer,
		HolderFirstName:  d.Holder.FirstName,
		HolderLastName:   d.Holder.LastName,
		HolderNationalID: d.Holder.NationalID,
		HolderPhone:      d.Holder.Phone,
		Description:      d.Description,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:           m.LoanID,
		BankName:         m.BankName,
		LoanType:         m.LoanType,
		Amount:           m.Amount,
		DurationMonths:   m.DurationMonths,
		PurchaseRate:     m.PurchaseRate,
		PaymentType:      domain.PaymentType(m.PaymentType),
		Status:           domain.LoanStatus(m.Status),
		RegistrationDate: m.RegistrationDate,
		BranchID:         m.BranchID,
		Referrer:         m.Referrer,
		Holder: domain.LoanHolder{
			FirstName:  m.HolderFirstName,
			LastName:   m.HolderLastName,
			NationalID: m.HolderNationalID,
			Phone:      m.HolderPhone,
		},
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSlice converts a slice of model Loans to domain Loans.
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}
