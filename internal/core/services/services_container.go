package services

import (
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/phonix-app/loan_settlement_app/internal/core/ports/services"
)

// NewServiceContainer wires the repositories into the service facades.
func NewServiceContainer(repos *portsrepo.RepositoryContainer) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Loan:        NewLoanService(repos.Loan),
		Buyer:       NewBuyerService(repos.Buyer, repos.Loan),
		Creditor:    NewCreditorService(repos.Creditor, repos.Installment),
		Installment: NewInstallmentService(repos.Installment, repos.Creditor),
	}
}
