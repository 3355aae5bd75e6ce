package services

// ServiceContainer bundles the service facades handed to the HTTP layer at
// wiring time.
type ServiceContainer struct {
	Loan        LoanSvcFacade
	Buyer       BuyerSvcFacade
	Creditor    CreditorSvcFacade
	Installment InstallmentSvcFacade
}
