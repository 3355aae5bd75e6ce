package repositories

// RepositoryContainer bundles the repository facades handed to the service
// layer at wiring time.
type RepositoryContainer struct {
	Loan        LoanRepositoryFacade
	Buyer       BuyerRepositoryFacade
	Creditor    CreditorRepositoryFacade
	Installment InstallmentRepositoryFacade
}
