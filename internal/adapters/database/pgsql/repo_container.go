package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
)

// NewRepositoryContainer wires the pgx-backed repositories into the container
// handed to the service layer.
func NewRepositoryContainer(pool *pgxpool.Pool) *portsrepo.RepositoryContainer {
	return &portsrepo.RepositoryContainer{
		Loan:        newPgxLoanRepository(pool),
		Buyer:       newPgxBuyerRepository(pool),
		Creditor:    newPgxCreditorRepository(pool),
		Installment: newPgxInstallmentRepository(pool),
	}
}
