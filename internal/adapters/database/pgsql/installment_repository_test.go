package pgsql_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phonix-app/loan_settlement_app/internal/adapters/database/pgsql"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupRepos boots a throwaway Postgres (or reuses TEST_PG_DSN), applies the
// schema, and returns the wired repositories.
func setupRepos(t *testing.T) (*portsrepo.RepositoryContainer, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("lse_test"),
			postgres.WithUsername("lse"),
			postgres.WithPassword("lse"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			t.Skipf("postgres container unavailable: %v", err)
		}
		t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applySchema(t, pool)
	return pgsql.NewRepositoryContainer(pool), pool
}

func applySchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	// Multi-statement DDL needs the simple protocol.
	res := conn.Conn().PgConn().Exec(ctx, string(schema))
	_, err = res.ReadAll()
	require.NoError(t, err)
}

// seedInstallmentCreditor registers a loan and opens an installment-mode ledger
// entry with a 1000 debt, returning the creditor ID.
func seedInstallmentCreditor(t *testing.T, repos *portsrepo.RepositoryContainer, pool *pgxpool.Pool) string {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	loan := domain.Loan{
		LoanID:           uuid.NewString(),
		BankName:         "Mellat",
		LoanType:         "housing",
		Amount:           decimal.NewFromInt(1000),
		PaymentType:      domain.PaymentInstallment,
		Status:           domain.LoanAvailable,
		RegistrationDate: &now,
		Holder: domain.LoanHolder{
			FirstName:  "Sara",
			LastName:   "Ahmadi",
			NationalID: "1234567890",
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "tester",
			LastUpdatedAt: now,
			LastUpdatedBy: "tester",
		},
	}
	require.NoError(t, repos.Loan.SaveLoan(ctx, loan))

	creditorID := uuid.NewString()
	_, err := pool.Exec(ctx, `
		INSERT INTO loan_creditors (
			creditor_id, loan_id, first_name, last_name, national_id,
			payment_type, total_amount, created_at, created_by,
			last_updated_at, last_updated_by
		) VALUES ($1, $2, 'Sara', 'Ahmadi', '1234567890', 'installment', 1000, $3, 'tester', $3, 'tester');
	`, creditorID, loan.LoanID, now)
	require.NoError(t, err)

	return creditorID
}

func TestInstallmentNumberingNeverReusesFreedNumbers(t *testing.T) {
	repos, pool := setupRepos(t)
	creditorID := seedInstallmentCreditor(t, repos, pool)
	ctx := context.Background()
	userID := uuid.NewString()

	addPaid := func(amount int64) *domain.Installment {
		now := time.Now()
		saved, err := repos.Installment.SaveInstallment(ctx, domain.Installment{
			InstallmentID: uuid.NewString(),
			CreditorID:    creditorID,
			PaidAmount:    decimal.NewFromInt(amount),
			Status:        domain.InstallmentPaid,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
		require.NoError(t, err)
		return saved
	}

	first := addPaid(100)
	second := addPaid(200)
	third := addPaid(300)
	require.Equal(t, 1, first.InstallmentNumber)
	require.Equal(t, 2, second.InstallmentNumber)
	require.Equal(t, 3, third.InstallmentNumber)

	require.NoError(t, repos.Installment.DeleteInstallment(ctx, second.InstallmentID, userID, time.Now()))

	// The freed number 2 is never reissued; numbering continues from the max.
	fourth := addPaid(600)
	require.Equal(t, 4, fourth.InstallmentNumber)

	installments, err := repos.Installment.ListInstallmentsByCreditor(ctx, creditorID)
	require.NoError(t, err)
	numbers := make([]int, 0, len(installments))
	for _, inst := range installments {
		numbers = append(numbers, inst.InstallmentNumber)
	}
	require.Equal(t, []int{1, 3, 4}, numbers)

	// Every mutation recomputed the aggregate: 100 + 300 + 600 settles the 1000 debt.
	creditor, err := repos.Creditor.FindCreditorByID(ctx, creditorID)
	require.NoError(t, err)
	require.True(t, creditor.PaidAmount.Equal(decimal.NewFromInt(1000)), "paid = %s", creditor.PaidAmount)
	require.Equal(t, domain.SettlementSettled, creditor.SettlementStatus)
	require.NotNil(t, creditor.SettlementDate)
}
