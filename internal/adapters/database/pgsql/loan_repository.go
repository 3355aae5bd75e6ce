package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/phonix-app/loan_settlement_app/internal/models"
	"github.com/phonix-app/loan_settlement_app/internal/utils/mapping"
	"github.com/phonix-app/loan_settlement_app/internal/utils/pagination"
)

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan offers.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryFacade
var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const loanColumns = `
	loan_id, bank_name, loan_type, amount, duration_months, purchase_rate,
	payment_type, status, registration_date, branch_id, referrer,
	holder_first_name, holder_last_name, holder_national_id, holder_phone,
	description, created_at, created_by, last_updated_at, last_updated_by`

func scanLoan(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.BankName,
		&m.LoanType,
		&m.Amount,
		&m.DurationMonths,
		&m.PurchaseRate,
		&m.PaymentType,
		&m.Status,
		&m.RegistrationDate,
		&m.BranchID,
		&m.Referrer,
		&m.HolderFirstName,
		&m.HolderLastName,
		&m.HolderNationalID,
		&m.HolderPhone,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveLoan inserts a new loan offer.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LoanID,
		m.BankName,
		m.LoanType,
		m.Amount,
		m.DurationMonths,
		m.PurchaseRate,
		m.PaymentType,
		m.Status,
		m.RegistrationDate,
		m.BranchID,
		m.Referrer,
		m.HolderFirstName,
		m.HolderLastName,
		m.HolderNationalID,
		m.HolderPhone,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert loan "+m.LoanID, err)
	}
	return nil
}

// FindLoanByID retrieves a loan by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find loan by ID "+loanID, err)
	}
	d := mapping.ToDomainLoan(m)
	return &d, nil
}

// UpdateLoanStatus writes a new market status for the loan.
func (r *PgxLoanRepository) UpdateLoanStatus(ctx context.Context, loanID string, status domain.LoanStatus, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE loans
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE loan_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, loanID, string(status), updatedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update loan status for "+loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("loan " + loanID + " not found for update")
	}
	return nil
}

// ListLoans retrieves a paginated list of loans using token-based pagination,
// newest registrations first.
func (r *PgxLoanRepository) ListLoans(ctx context.Context, limit int, nextToken *string) ([]domain.Loan, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + loanColumns + ` FROM loans`
	orderByClause := `ORDER BY registration_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastRegistrationDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `WHERE (registration_date, created_at) < ($1, $2)`
		args = append(args, lastRegistrationDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query loans", err)
	}
	defer rows.Close()

	modelLoans := make([]models.Loan, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanLoan(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan loan row", scanErr)
		}
		modelLoans = append(modelLoans, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating loan rows", err)
	}

	var nextTokenVal *string
	results := modelLoans
	if len(modelLoans) > limit {
		last := modelLoans[limit-1]
		registrationDate := last.CreatedAt
		if last.RegistrationDate != nil {
			registrationDate = *last.RegistrationDate
		}
		newToken := pagination.EncodeToken(registrationDate, last.CreatedAt)
		nextTokenVal = &newToken
		results = modelLoans[:limit]
	}

	return mapping.ToDomainLoanSlice(results), nextTokenVal, nil
}
