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
	"github.com/phonix-app/loan_settlement_app/internal/utils/settlement"
	"github.com/shopspring/decimal"
)

type PgxCreditorRepository struct {
	BaseRepository
}

// newPgxCreditorRepository creates a new repository for settlement-ledger entries.
func newPgxCreditorRepository(pool *pgxpool.Pool) portsrepo.CreditorRepositoryFacade {
	return &PgxCreditorRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCreditorRepository implements portsrepo.CreditorRepositoryFacade
var _ portsrepo.CreditorRepositoryFacade = (*PgxCreditorRepository)(nil)

const creditorColumns = `
	creditor_id, loan_id, first_name, last_name, national_id, phone,
	payment_type, settlement_status, installment_count, total_amount,
	paid_amount, settlement_date, category, branch_id, broker_id, description,
	internal_notes, final_notes, next_followup_date, internal_document_number,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCreditor(row pgx.Row) (models.Creditor, error) {
	var m models.Creditor
	err := row.Scan(
		&m.CreditorID,
		&m.LoanID,
		&m.FirstName,
		&m.LastName,
		&m.NationalID,
		&m.Phone,
		&m.PaymentType,
		&m.SettlementStatus,
		&m.InstallmentCount,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.SettlementDate,
		&m.Category,
		&m.BranchID,
		&m.BrokerID,
		&m.Description,
		&m.InternalNotes,
		&m.FinalNotes,
		&m.NextFollowupDate,
		&m.InternalDocumentNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindCreditorByID retrieves a settlement-ledger entry by its ID.
func (r *PgxCreditorRepository) FindCreditorByID(ctx context.Context, creditorID string) (*domain.Creditor, error) {
	query := `SELECT ` + creditorColumns + ` FROM loan_creditors WHERE creditor_id = $1;`
	m, err := scanCreditor(r.Pool.QueryRow(ctx, query, creditorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find creditor by ID "+creditorID, err)
	}
	d := mapping.ToDomainCreditor(m)
	return &d, nil
}

// FindCreditorByLoanAndNationalID retrieves the ledger entry keyed by the
// uniqueness pair.
func (r *PgxCreditorRepository) FindCreditorByLoanAndNationalID(ctx context.Context, loanID, nationalID string) (*domain.Creditor, error) {
	query := `SELECT ` + creditorColumns + ` FROM loan_creditors WHERE loan_id = $1 AND national_id = $2;`
	m, err := scanCreditor(r.Pool.QueryRow(ctx, query, loanID, nationalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find creditor for loan "+loanID, err)
	}
	d := mapping.ToDomainCreditor(m)
	return &d, nil
}

// ListCreditors retrieves a paginated list of ledger entries using token-based
// pagination, newest first.
func (r *PgxCreditorRepository) ListCreditors(ctx context.Context, limit int, nextToken *string) ([]domain.Creditor, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + creditorColumns + ` FROM loan_creditors`
	orderByClause := `ORDER BY created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `WHERE created_at < $1`
		args = append(args, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $1;"
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query creditors", err)
	}
	defer rows.Close()

	modelCreditors := make([]models.Creditor, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanCreditor(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan creditor row", scanErr)
		}
		modelCreditors = append(modelCreditors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating creditor rows", err)
	}

	var nextTokenVal *string
	results := modelCreditors
	if len(modelCreditors) > limit {
		newToken := pagination.EncodeDateBasedToken(modelCreditors[limit-1].CreatedAt)
		nextTokenVal = &newToken
		results = modelCreditors[:limit]
	}

	return mapping.ToDomainCreditorSlice(results), nextTokenVal, nil
}

// UpdateCreditor persists the creditor's editable and derived fields as
// evaluated by the caller.
func (r *PgxCreditorRepository) UpdateCreditor(ctx context.Context, creditor domain.Creditor) error {
	m := mapping.ToModelCreditor(creditor)
	query := `
		UPDATE loan_creditors
		SET phone = $2,
		    settlement_status = $3,
		    installment_count = $4,
		    paid_amount = $5,
		    settlement_date = $6,
		    category = $7,
		    broker_id = $8,
		    internal_notes = $9,
		    final_notes = $10,
		    next_followup_date = $11,
		    internal_document_number = $12,
		    last_updated_at = $13,
		    last_updated_by = $14
		WHERE creditor_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CreditorID,
		m.Phone,
		m.SettlementStatus,
		m.InstallmentCount,
		m.PaidAmount,
		m.SettlementDate,
		m.Category,
		m.BrokerID,
		m.InternalNotes,
		m.FinalNotes,
		m.NextFollowupDate,
		m.InternalDocumentNumber,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update creditor "+m.CreditorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("creditor " + m.CreditorID + " not found for update")
	}
	return nil
}

// UpdateCreditorAndRecalculate persists the editable fields and re-derives the
// settlement aggregate from the installment book in one transaction. The
// derived columns are written only by the recompute pass, so a stale submitted
// paid amount or status never lands, even transiently.
func (r *PgxCreditorRepository) UpdateCreditorAndRecalculate(ctx context.Context, creditor domain.Creditor) (*domain.Creditor, error) {
	m := mapping.ToModelCreditor(creditor)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE loan_creditors
		SET phone = $2,
		    installment_count = $3,
		    category = $4,
		    broker_id = $5,
		    internal_notes = $6,
		    final_notes = $7,
		    next_followup_date = $8,
		    internal_document_number = $9,
		    last_updated_at = $10,
		    last_updated_by = $11
		WHERE creditor_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.CreditorID,
		m.Phone,
		m.InstallmentCount,
		m.Category,
		m.BrokerID,
		m.InternalNotes,
		m.FinalNotes,
		m.NextFollowupDate,
		m.InternalDocumentNumber,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update creditor "+m.CreditorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError("creditor " + m.CreditorID + " not found for update")
	}

	updated, err := recalculateSettlementInTx(ctx, tx, m.CreditorID, m.LastUpdatedBy, m.LastUpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	d := mapping.ToDomainCreditor(*updated)
	return &d, nil
}

// recalculateSettlementInTx is the shared recompute pass: lock the creditor
// row, sum the paid installments, derive the status, stamp the settlement date
// on first reaching settled, and persist. Installment mutations run it inside
// their own transaction so the aggregate can never drift from the book.
func recalculateSettlementInTx(ctx context.Context, tx pgx.Tx, creditorID string, updatedByUserID string, updatedAt time.Time) (*models.Creditor, error) {
	lockQuery := `SELECT ` + creditorColumns + ` FROM loan_creditors WHERE creditor_id = $1 FOR UPDATE;`
	m, err := scanCreditor(tx.QueryRow(ctx, lockQuery, creditorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock creditor "+creditorID+" for recompute", err)
	}

	var paid decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(paid_amount), 0)
		FROM loan_creditor_installments
		WHERE creditor_id = $1 AND status = $2;
	`, creditorID, string(domain.InstallmentPaid)).Scan(&paid)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum paid installments for creditor "+creditorID, err)
	}

	m.PaidAmount = paid
	m.SettlementStatus = string(settlement.DeriveStatus(paid, m.TotalAmount))
	if m.SettlementStatus == string(domain.SettlementSettled) && m.SettlementDate == nil {
		m.SettlementDate = &updatedAt
	}
	m.LastUpdatedAt = updatedAt
	m.LastUpdatedBy = updatedByUserID

	_, err = tx.Exec(ctx, `
		UPDATE loan_creditors
		SET paid_amount = $2,
		    settlement_status = $3,
		    settlement_date = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE creditor_id = $1;
	`, creditorID, m.PaidAmount, m.SettlementStatus, m.SettlementDate, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to persist recomputed settlement for creditor "+creditorID, err)
	}

	return &m, nil
}
