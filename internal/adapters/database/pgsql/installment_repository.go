package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/phonix-app/loan_settlement_app/internal/models"
	"github.com/phonix-app/loan_settlement_app/internal/utils/mapping"
)

type PgxInstallmentRepository struct {
	BaseRepository
}

// newPgxInstallmentRepository creates a new repository for the installment book.
func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepositoryFacade {
	return &PgxInstallmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInstallmentRepository implements portsrepo.InstallmentRepositoryFacade
var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

const installmentColumns = `
	installment_id, creditor_id, installment_number, paid_amount, due_date,
	payment_date, status, note,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInstallment(row pgx.Row) (models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID,
		&m.CreditorID,
		&m.InstallmentNumber,
		&m.PaidAmount,
		&m.DueDate,
		&m.PaymentDate,
		&m.Status,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveInstallment assigns the next installment number for the creditor, inserts
// the row, and recomputes the parent aggregate, all inside one transaction.
// The creditor row lock makes the max+1 assignment safe against concurrent
// inserts; the unique constraint backstops it.
func (r *PgxInstallmentRepository) SaveInstallment(ctx context.Context, installment domain.Installment) (*domain.Installment, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInstallment(installment)

	// Lock the parent first so number assignment and recompute serialize.
	var lockedID string
	err = tx.QueryRow(ctx, `SELECT creditor_id FROM loan_creditors WHERE creditor_id = $1 FOR UPDATE;`, m.CreditorID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock creditor "+m.CreditorID+" for installment insert", err)
	}

	// Numbers grow monotonically: max+1, never refilling gaps left by deletes.
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(installment_number), 0) + 1
		FROM loan_creditor_installments
		WHERE creditor_id = $1;
	`, m.CreditorID).Scan(&m.InstallmentNumber)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to assign installment number for creditor "+m.CreditorID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO loan_creditor_installments (`+installmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`,
		m.InstallmentID,
		m.CreditorID,
		m.InstallmentNumber,
		m.PaidAmount,
		m.DueDate,
		m.PaymentDate,
		m.Status,
		m.Note,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, apperrors.NewAppError(500, "failed to insert installment "+m.InstallmentID, err)
	}

	if _, err := recalculateSettlementInTx(ctx, tx, m.CreditorID, m.CreatedBy, m.CreatedAt); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	d := mapping.ToDomainInstallment(m)
	return &d, nil
}

// FindInstallmentByID retrieves an installment by its ID.
func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM loan_creditor_installments WHERE installment_id = $1;`
	m, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find installment by ID "+installmentID, err)
	}
	d := mapping.ToDomainInstallment(m)
	return &d, nil
}

// ListInstallmentsByCreditor retrieves a creditor's installments ordered by number.
func (r *PgxInstallmentRepository) ListInstallmentsByCreditor(ctx context.Context, creditorID string) ([]domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM loan_creditor_installments
		WHERE creditor_id = $1
		ORDER BY installment_number;
	`
	rows, err := r.Pool.Query(ctx, query, creditorID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query installments for creditor "+creditorID, err)
	}
	defer rows.Close()

	installments := []models.Installment{}
	for rows.Next() {
		m, scanErr := scanInstallment(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan installment row for creditor "+creditorID, scanErr)
		}
		installments = append(installments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating installment rows for creditor "+creditorID, err)
	}

	return mapping.ToDomainInstallmentSlice(installments), nil
}

// UpdateInstallment persists an installment's editable fields (never the
// number) and recomputes the parent aggregate in the same transaction.
func (r *PgxInstallmentRepository) UpdateInstallment(ctx context.Context, installment domain.Installment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInstallment(installment)
	query := `
		UPDATE loan_creditor_installments
		SET paid_amount = $2,
		    due_date = $3,
		    payment_date = $4,
		    status = $5,
		    note = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE installment_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InstallmentID,
		m.PaidAmount,
		m.DueDate,
		m.PaymentDate,
		m.Status,
		m.Note,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update installment "+m.InstallmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("installment " + m.InstallmentID + " not found for update")
	}

	if _, err := recalculateSettlementInTx(ctx, tx, m.CreditorID, m.LastUpdatedBy, m.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteInstallment removes the row and recomputes the parent aggregate.
// Later installments keep their numbers.
func (r *PgxInstallmentRepository) DeleteInstallment(ctx context.Context, installmentID string, deletedByUserID string, deletedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var creditorID string
	err = tx.QueryRow(ctx, `SELECT creditor_id FROM loan_creditor_installments WHERE installment_id = $1;`, installmentID).Scan(&creditorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to look up installment "+installmentID+" for delete", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM loan_creditor_installments WHERE installment_id = $1;`, installmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete installment "+installmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("installment " + installmentID + " not found for delete")
	}

	if _, err := recalculateSettlementInTx(ctx, tx, creditorID, deletedByUserID, deletedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
