package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portsrepo "github.com/phonix-app/loan_settlement_app/internal/core/ports/repositories"
	"github.com/phonix-app/loan_settlement_app/internal/models"
	"github.com/phonix-app/loan_settlement_app/internal/utils/mapping"
)

type PgxBuyerRepository struct {
	BaseRepository
}

// newPgxBuyerRepository creates a new repository for buyers and their status history.
func newPgxBuyerRepository(pool *pgxpool.Pool) portsrepo.BuyerRepositoryFacade {
	return &PgxBuyerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBuyerRepository implements portsrepo.BuyerRepositoryFacade
var _ portsrepo.BuyerRepositoryFacade = (*PgxBuyerRepository)(nil)

const buyerColumns = `
	buyer_id, first_name, last_name, national_id, phone, loan_id,
	requested_amount, bank, sale_price, sale_type, application_date,
	current_status, broker_id, internal_notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBuyer(row pgx.Row) (models.Buyer, error) {
	var m models.Buyer
	err := row.Scan(
		&m.BuyerID,
		&m.FirstName,
		&m.LastName,
		&m.NationalID,
		&m.Phone,
		&m.LoanID,
		&m.RequestedAmount,
		&m.Bank,
		&m.SalePrice,
		&m.SaleType,
		&m.ApplicationDate,
		&m.CurrentStatus,
		&m.BrokerID,
		&m.InternalNotes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const insertHistoryQuery = `
	INSERT INTO loan_buyer_status_history (history_id, buyer_id, status, status_date, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
`

// SaveBuyer inserts a new buyer together with its first history row in one
// transaction. Returns ErrDuplicate when the national ID is already taken.
func (r *PgxBuyerRepository) SaveBuyer(ctx context.Context, buyer domain.Buyer, firstHistory domain.StatusHistory) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBuyer(buyer)
	buyerQuery := `
		INSERT INTO loan_buyers (` + buyerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, buyerQuery,
		m.BuyerID,
		m.FirstName,
		m.LastName,
		m.NationalID,
		m.Phone,
		m.LoanID,
		m.RequestedAmount,
		m.Bank,
		m.SalePrice,
		m.SaleType,
		m.ApplicationDate,
		m.CurrentStatus,
		m.BrokerID,
		m.InternalNotes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert buyer "+m.BuyerID, err)
	}

	h := mapping.ToModelStatusHistory(firstHistory)
	_, err = tx.Exec(ctx, insertHistoryQuery, h.HistoryID, h.BuyerID, h.Status, h.StatusDate, h.Note, h.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert first history row for buyer "+m.BuyerID, err)
	}

	return r.Commit(ctx, tx)
}

// FindBuyerByID retrieves a buyer by its ID.
func (r *PgxBuyerRepository) FindBuyerByID(ctx context.Context, buyerID string) (*domain.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM loan_buyers WHERE buyer_id = $1;`
	m, err := scanBuyer(r.Pool.QueryRow(ctx, query, buyerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find buyer by ID "+buyerID, err)
	}
	d := mapping.ToDomainBuyer(m)
	return &d, nil
}

// ListBuyers retrieves a paginated list of buyers, newest first.
func (r *PgxBuyerRepository) ListBuyers(ctx context.Context, limit int, offset int) ([]domain.Buyer, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + buyerColumns + `
		FROM loan_buyers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query buyers", err)
	}
	defer rows.Close()

	modelBuyers := []models.Buyer{}
	for rows.Next() {
		m, scanErr := scanBuyer(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan buyer row", scanErr)
		}
		modelBuyers = append(modelBuyers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating buyer rows", err)
	}

	return mapping.ToDomainBuyerSlice(modelBuyers), nil
}

// UpdateBuyer updates a buyer's editable fields. Status is not touched here.
func (r *PgxBuyerRepository) UpdateBuyer(ctx context.Context, buyer domain.Buyer) error {
	m := mapping.ToModelBuyer(buyer)
	query := `
		UPDATE loan_buyers
		SET phone = $2,
		    loan_id = $3,
		    requested_amount = $4,
		    bank = $5,
		    sale_price = $6,
		    sale_type = $7,
		    broker_id = $8,
		    internal_notes = $9,
		    last_updated_at = $10,
		    last_updated_by = $11
		WHERE buyer_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.BuyerID,
		m.Phone,
		m.LoanID,
		m.RequestedAmount,
		m.Bank,
		m.SalePrice,
		m.SaleType,
		m.BrokerID,
		m.InternalNotes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update buyer "+m.BuyerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("buyer " + m.BuyerID + " not found for update")
	}
	return nil
}

// UpdateBuyerStatus persists the buyer's new status, the optional history row,
// and the optional completion side effects as one atomic unit. The completion
// branch locks the loan row, flips it to purchased (a no-op when it already
// is), and get-or-creates the settlement-ledger entry for the loan's holder.
func (r *PgxBuyerRepository) UpdateBuyerStatus(ctx context.Context, buyer domain.Buyer, history *domain.StatusHistory, completion *portsrepo.CompletionSideEffects) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBuyer(buyer)
	statusQuery := `
		UPDATE loan_buyers
		SET current_status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE buyer_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, statusQuery, m.BuyerID, m.CurrentStatus, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for buyer "+m.BuyerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("buyer " + m.BuyerID + " not found for status update")
	}

	if history != nil {
		h := mapping.ToModelStatusHistory(*history)
		_, err = tx.Exec(ctx, insertHistoryQuery, h.HistoryID, h.BuyerID, h.Status, h.StatusDate, h.Note, h.CreatedAt)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert history row for buyer "+m.BuyerID, err)
		}
	}

	if completion != nil {
		if err := r.applyCompletionInTx(ctx, tx, buyer, completion); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// applyCompletionInTx flips the loan to purchased and opens the
// settlement-ledger entry, inside the caller's transaction.
func (r *PgxBuyerRepository) applyCompletionInTx(ctx context.Context, tx pgx.Tx, buyer domain.Buyer, completion *portsrepo.CompletionSideEffects) error {
	// Lock the loan row so concurrent completions serialize here.
	var loanStatus string
	err := tx.QueryRow(ctx, `SELECT status FROM loans WHERE loan_id = $1 FOR UPDATE;`, completion.LoanID).Scan(&loanStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("loan " + completion.LoanID + " not found for completion")
		}
		return apperrors.NewAppError(500, "failed to lock loan "+completion.LoanID+" for completion", err)
	}

	if loanStatus != string(domain.LoanPurchased) {
		_, err = tx.Exec(ctx, `
			UPDATE loans
			SET status = $2,
			    last_updated_at = $3,
			    last_updated_by = $4
			WHERE loan_id = $1;
		`, completion.LoanID, string(domain.LoanPurchased), buyer.LastUpdatedAt, buyer.LastUpdatedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark loan "+completion.LoanID+" purchased", err)
		}
	}

	// Get-or-create the creditor. An existing entry for (loan, national ID)
	// wins; re-completion must not reset its settlement progress.
	var existingID string
	err = tx.QueryRow(ctx, `
		SELECT creditor_id FROM loan_creditors
		WHERE loan_id = $1 AND national_id = $2
		FOR UPDATE;
	`, completion.Creditor.LoanID, completion.Creditor.NationalID).Scan(&existingID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewAppError(500, "failed to look up creditor for loan "+completion.Creditor.LoanID, err)
	}

	c := mapping.ToModelCreditor(completion.Creditor)
	_, err = tx.Exec(ctx, `
		INSERT INTO loan_creditors (`+creditorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`,
		c.CreditorID,
		c.LoanID,
		c.FirstName,
		c.LastName,
		c.NationalID,
		c.Phone,
		c.PaymentType,
		c.SettlementStatus,
		c.InstallmentCount,
		c.TotalAmount,
		c.PaidAmount,
		c.SettlementDate,
		c.Category,
		c.BranchID,
		c.BrokerID,
		c.Description,
		c.InternalNotes,
		c.FinalNotes,
		c.NextFollowupDate,
		c.InternalDocumentNumber,
		c.CreatedAt,
		c.CreatedBy,
		c.LastUpdatedAt,
		c.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert creditor for loan "+completion.Creditor.LoanID, err)
	}
	return nil
}

// ListStatusHistory retrieves a buyer's status trail, newest first.
func (r *PgxBuyerRepository) ListStatusHistory(ctx context.Context, buyerID string) ([]domain.StatusHistory, error) {
	query := `
		SELECT history_id, buyer_id, status, status_date, note, created_at
		FROM loan_buyer_status_history
		WHERE buyer_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query status history for buyer "+buyerID, err)
	}
	defer rows.Close()

	history := []models.StatusHistory{}
	for rows.Next() {
		var h models.StatusHistory
		if scanErr := rows.Scan(&h.HistoryID, &h.BuyerID, &h.Status, &h.StatusDate, &h.Note, &h.CreatedAt); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan history row for buyer "+buyerID, scanErr)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating history rows for buyer "+buyerID, err)
	}

	return mapping.ToDomainStatusHistorySlice(history), nil
}
