package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
	"github.com/tindago/shop-backend-go/internal/pkg/database"
)

type ledgerRepository struct {
	db          *database.DB
	maxBatchOps int
}

func NewLedgerRepository(db *database.DB, maxBatchOps int) ledger.TransactionRepository {
	return &ledgerRepository{db: db, maxBatchOps: maxBatchOps}
}

const transactionColumns = `
	t.id, t.category, t.amount, t.occurred_at, t.staff_id,
	t.shift_id, t.expense_type, t.beneficiary_staff_id, t.beneficiary_name,
	t.payroll_run_id, t.voided, t.is_deleted, t.created_at, st.name
`

func scanTransaction(row pgx.Row) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := row.Scan(
		&t.ID, &t.Category, &t.Amount, &t.OccurredAt, &t.StaffID,
		&t.ShiftID, &t.ExpenseType, &t.BeneficiaryStaffID, &t.BeneficiaryName,
		&t.PayrollRunID, &t.Voided, &t.IsDeleted, &t.CreatedAt, &t.StaffName,
	)
	return t, err
}

const insertTransactionSQL = `
	INSERT INTO transactions (
		id, category, amount, occurred_at, staff_id,
		shift_id, expense_type, beneficiary_staff_id, beneficiary_name,
		payroll_run_id, voided, is_deleted
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func transactionArgs(t ledger.Transaction) []interface{} {
	return []interface{}{
		t.ID, t.Category, t.Amount, t.OccurredAt, t.StaffID,
		t.ShiftID, t.ExpenseType, t.BeneficiaryStaffID, t.BeneficiaryName,
		t.PayrollRunID, t.Voided, t.IsDeleted,
	}
}

func (r *ledgerRepository) Create(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, insertTransactionSQL, transactionArgs(t)...); err != nil {
		return ledger.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return r.GetByID(ctx, t.ID)
}

func (r *ledgerRepository) CreateBatch(ctx context.Context, ts []ledger.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	ops := make([]batchOp, 0, len(ts))
	for _, t := range ts {
		ops = append(ops, batchOp{sql: insertTransactionSQL, args: transactionArgs(t)})
	}
	if err := sendInChunks(ctx, q, ops, r.maxBatchOps); err != nil {
		return fmt.Errorf("failed to create transactions: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id string) (ledger.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN staff st ON st.id = t.staff_id
		WHERE t.id = $1
	`

	t, err := scanTransaction(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return ledger.Transaction{}, ledger.ErrTransactionNotFound
		}
		return ledger.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *ledgerRepository) List(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN staff st ON st.id = t.staff_id
		WHERE t.is_deleted = false
	`
	args := []interface{}{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		query += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}

	if filter.Category != nil {
		add("t.category =", *filter.Category)
	}
	if filter.ExpenseType != nil {
		add("t.expense_type =", *filter.ExpenseType)
	}
	if filter.ShiftID != nil {
		add("t.shift_id =", *filter.ShiftID)
	}
	if filter.PayrollRunID != nil {
		add("t.payroll_run_id =", *filter.PayrollRunID)
	}
	if filter.StaffID != nil {
		add("t.staff_id =", *filter.StaffID)
	}
	if filter.From != nil {
		add("t.occurred_at >=", *filter.From)
	}
	if filter.To != nil {
		add("t.occurred_at <=", *filter.To)
	}
	if !filter.IncludeVoided {
		query += " AND t.voided = false"
	}
	query += " ORDER BY t.occurred_at"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var result []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *ledgerRepository) ListSalaryAdvancesByShiftIDs(ctx context.Context, shiftIDs []string) ([]ledger.Transaction, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN staff st ON st.id = t.staff_id
		WHERE t.shift_id = ANY($1)
		  AND t.expense_type = $2
		  AND t.voided = false
		  AND t.is_deleted = false
		ORDER BY t.occurred_at
	`

	rows, err := q.Query(ctx, query, shiftIDs, ledger.ExpenseTypeSalaryAdvance)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	defer rows.Close()

	var result []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary advance: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *ledgerRepository) SetVoided(ctx context.Context, id string, voided bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE transactions SET voided = $2 WHERE id = $1 AND is_deleted = false`, id, voided)
	if err != nil {
		return fmt.Errorf("failed to set voided flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

func (r *ledgerRepository) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE transactions SET is_deleted = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

func (r *ledgerRepository) VoidByRunID(ctx context.Context, runID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE transactions
		SET voided = true
		WHERE payroll_run_id = $1
		  AND voided = false
	`, runID)
	if err != nil {
		return 0, fmt.Errorf("failed to void run transactions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
