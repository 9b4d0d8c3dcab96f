package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tindago/shop-backend-go/internal/domain/payroll"
	"github.com/tindago/shop-backend-go/internal/pkg/database"
)

type runRepository struct {
	db          *database.DB
	maxBatchOps int
}

func NewRunRepository(db *database.DB, maxBatchOps int) payroll.RunRepository {
	return &runRepository{db: db, maxBatchOps: maxBatchOps}
}

const runColumns = `
	id, period_start, period_end, pay_date, mode, status,
	total_gross, total_deductions, total_net,
	post_attempt, posted_at, created_at, updated_at
`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var r payroll.PayrollRun
	err := row.Scan(
		&r.ID, &r.PeriodStart, &r.PeriodEnd, &r.PayDate, &r.Mode, &r.Status,
		&r.TotalGross, &r.TotalDeductions, &r.TotalNet,
		&r.PostAttempt, &r.PostedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *runRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (
			id, period_start, period_end, pay_date, mode, status,
			total_gross, total_deductions, total_net
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + runColumns

	created, err := scanRun(q.QueryRow(ctx, query,
		run.ID, run.PeriodStart, run.PeriodEnd, run.PayDate, run.Mode, run.Status,
		run.TotalGross, run.TotalDeductions, run.TotalNet,
	))
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return created, nil
}

func (r *runRepository) GetRun(ctx context.Context, id string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	run, err := scanRun(q.QueryRow(ctx, `SELECT `+runColumns+` FROM payroll_runs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

func (r *runRepository) ListRuns(ctx context.Context) ([]payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+runColumns+` FROM payroll_runs ORDER BY period_start DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var result []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

// SaveDraft upserts the run totals, fully replaces the line documents and
// clears-then-rewrites the override documents. Repeating the call with the
// same in-memory state produces no net change.
func (r *runRepository) SaveDraft(ctx context.Context, run payroll.PayrollRun, lines []payroll.PayrollLine) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE payroll_runs
			SET pay_date = $2, mode = $3,
				total_gross = $4, total_deductions = $5, total_net = $6,
				updated_at = NOW()
			WHERE id = $1
		`, run.ID, run.PayDate, run.Mode, run.TotalGross, run.TotalDeductions, run.TotalNet)
		if err != nil {
			return fmt.Errorf("failed to update run totals: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM payroll_lines WHERE run_id = $1`, run.ID); err != nil {
			return fmt.Errorf("failed to clear payroll lines: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM shift_overrides WHERE run_id = $1`, run.ID); err != nil {
			return fmt.Errorf("failed to clear shift overrides: %w", err)
		}

		for _, line := range lines {
			shiftIDs := make([]string, 0, len(line.Shifts))
			for _, row := range line.Shifts {
				shiftIDs = append(shiftIDs, row.ShiftID)
			}
			shiftIDsJSON, err := json.Marshal(shiftIDs)
			if err != nil {
				return fmt.Errorf("failed to encode shift ids: %w", err)
			}
			adjustmentsJSON, err := json.Marshal(line.Adjustments)
			if err != nil {
				return fmt.Errorf("failed to encode adjustments: %w", err)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO payroll_lines (
					run_id, staff_id, staff_name, rate, rate_source,
					minutes, gross, advances_total, shortages_total,
					other_deductions, net, shift_ids, adjustments
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			`,
				run.ID, line.StaffID, line.StaffName, line.Rate, line.RateSource,
				line.Minutes, line.Gross, line.AdvancesTotal, line.ShortagesTotal,
				line.OtherDeductions, line.Net, shiftIDsJSON, adjustmentsJSON,
			)
			if err != nil {
				return fmt.Errorf("failed to insert payroll line for staff %s: %w", line.StaffID, err)
			}

			for _, row := range line.Shifts {
				if !row.HasOverride() {
					continue
				}
				_, err := tx.Exec(ctx, `
					INSERT INTO shift_overrides (
						run_id, staff_id, shift_id, start_time, end_time,
						excluded, minutes_used, expense_date
					) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				`,
					run.ID, line.StaffID, row.ShiftID, row.OverrideStart, row.OverrideEnd,
					row.Excluded, row.MinutesUsed, row.ExpenseDate,
				)
				if err != nil {
					return fmt.Errorf("failed to insert shift override for shift %s: %w", row.ShiftID, err)
				}
			}
		}

		return nil
	})
}

func (r *runRepository) LoadLines(ctx context.Context, runID string) ([]payroll.PayrollLine, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT run_id, staff_id, staff_name, rate, rate_source,
			   minutes, gross, advances_total, shortages_total,
			   other_deductions, net, shift_ids, adjustments
		FROM payroll_lines
		WHERE run_id = $1
		ORDER BY staff_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll lines: %w", err)
	}
	defer rows.Close()

	var result []payroll.PayrollLine
	for rows.Next() {
		var (
			line            payroll.PayrollLine
			shiftIDsJSON    []byte
			adjustmentsJSON []byte
		)
		err := rows.Scan(
			&line.RunID, &line.StaffID, &line.StaffName, &line.Rate, &line.RateSource,
			&line.Minutes, &line.Gross, &line.AdvancesTotal, &line.ShortagesTotal,
			&line.OtherDeductions, &line.Net, &shiftIDsJSON, &adjustmentsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}

		var shiftIDs []string
		if len(shiftIDsJSON) > 0 {
			if err := json.Unmarshal(shiftIDsJSON, &shiftIDs); err != nil {
				return nil, fmt.Errorf("failed to decode shift ids: %w", err)
			}
		}
		for _, id := range shiftIDs {
			line.Shifts = append(line.Shifts, payroll.ShiftRow{ShiftID: id})
		}
		if len(adjustmentsJSON) > 0 {
			if err := json.Unmarshal(adjustmentsJSON, &line.Adjustments); err != nil {
				return nil, fmt.Errorf("failed to decode adjustments: %w", err)
			}
		}

		result = append(result, line)
	}
	return result, rows.Err()
}

func (r *runRepository) LoadOverrides(ctx context.Context, runID string) ([]payroll.ShiftOverride, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT run_id, staff_id, shift_id, start_time, end_time,
			   excluded, minutes_used, expense_date
		FROM shift_overrides
		WHERE run_id = $1
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift overrides: %w", err)
	}
	defer rows.Close()

	var result []payroll.ShiftOverride
	for rows.Next() {
		var o payroll.ShiftOverride
		err := rows.Scan(
			&o.RunID, &o.StaffID, &o.ShiftID, &o.Start, &o.End,
			&o.Excluded, &o.MinutesUsed, &o.ExpenseDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift override: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

// BeginPosting is the run-level lock: only a draft (or an interrupted
// posting) run may enter posting, and the attempt counter increments so an
// interrupted finalize stays detectable.
func (r *runRepository) BeginPosting(ctx context.Context, runID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var attempt int
	err := q.QueryRow(ctx, `
		UPDATE payroll_runs
		SET status = $2, post_attempt = post_attempt + 1, updated_at = NOW()
		WHERE id = $1
		  AND status IN ($3, $4)
		RETURNING post_attempt
	`, runID, payroll.RunStatusPosting, payroll.RunStatusDraft, payroll.RunStatusPosting).Scan(&attempt)
	if err == nil {
		return attempt, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to begin posting: %w", err)
	}

	run, getErr := r.GetRun(ctx, runID)
	if getErr != nil {
		return 0, getErr
	}
	switch run.Status {
	case payroll.RunStatusPosted:
		return 0, payroll.ErrRunAlreadyPosted
	case payroll.RunStatusVoided:
		return 0, payroll.ErrRunNotEditable
	default:
		return 0, payroll.ErrRunLocked
	}
}

func (r *runRepository) MarkPosted(ctx context.Context, run payroll.PayrollRun, postedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_runs
		SET status = $2,
			total_gross = $3, total_deductions = $4, total_net = $5,
			posted_at = $6, updated_at = NOW()
		WHERE id = $1 AND status = $7
	`, run.ID, payroll.RunStatusPosted,
		run.TotalGross, run.TotalDeductions, run.TotalNet,
		postedAt, payroll.RunStatusPosting)
	if err != nil {
		return fmt.Errorf("failed to mark run posted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}
	return nil
}

func (r *runRepository) MarkVoided(ctx context.Context, runID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_runs
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`, runID, payroll.RunStatusVoided, payroll.RunStatusPosted)
	if err != nil {
		return fmt.Errorf("failed to mark run voided: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotPosted
	}
	return nil
}

func (r *runRepository) ReplacePaystubs(ctx context.Context, runID string, stubs []payroll.Paystub) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM paystubs WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("failed to clear paystubs: %w", err)
	}

	ops := make([]batchOp, 0, len(stubs))
	for _, stub := range stubs {
		shiftsJSON, err := json.Marshal(stub.Shifts)
		if err != nil {
			return fmt.Errorf("failed to encode paystub shifts: %w", err)
		}
		deductionsJSON, err := json.Marshal(stub.Deductions)
		if err != nil {
			return fmt.Errorf("failed to encode paystub deductions: %w", err)
		}
		ops = append(ops, batchOp{
			sql: `
				INSERT INTO paystubs (
					run_id, staff_id, staff_name, rate, shifts, deductions,
					gross, total_deductions, net_pay
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`,
			args: []interface{}{
				stub.RunID, stub.StaffID, stub.StaffName, stub.Rate, shiftsJSON, deductionsJSON,
				stub.Gross, stub.TotalDeductions, stub.NetPay,
			},
		})
	}
	if err := sendInChunks(ctx, q, ops, r.maxBatchOps); err != nil {
		return fmt.Errorf("failed to write paystubs: %w", err)
	}
	return nil
}

func (r *runRepository) ListPaystubs(ctx context.Context, runID string) ([]payroll.Paystub, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT run_id, staff_id, staff_name, rate, shifts, deductions,
			   gross, total_deductions, net_pay, created_at
		FROM paystubs
		WHERE run_id = $1
		ORDER BY staff_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list paystubs: %w", err)
	}
	defer rows.Close()

	var result []payroll.Paystub
	for rows.Next() {
		stub, err := scanPaystub(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, stub)
	}
	return result, rows.Err()
}

func (r *runRepository) GetPaystub(ctx context.Context, runID, staffID string) (payroll.Paystub, error) {
	q := GetQuerier(ctx, r.db)

	stub, err := scanPaystub(q.QueryRow(ctx, `
		SELECT run_id, staff_id, staff_name, rate, shifts, deductions,
			   gross, total_deductions, net_pay, created_at
		FROM paystubs
		WHERE run_id = $1 AND staff_id = $2
	`, runID, staffID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Paystub{}, payroll.ErrPaystubNotFound
		}
		return payroll.Paystub{}, err
	}
	return stub, nil
}

func scanPaystub(row pgx.Row) (payroll.Paystub, error) {
	var (
		stub           payroll.Paystub
		shiftsJSON     []byte
		deductionsJSON []byte
	)
	err := row.Scan(
		&stub.RunID, &stub.StaffID, &stub.StaffName, &stub.Rate, &shiftsJSON, &deductionsJSON,
		&stub.Gross, &stub.TotalDeductions, &stub.NetPay, &stub.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Paystub{}, err
		}
		return payroll.Paystub{}, fmt.Errorf("failed to scan paystub: %w", err)
	}
	if len(shiftsJSON) > 0 {
		if err := json.Unmarshal(shiftsJSON, &stub.Shifts); err != nil {
			return payroll.Paystub{}, fmt.Errorf("failed to decode paystub shifts: %w", err)
		}
	}
	if len(deductionsJSON) > 0 {
		if err := json.Unmarshal(deductionsJSON, &stub.Deductions); err != nil {
			return payroll.Paystub{}, fmt.Errorf("failed to decode paystub deductions: %w", err)
		}
	}
	return stub, nil
}
