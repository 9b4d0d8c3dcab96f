package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tindago/shop-backend-go/internal/domain/shift"
	"github.com/tindago/shop-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	s.id, s.staff_id, s.start_time, s.end_time, s.cash_count,
	s.total_cash, s.expenses_total, s.system_total,
	s.payroll_run_id, s.created_at, s.updated_at, st.name
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		s         shift.Shift
		cashCount []byte
	)
	err := row.Scan(
		&s.ID, &s.StaffID, &s.Start, &s.End, &cashCount,
		&s.TotalCash, &s.ExpensesTotal, &s.SystemTotal,
		&s.PayrollRunID, &s.CreatedAt, &s.UpdatedAt, &s.StaffName,
	)
	if err != nil {
		return shift.Shift{}, err
	}
	if len(cashCount) > 0 {
		if err := json.Unmarshal(cashCount, &s.CashCount); err != nil {
			return shift.Shift{}, fmt.Errorf("failed to decode cash count: %w", err)
		}
	}
	return s, nil
}

func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO shifts (id, staff_id, start_time)
			VALUES ($1, $2, $3)
			RETURNING *
		)
		SELECT ` + shiftColumns + `
		FROM inserted s
		JOIN staff st ON st.id = s.staff_id
	`

	created, err := scanShift(q.QueryRow(ctx, query, s.ID, s.StaffID, s.Start))
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN staff st ON st.id = s.staff_id
		WHERE s.id = $1
	`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepository) GetOpenByStaffID(ctx context.Context, staffID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN staff st ON st.id = s.staff_id
		WHERE s.staff_id = $1
		  AND s.end_time IS NULL
		ORDER BY s.start_time DESC
		LIMIT 1
	`

	s, err := scanShift(q.QueryRow(ctx, query, staffID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get open shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepository) Close(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	cashCount, err := json.Marshal(s.CashCount)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to encode cash count: %w", err)
	}

	query := `
		WITH updated AS (
			UPDATE shifts
			SET end_time = $2,
				cash_count = $3,
				total_cash = $4,
				expenses_total = $5,
				system_total = $6,
				updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + shiftColumns + `
		FROM updated s
		JOIN staff st ON st.id = s.staff_id
	`

	closed, err := scanShift(q.QueryRow(ctx, query,
		s.ID, s.End, cashCount, s.TotalCash, s.ExpensesTotal, s.SystemTotal,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to close shift: %w", err)
	}
	return closed, nil
}

func (r *shiftRepository) ListByPeriod(ctx context.Context, start, end time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN staff st ON st.id = s.staff_id
		WHERE s.start_time >= $1
		  AND s.start_time <= $2
		ORDER BY s.start_time
	`
	return r.list(ctx, q, query, start, end)
}

func (r *shiftRepository) ListByIDs(ctx context.Context, ids []string) ([]shift.Shift, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN staff st ON st.id = s.staff_id
		WHERE s.id = ANY($1)
		ORDER BY s.start_time
	`
	return r.list(ctx, q, query, ids)
}

func (r *shiftRepository) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]shift.Shift, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var result []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *shiftRepository) TagPayrollRun(ctx context.Context, shiftIDs []string, runID string) error {
	if len(shiftIDs) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET payroll_run_id = $2, updated_at = NOW()
		WHERE id = ANY($1)
	`
	if _, err := q.Exec(ctx, query, shiftIDs, runID); err != nil {
		return fmt.Errorf("failed to tag shifts with payroll run: %w", err)
	}
	return nil
}

func (r *shiftRepository) ClearPayrollRun(ctx context.Context, runID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET payroll_run_id = NULL, updated_at = NOW()
		WHERE payroll_run_id = $1
	`
	if _, err := q.Exec(ctx, query, runID); err != nil {
		return fmt.Errorf("failed to clear payroll run tag: %w", err)
	}
	return nil
}
