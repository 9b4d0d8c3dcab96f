package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/domain/staff"
	"github.com/tindago/shop-backend-go/internal/pkg/database"
)

type staffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff (id, name, employee_code, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, employee_code, role, password_hash, is_active, created_at, updated_at
	`

	var created staff.Staff
	err := q.QueryRow(ctx, query, s.ID, s.Name, s.EmployeeCode, s.Role, s.PasswordHash, s.IsActive).Scan(
		&created.ID, &created.Name, &created.EmployeeCode, &created.Role,
		&created.PasswordHash, &created.IsActive, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_staff_employee_code") {
			return staff.Staff{}, staff.ErrEmployeeCodeExists
		}
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}

	return created, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *staffRepository) GetByEmployeeCode(ctx context.Context, code string) (staff.Staff, error) {
	return r.getBy(ctx, "employee_code = $1", code)
}

func (r *staffRepository) getBy(ctx context.Context, where string, arg interface{}) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, employee_code, role, password_hash, is_active, created_at, updated_at
		FROM staff
		WHERE ` + where

	var s staff.Staff
	err := q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.Name, &s.EmployeeCode, &s.Role, &s.PasswordHash, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}

	return s, nil
}

func (r *staffRepository) List(ctx context.Context, role *staff.Role, activeOnly bool) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, employee_code, role, password_hash, is_active, created_at, updated_at
		FROM staff
		WHERE 1=1
	`
	args := []interface{}{}
	if role != nil {
		args = append(args, *role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var result []staff.Staff
	for rows.Next() {
		var s staff.Staff
		if err := rows.Scan(
			&s.ID, &s.Name, &s.EmployeeCode, &s.Role, &s.PasswordHash, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

func (r *staffRepository) GetProfile(ctx context.Context, staffID string) (staff.PayrollProfile, error) {
	profiles, err := r.GetProfiles(ctx, []string{staffID})
	if err != nil {
		return staff.PayrollProfile{}, err
	}
	profile, ok := profiles[staffID]
	if !ok {
		return staff.PayrollProfile{}, staff.ErrProfileNotFound
	}
	return profile, nil
}

func (r *staffRepository) GetProfiles(ctx context.Context, staffIDs []string) (map[string]staff.PayrollProfile, error) {
	q := GetQuerier(ctx, r.db)

	result := make(map[string]staff.PayrollProfile)
	if len(staffIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT staff_id, default_rate, updated_at
		FROM payroll_profiles
		WHERE staff_id = ANY($1)
	`
	rows, err := q.Query(ctx, query, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p staff.PayrollProfile
		if err := rows.Scan(&p.StaffID, &p.DefaultRate, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll profile: %w", err)
		}
		result[p.StaffID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rate history in insertion order, so duplicate effective dates resolve
	// last-inserted-wins.
	historyQuery := `
		SELECT staff_id, rate, effective_from
		FROM rate_changes
		WHERE staff_id = ANY($1)
		ORDER BY created_at, id
	`
	historyRows, err := q.Query(ctx, historyQuery, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var (
			staffID       string
			rate          decimal.Decimal
			effectiveFrom time.Time
		)
		if err := historyRows.Scan(&staffID, &rate, &effectiveFrom); err != nil {
			return nil, fmt.Errorf("failed to scan rate change: %w", err)
		}
		profile := result[staffID]
		if profile.StaffID == "" {
			profile.StaffID = staffID
		}
		profile.History = append(profile.History, staff.RateChange{Rate: rate, EffectiveFrom: effectiveFrom})
		result[staffID] = profile
	}

	return result, historyRows.Err()
}

func (r *staffRepository) UpsertDefaultRate(ctx context.Context, staffID string, rate decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_profiles (staff_id, default_rate)
		VALUES ($1, $2)
		ON CONFLICT (staff_id) DO UPDATE SET
			default_rate = EXCLUDED.default_rate,
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, staffID, rate); err != nil {
		return fmt.Errorf("failed to upsert default rate: %w", err)
	}
	return nil
}

func (r *staffRepository) AppendRateChange(ctx context.Context, staffID string, rate decimal.Decimal, effectiveFrom time.Time) error {
	q := GetQuerier(ctx, r.db)

	// Rate history is append-only; the profile row is created on demand so
	// a history can exist without an explicit default rate.
	upsert := `
		INSERT INTO payroll_profiles (staff_id, default_rate)
		VALUES ($1, 0)
		ON CONFLICT (staff_id) DO NOTHING
	`
	if _, err := q.Exec(ctx, upsert, staffID); err != nil {
		return fmt.Errorf("failed to ensure payroll profile: %w", err)
	}

	insert := `
		INSERT INTO rate_changes (staff_id, rate, effective_from)
		VALUES ($1, $2, $3)
	`
	if _, err := q.Exec(ctx, insert, staffID, rate, effectiveFrom); err != nil {
		return fmt.Errorf("failed to append rate change: %w", err)
	}
	return nil
}
