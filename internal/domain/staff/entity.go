package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

type Staff struct {
	ID           string
	Name         string
	EmployeeCode string
	Role         Role
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined
	Profile *PayrollProfile
}

// RateChange is one entry in a staff member's effective-dated rate history.
// The history is append-only; rates are never edited in place.
type RateChange struct {
	Rate          decimal.Decimal
	EffectiveFrom time.Time
}

// PayrollProfile holds a staff member's hourly pay configuration.
type PayrollProfile struct {
	StaffID     string
	DefaultRate decimal.Decimal
	History     []RateChange
	UpdatedAt   time.Time
}

// RateSource reports where a resolved rate came from.
type RateSource string

const (
	RateSourceHistory RateSource = "history"
	RateSourceDefault RateSource = "default"
	RateSourceNone    RateSource = "none"
	// RateSourceManual marks a rate edited directly on a payroll line.
	RateSourceManual RateSource = "manual"
)

// RateAsOf resolves the hourly rate applicable at asOf. It picks the history
// entry with the latest effectiveFrom that is not after asOf; when two
// entries share an effective date the last-inserted one wins. Falls back to
// the default rate, then zero. Never errors; callers should treat a
// RateSourceNone result as a data-quality warning, not a failure.
func (p *PayrollProfile) RateAsOf(asOf time.Time) (decimal.Decimal, RateSource) {
	if p == nil {
		return decimal.Zero, RateSourceNone
	}

	var (
		best  *RateChange
		found bool
	)
	for i := range p.History {
		entry := &p.History[i]
		if entry.EffectiveFrom.After(asOf) {
			continue
		}
		if !found || !entry.EffectiveFrom.Before(best.EffectiveFrom) {
			best = entry
			found = true
		}
	}
	if found {
		return best.Rate, RateSourceHistory
	}
	if !p.DefaultRate.IsZero() {
		return p.DefaultRate, RateSourceDefault
	}
	return decimal.Zero, RateSourceNone
}
