/*
Package payroll provides the shared primitives for the brokerage time & bonus
engine.

PURPOSE:
  This package contains the types every domain package agrees on: employee
  identity, money arithmetic, and the error taxonomy. It has no behavior of
  its own beyond small helpers - the interesting computations live in
  timeclock, payperiod, bonus, and review.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmployeeID / Role: Type-safe identity handed in by the identity collaborator
  - Employee: HR-owned record, read-only to the engine
  - Money helpers: decimal.Decimal wrappers with 2-place display rounding

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all monetary amounts; rounding to
     2 places happens only at display/aggregation, never mid-rule
  2. Type Safety: EmployeeID is not a bare string
  3. Read-only collaborators: Employee records are owned by HR; the engine
     never writes them

SEE ALSO:
  - errors.go: ValidationError / ConflictError / TransientError taxonomy
  - bonus/: Consumes HourlyRate for pay computation
  - timeclock/: Consumes DailyOvertimeHours for live overtime status
*/
package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTITY
// =============================================================================

type EmployeeID string

// Role is the coarse role flag yielded by the identity collaborator.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// =============================================================================
// EMPLOYEE - HR-owned record, read-only to the core
// =============================================================================

// Employee carries the payroll-relevant attributes of a worker.
// DailyOvertimeHours is the per-employee live-status threshold; the weekly
// payroll threshold is a fixed configuration value, not stored here.
type Employee struct {
	ID                 EmployeeID
	Name               string
	HourlyRate         decimal.Decimal
	DailyOvertimeHours float64
}

// EmployeeStore is the read side of the HR collaborator.
type EmployeeStore interface {
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// MoneyFromFloat converts a float input (JSON numbers, config) to a decimal.
func MoneyFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Round2 rounds a monetary amount to 2 decimal places. Call this only when
// producing a display/aggregate figure - intermediate rule steps stay exact.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
