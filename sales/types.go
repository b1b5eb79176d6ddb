/*
Package sales owns sale and customer-review records.

PURPOSE:
  Sales are the input to the bonus engine; customer reviews contribute a
  flat bonus when rated five stars. Both record types are owned by the
  employee who generated them and are append-mostly: a sale is immutable
  once written, except for admin-assigned bonus overrides attached only
  through the high-value review workflow.

KEY CONCEPTS IN THIS FILE (types.go):
  - SaleRecord: amount, broker fee, policy type, cross-sell attribution
  - ReviewRecord: a customer rating (1-5)
  - Life-insurance detection: a sale's own policy type OR its cross-sold
    type can denote a life product

SEE ALSO:
  - service.go: Recording operations and high-value notification routing
  - bonus/engine.go: The rules consuming these records
*/
package sales

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/payroll"
)

// =============================================================================
// SALE RECORD
// =============================================================================

// SaleRecord is immutable once its bonus is computed, except for
// AdminBonuses, appended only through the review workflow.
type SaleRecord struct {
	ID            string
	EmployeeID    payroll.EmployeeID
	ClientName    string
	Amount        decimal.Decimal
	BrokerFee     decimal.Decimal
	PolicyType    string
	CrossSoldType string
	IsCrossSold   bool
	SaleDate      time.Time

	// AdminBonuses is the audit trail of admin override decisions recorded
	// against a high-value sale, oldest first. The latest entry is the
	// effective override; earlier entries are superseded corrections.
	AdminBonuses []decimal.Decimal
}

// AdminBonusOverride returns the effective admin override: the latest
// decision recorded against the sale, zero if none yet. A re-review
// replaces the override, it never accumulates.
func (s SaleRecord) AdminBonusOverride() decimal.Decimal {
	if len(s.AdminBonuses) == 0 {
		return decimal.Zero
	}
	return s.AdminBonuses[len(s.AdminBonuses)-1]
}

// HasLifePolicy reports whether the sale's own policy type or its
// cross-sold type denotes a life-insurance product.
func (s SaleRecord) HasLifePolicy() bool {
	return IsLifePolicy(s.PolicyType) || IsLifePolicy(s.CrossSoldType)
}

// IsLifePolicy matches life-insurance product names regardless of casing
// ("Life", "life insurance", "Whole Life").
func IsLifePolicy(policyType string) bool {
	return strings.Contains(strings.ToLower(policyType), "life")
}

func (s SaleRecord) Validate() error {
	if s.EmployeeID == "" {
		return &payroll.ValidationError{Field: "employeeId", Reason: "required"}
	}
	if s.Amount.IsNegative() {
		return &payroll.ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if s.BrokerFee.IsNegative() {
		return &payroll.ValidationError{Field: "brokerFee", Reason: "must not be negative"}
	}
	if s.PolicyType == "" {
		return &payroll.ValidationError{Field: "policyType", Reason: "required"}
	}
	if s.IsCrossSold && s.CrossSoldType == "" {
		return &payroll.ValidationError{Field: "crossSoldType", Reason: "required for a cross-sold sale"}
	}
	return nil
}

// =============================================================================
// CUSTOMER REVIEW RECORD
// =============================================================================

type ReviewRecord struct {
	ID         string
	EmployeeID payroll.EmployeeID
	Rating     int // 1-5
	ReviewDate time.Time
}

func (r ReviewRecord) Validate() error {
	if r.EmployeeID == "" {
		return &payroll.ValidationError{Field: "employeeId", Reason: "required"}
	}
	if r.Rating < 1 || r.Rating > 5 {
		return &payroll.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	return nil
}

// =============================================================================
// STORES - Persistence collaborators
// =============================================================================

type SaleStore interface {
	InsertSale(ctx context.Context, s SaleRecord) error
	GetSale(ctx context.Context, id string) (*SaleRecord, error)

	// SalesByEmployeeAndRange returns sales with SaleDate in [from, to].
	SalesByEmployeeAndRange(ctx context.Context, id payroll.EmployeeID, from, to time.Time) ([]SaleRecord, error)

	// AppendAdminBonus records an admin override decision against the sale.
	// Called only by the review workflow; the latest decision is the
	// effective override.
	AppendAdminBonus(ctx context.Context, saleID string, amount decimal.Decimal) error
}

type ReviewStore interface {
	InsertReview(ctx context.Context, r ReviewRecord) error
	ReviewsByEmployeeAndRange(ctx context.Context, id payroll.EmployeeID, from, to time.Time) ([]ReviewRecord, error)
}
