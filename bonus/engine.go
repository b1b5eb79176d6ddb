/*
Package bonus computes sales-driven bonuses and payroll summaries.

PURPOSE:
  The bonus formula is layered and its rules interact; evaluation order
  matters and is fixed:

  1. Amount >= high-value threshold: the sale's bonus is EXACTLY the
     admin-assigned override (zero until one is assigned; a re-review
     replaces the override). The threshold does not add to the automatic
     bonus - it replaces it. Rules 2-3 never fire for such a sale.
  2. Broker fee over $100: base = (fee - 100) * 0.10.
  3. Cross-sold and rule 2 fired: the base is added a second time.
     Cross-selling doubles the broker-fee bonus additively, not
     multiplicatively on the final figure.
  4. Life-insurance product (own type or cross-sold type): flat $10,
     independent of rules 2-3 and of the threshold rule.
  5. Each five-star customer review: flat $10, independent of sales.

  All arithmetic stays exact (decimal); rounding to 2 places happens
  only in summary.go when figures are aggregated for display.

SEE ALSO:
  - summary.go: PayrollSummary assembly and the overtime pay split
  - review/workflow.go: Where admin overrides come from
*/
package bonus

import (
	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/sales"
)

// Rule constants. Dollar values, exact.
var (
	brokerFeeFloor = decimal.NewFromInt(100)
	brokerFeeRate  = decimal.NewFromFloat(0.10)
	lifeFlatBonus  = decimal.NewFromInt(10)
	reviewBonus    = decimal.NewFromInt(10)
)

const fiveStarRating = 5

// Engine evaluates the bonus rules against a configured high-value
// threshold. The threshold is an explicit value handed in at
// construction, never ambient state.
type Engine struct {
	Threshold decimal.Decimal
}

func NewEngine(threshold decimal.Decimal) *Engine {
	return &Engine{Threshold: threshold}
}

// =============================================================================
// PER-SALE EVALUATION
// =============================================================================

// SaleBreakdown is one sale's bonus contribution split by rule.
type SaleBreakdown struct {
	BrokerFee     decimal.Decimal
	CrossSell     decimal.Decimal
	Life          decimal.Decimal
	AdminOverride decimal.Decimal
}

// Total sums the categories. Exact, unrounded.
func (b SaleBreakdown) Total() decimal.Decimal {
	return b.BrokerFee.Add(b.CrossSell).Add(b.Life).Add(b.AdminOverride)
}

// SaleBonus returns the sale's total bonus contribution.
func (e *Engine) SaleBonus(s sales.SaleRecord) decimal.Decimal {
	return e.SaleBreakdown(s).Total()
}

// SaleBreakdown evaluates the rules in priority order.
func (e *Engine) SaleBreakdown(s sales.SaleRecord) SaleBreakdown {
	var b SaleBreakdown

	if s.Amount.GreaterThanOrEqual(e.Threshold) {
		// Rule 1: manual override replaces the automatic rules.
		b.AdminOverride = s.AdminBonusOverride()
	} else if s.BrokerFee.GreaterThan(brokerFeeFloor) {
		// Rule 2.
		base := s.BrokerFee.Sub(brokerFeeFloor).Mul(brokerFeeRate)
		b.BrokerFee = base
		if s.IsCrossSold {
			// Rule 3: a second base, additively.
			b.CrossSell = base
		}
	}

	// Rule 4: the life flat bonus applies even to high-value sales.
	if s.HasLifePolicy() {
		b.Life = lifeFlatBonus
	}

	return b
}

// ReviewBonus returns the flat contribution of one customer review.
func (e *Engine) ReviewBonus(r sales.ReviewRecord) decimal.Decimal {
	if r.Rating == fiveStarRating {
		return reviewBonus
	}
	return decimal.Zero
}
