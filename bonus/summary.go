/*
summary.go - PayrollSummary assembly

PURPOSE:
  A PayrollSummary is a derived, non-persisted aggregate over sales,
  customer reviews, and reconstructed hours for one employee and one
  window. It is recomputed on demand and is never the source of truth -
  two viewers summarizing the same records always agree.

OVERTIME PAY:
  Hours beyond the threshold are "overtime hours" but are paid at the
  SAME rate as regular hours - the multiplier is deliberately 1.0 to
  match the production formula (see DESIGN.md for the flagged
  discrepancy with a typical 1.5x premium).

  Two windows exist:
  - Daily: min(hours, dailyThreshold) regular per work day
  - Weekly: min(totalWeekHours, 40) regular for the week

ROUNDING:
  Monetary figures are rounded to 2 places here, at aggregation, and
  nowhere earlier, so rule arithmetic never compounds rounding error.
*/
package bonus

import (
	"github.com/shopspring/decimal"
	"github.com/warp/brokerage-engine/payroll"
	"github.com/warp/brokerage-engine/sales"
	"github.com/warp/brokerage-engine/timeclock"
)

// PayrollSummary is the on-demand aggregate for one employee and window.
// All money figures are rounded to 2 places.
type PayrollSummary struct {
	RegularHours  float64
	OvertimeHours float64

	RegularPay     decimal.Decimal
	OvertimePay    decimal.Decimal
	TotalHourlyPay decimal.Decimal

	BrokerFeeBonus     decimal.Decimal
	CrossSellBonus     decimal.Decimal
	LifeBonus          decimal.Decimal
	ReviewBonus        decimal.Decimal
	AdminOverrideBonus decimal.Decimal
	TotalBonuses       decimal.Decimal

	TotalPay decimal.Decimal
}

// SummarizeWeekly builds the summary for a week's window, splitting hours
// at the fixed weekly overtime threshold.
func (e *Engine) SummarizeWeekly(
	saleRecords []sales.SaleRecord,
	reviews []sales.ReviewRecord,
	totalWeekHours float64,
	rate decimal.Decimal,
	weeklyOvertimeHours float64,
) PayrollSummary {
	regular, overtime := timeclock.WeeklySplit(totalWeekHours, weeklyOvertimeHours)
	return e.assemble(saleRecords, reviews, regular, overtime, rate)
}

// SummarizeDaily builds the summary for a multi-day window, splitting each
// work day's hours at the daily overtime threshold.
func (e *Engine) SummarizeDaily(
	saleRecords []sales.SaleRecord,
	reviews []sales.ReviewRecord,
	dayHours []float64,
	rate decimal.Decimal,
	dailyOvertimeHours float64,
) PayrollSummary {
	var regular, overtime float64
	for _, h := range dayHours {
		if h <= dailyOvertimeHours {
			regular += h
			continue
		}
		regular += dailyOvertimeHours
		overtime += h - dailyOvertimeHours
	}
	return e.assemble(saleRecords, reviews, regular, overtime, rate)
}

func (e *Engine) assemble(
	saleRecords []sales.SaleRecord,
	reviews []sales.ReviewRecord,
	regularHours, overtimeHours float64,
	rate decimal.Decimal,
) PayrollSummary {
	var brokerFee, crossSell, life, override decimal.Decimal
	for _, s := range saleRecords {
		b := e.SaleBreakdown(s)
		brokerFee = brokerFee.Add(b.BrokerFee)
		crossSell = crossSell.Add(b.CrossSell)
		life = life.Add(b.Life)
		override = override.Add(b.AdminOverride)
	}

	reviewTotal := decimal.Zero
	for _, r := range reviews {
		reviewTotal = reviewTotal.Add(e.ReviewBonus(r))
	}

	regularPay := rate.Mul(decimal.NewFromFloat(regularHours))
	// Overtime multiplier is 1.0 - no premium in this formula.
	overtimePay := rate.Mul(decimal.NewFromFloat(overtimeHours))

	totalHourly := regularPay.Add(overtimePay)
	totalBonuses := brokerFee.Add(crossSell).Add(life).Add(reviewTotal).Add(override)

	return PayrollSummary{
		RegularHours:  regularHours,
		OvertimeHours: overtimeHours,

		RegularPay:     payroll.Round2(regularPay),
		OvertimePay:    payroll.Round2(overtimePay),
		TotalHourlyPay: payroll.Round2(totalHourly),

		BrokerFeeBonus:     payroll.Round2(brokerFee),
		CrossSellBonus:     payroll.Round2(crossSell),
		LifeBonus:          payroll.Round2(life),
		ReviewBonus:        payroll.Round2(reviewTotal),
		AdminOverrideBonus: payroll.Round2(override),
		TotalBonuses:       payroll.Round2(totalBonuses),

		TotalPay: payroll.Round2(totalHourly.Add(totalBonuses)),
	}
}
