package settlement

import (
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DeriveStatus classifies a paid/total pair into the three-way settlement
// state. This is used in both services and repositories so the cash and
// installment branches share one threshold rule.
func DeriveStatus(paid, total decimal.Decimal) domain.SettlementStatus {
	if paid.GreaterThanOrEqual(total) && total.GreaterThan(decimal.Zero) {
		return domain.SettlementSettled
	}
	if paid.GreaterThan(decimal.Zero) && paid.LessThan(total) {
		return domain.SettlementPartial
	}
	return domain.SettlementUnsettled
}

// EvaluateCash applies the lump-sum settlement rules: an explicit settled flag
// or paid >= total clamps the paid amount to the total and settles the debt.
// It returns the paid amount to persist and the derived status.
func EvaluateCash(paid, total decimal.Decimal, markSettled bool) (decimal.Decimal, domain.SettlementStatus) {
	if markSettled || (paid.GreaterThanOrEqual(total) && total.GreaterThan(decimal.Zero)) {
		return total, domain.SettlementSettled
	}
	return paid, DeriveStatus(paid, total)
}

// SumPaid totals the paid amounts of installments whose status is paid.
func SumPaid(installments []domain.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range installments {
		if inst.Status == domain.InstallmentPaid {
			sum = sum.Add(inst.PaidAmount)
		}
	}
	return sum
}

// PaidPercentage returns paid/total as a percentage, zero when total is zero.
func PaidPercentage(paid, total decimal.Decimal) decimal.Decimal {
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return paid.Div(total).Mul(decimal.NewFromInt(100))
}
