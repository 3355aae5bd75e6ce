package settlement_test

import (
	"testing"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/utils/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestDeriveStatus(t *testing.T) {
	testCases := []struct {
		name     string
		paid     int64
		total    int64
		expected domain.SettlementStatus
	}{
		{"nothing paid", 0, 1000, domain.SettlementUnsettled},
		{"partially paid", 400, 1000, domain.SettlementPartial},
		{"exactly paid", 1000, 1000, domain.SettlementSettled},
		{"overpaid", 1200, 1000, domain.SettlementSettled},
		{"zero total stays unsettled", 0, 0, domain.SettlementUnsettled},
		{"paid against zero total stays unsettled", 100, 0, domain.SettlementUnsettled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, settlement.DeriveStatus(dec(tc.paid), dec(tc.total)))
		})
	}
}

func TestEvaluateCash(t *testing.T) {
	testCases := []struct {
		name           string
		paid           int64
		total          int64
		markSettled    bool
		expectedPaid   int64
		expectedStatus domain.SettlementStatus
	}{
		{"partial payment", 400, 1000, false, 400, domain.SettlementPartial},
		{"full payment settles", 1000, 1000, false, 1000, domain.SettlementSettled},
		{"overpayment clamps to total", 1500, 1000, false, 1000, domain.SettlementSettled},
		{"explicit settled clamps paid up", 250, 1000, true, 1000, domain.SettlementSettled},
		{"no payment", 0, 1000, false, 0, domain.SettlementUnsettled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			paid, status := settlement.EvaluateCash(dec(tc.paid), dec(tc.total), tc.markSettled)
			assert.True(t, paid.Equal(dec(tc.expectedPaid)), "paid = %s, want %d", paid, tc.expectedPaid)
			assert.Equal(t, tc.expectedStatus, status)
		})
	}
}

func TestSumPaid(t *testing.T) {
	installments := []domain.Installment{
		{InstallmentNumber: 1, PaidAmount: dec(200), Status: domain.InstallmentPaid},
		{InstallmentNumber: 2, PaidAmount: dec(300), Status: domain.InstallmentUnpaid},
		{InstallmentNumber: 3, PaidAmount: dec(150), Status: domain.InstallmentPaid},
	}

	// Only paid installments count toward the aggregate.
	assert.True(t, settlement.SumPaid(installments).Equal(dec(350)))
	assert.True(t, settlement.SumPaid(nil).IsZero())
}

func TestPaidPercentage(t *testing.T) {
	assert.True(t, settlement.PaidPercentage(dec(250), dec(1000)).Equal(dec(25)))
	assert.True(t, settlement.PaidPercentage(dec(1000), dec(1000)).Equal(dec(100)))
	assert.True(t, settlement.PaidPercentage(dec(100), dec(0)).IsZero())
}
