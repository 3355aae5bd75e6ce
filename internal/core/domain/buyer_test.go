package domain_test

import (
	"testing"

	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuyerStatusCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    domain.BuyerStatus
		to      domain.BuyerStatus
		allowed bool
	}{
		{"registered to under review", domain.BuyerRegistered, domain.BuyerUnderReview, true},
		{"under review back to registered", domain.BuyerUnderReview, domain.BuyerRegistered, true},
		{"defective guarantor straight to completed", domain.BuyerGuarantorDefective, domain.BuyerCompleted, true},
		{"defective borrower straight to completed", domain.BuyerBorrowerDefective, domain.BuyerCompleted, true},
		{"completed cannot reopen", domain.BuyerCompleted, domain.BuyerUnderReview, false},
		{"completed to completed allowed as no-op", domain.BuyerCompleted, domain.BuyerCompleted, true},
		{"unknown target rejected", domain.BuyerRegistered, domain.BuyerStatus("archived"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to))
		})
	}
}

func TestBuyerStatusValid(t *testing.T) {
	assert.True(t, domain.BuyerRegistered.Valid())
	assert.True(t, domain.BuyerCompleted.Valid())
	assert.False(t, domain.BuyerStatus("").Valid())
	assert.False(t, domain.BuyerStatus("archived").Valid())
}

func TestBuyerMissingCompletionFields(t *testing.T) {
	loanID := "loan-1"
	salePrice := decimal.NewFromInt(450000)
	zero := decimal.Zero

	testCases := []struct {
		name    string
		buyer   domain.Buyer
		missing []string
	}{
		{
			name:    "everything missing",
			buyer:   domain.Buyer{},
			missing: []string{"loan", "sale_price", "bank"},
		},
		{
			name:    "zero sale price counts as missing",
			buyer:   domain.Buyer{LoanID: &loanID, SalePrice: &zero, Bank: "Melli"},
			missing: []string{"sale_price"},
		},
		{
			name:    "empty loan ID counts as missing",
			buyer:   domain.Buyer{LoanID: new(string), SalePrice: &salePrice, Bank: "Melli"},
			missing: []string{"loan"},
		},
		{
			name:    "ready for completion",
			buyer:   domain.Buyer{LoanID: &loanID, SalePrice: &salePrice, Bank: "Melli"},
			missing: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.missing, tc.buyer.MissingCompletionFields())
		})
	}
}
