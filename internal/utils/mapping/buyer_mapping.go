package mapping

import (
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	"github.com/phonix-app/loan_settlement_app/internal/models"
)

// ToModelBuyer converts a domain Buyer to a model Buyer.
func ToModelBuyer(d domain.Buyer) models.Buyer {
	return models.Buyer{
		BuyerID:         d.BuyerID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		NationalID:      d.NationalID,
		Phone:           d.Phone,
		LoanID:          d.LoanID,
		RequestedAmount: d.RequestedAmount,
		Bank:            d.Bank,
		SalePrice:       d.SalePrice,
		SaleType:        string(d.SaleType),
		ApplicationDate: d.ApplicationDate,
		CurrentStatus:   string(d.CurrentStatus),
		BrokerID:        d.BrokerID,
		InternalNotes:   d.InternalNotes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBuyer converts a model Buyer to a domain Buyer.
func ToDomainBuyer(m models.Buyer) domain.Buyer {
	return domain.Buyer{
		BuyerID:         m.BuyerID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		NationalID:      m.NationalID,
		Phone:           m.Phone,
		LoanID:          m.LoanID,
		RequestedAmount: m.RequestedAmount,
		Bank:            m.Bank,
		SalePrice:       m.SalePrice,
		SaleType:        domain.SaleType(m.SaleType),
		ApplicationDate: m.ApplicationDate,
		CurrentStatus:   domain.BuyerStatus(m.CurrentStatus),
		BrokerID:        m.BrokerID,
		InternalNotes:   m.InternalNotes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBuyerSlice converts a slice of model Buyers to domain Buyers.
func ToDomainBuyerSlice(ms []models.Buyer) []domain.Buyer {
	ds := make([]domain.Buyer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBuyer(m)
	}
	return ds
}

// ToModelStatusHistory converts a domain StatusHistory to its model form.
func ToModelStatusHistory(d domain.StatusHistory) models.StatusHistory {
	return models.StatusHistory{
		HistoryID:  d.HistoryID,
		BuyerID:    d.BuyerID,
		Status:     string(d.Status),
		StatusDate: d.StatusDate,
		Note:       d.Note,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainStatusHistory converts a model StatusHistory to its domain form.
func ToDomainStatusHistory(m models.StatusHistory) domain.StatusHistory {
	return domain.StatusHistory{
		HistoryID:  m.HistoryID,
		BuyerID:    m.BuyerID,
		Status:     domain.BuyerStatus(m.Status),
		StatusDate: m.StatusDate,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainStatusHistorySlice converts model history rows to domain rows.
func ToDomainStatusHistorySlice(ms []models.StatusHistory) []domain.StatusHistory {
	ds := make([]domain.StatusHistory, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStatusHistory(m)
	}
	return ds
}
