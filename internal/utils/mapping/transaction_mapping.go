package mapping

import (
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to its row shape.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	var interval *string
	if d.IsRecurring && d.RecurringInterval != nil {
		s := string(*d.RecurringInterval)
		interval = &s
	}
	return models.Transaction{
		TransactionID:     d.TransactionID,
		UserID:            d.UserID,
		TransactionType:   string(d.Type),
		Amount:            d.Amount,
		Description:       d.Description,
		TransactionDate:   d.Date,
		AccountID:         d.AccountID,
		CategoryID:        d.CategoryID,
		IsRecurring:       d.IsRecurring,
		RecurringInterval: interval,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a transaction row to the domain type.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	var interval *domain.RecurringInterval
	if m.RecurringInterval != nil {
		ri := domain.RecurringInterval(*m.RecurringInterval)
		interval = &ri
	}
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		UserID:            m.UserID,
		Type:              domain.TransactionType(m.TransactionType),
		Amount:            m.Amount,
		Description:       m.Description,
		Date:              m.TransactionDate,
		AccountID:         m.AccountID,
		CategoryID:        m.CategoryID,
		IsRecurring:       m.IsRecurring,
		RecurringInterval: interval,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of rows.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
