package mapping

import (
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/models"
)

func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:   d.CategoryID,
		UserID:       d.UserID,
		Name:         d.Name,
		CategoryType: string(d.Type),
		Color:        d.Color,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		UserID:      m.UserID,
		Name:        m.Name,
		Type:        domain.TransactionType(m.CategoryType),
		Color:       m.Color,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
