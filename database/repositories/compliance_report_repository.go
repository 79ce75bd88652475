package repositories

import (
	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type complianceReportRepository struct {
	*GormRepository[uuid.UUID, models.ComplianceReport]
}

func NewComplianceReportRepository(db *gorm.DB) shared.ComplianceReportRepository {
	return &complianceReportRepository{
		GormRepository: newGormRepository[uuid.UUID, models.ComplianceReport](db),
	}
}

func (r *complianceReportRepository) ListByProject(tx shared.DB, projectID uuid.UUID) ([]models.ComplianceReport, error) {
	var reports []models.ComplianceReport
	err := r.GetDB(tx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}
