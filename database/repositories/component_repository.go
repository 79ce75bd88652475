package repositories

import (
	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type componentRepository struct {
	*GormRepository[uuid.UUID, models.Component]
}

func NewComponentRepository(db *gorm.DB) shared.ComponentRepository {
	return &componentRepository{
		GormRepository: newGormRepository[uuid.UUID, models.Component](db),
	}
}

// latestVersionSubquery selects the id of the newest SBOM version of a
// project. Components outside that version are historical rows.
func (r *componentRepository) latestVersionSubquery(tx shared.DB, projectID uuid.UUID) *gorm.DB {
	return r.GetDB(tx).Model(&models.SBOMVersion{}).
		Where("project_id = ?", projectID).
		Order("version DESC").
		Limit(1).
		Select("id")
}

func (r *componentRepository) CurrentInventory(tx shared.DB, projectID uuid.UUID) ([]models.Component, error) {
	var components []models.Component
	err := r.GetDB(tx).
		Where("project_id = ? AND sbom_version_id = (?)", projectID, r.latestVersionSubquery(tx, projectID)).
		Find(&components).Error
	return components, err
}

func (r *componentRepository) CurrentInventoryWithPurl(tx shared.DB, projectID uuid.UUID) ([]models.Component, error) {
	var components []models.Component
	err := r.GetDB(tx).
		Where("project_id = ? AND sbom_version_id = (?) AND purl IS NOT NULL", projectID, r.latestVersionSubquery(tx, projectID)).
		Find(&components).Error
	return components, err
}
