package repositories

import (
	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sbomVersionRepository struct {
	*GormRepository[uuid.UUID, models.SBOMVersion]
}

func NewSBOMVersionRepository(db *gorm.DB) shared.SBOMVersionRepository {
	return &sbomVersionRepository{
		GormRepository: newGormRepository[uuid.UUID, models.SBOMVersion](db),
	}
}

func (r *sbomVersionRepository) LatestVersionNumber(tx shared.DB, projectID uuid.UUID) (int, error) {
	var version *int
	err := r.GetDB(tx).Model(&models.SBOMVersion{}).
		Where("project_id = ?", projectID).
		Select("MAX(version)").
		Scan(&version).Error
	if err != nil {
		return 0, err
	}
	if version == nil {
		return 0, nil
	}
	return *version, nil
}

func (r *sbomVersionRepository) FindByContentHash(tx shared.DB, projectID uuid.UUID, hash string) (models.SBOMVersion, error) {
	var version models.SBOMVersion
	err := r.GetDB(tx).
		Where("project_id = ? AND content_hash = ?", projectID, hash).
		Order("version DESC").
		First(&version).Error
	return version, err
}
