package repositories

import (
	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type vulnEventRepository struct {
	*GormRepository[uuid.UUID, models.VulnEvent]
}

func NewVulnEventRepository(db *gorm.DB) shared.VulnEventRepository {
	return &vulnEventRepository{
		GormRepository: newGormRepository[uuid.UUID, models.VulnEvent](db),
	}
}
