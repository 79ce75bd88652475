package repositories

import (
	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type projectRepository struct {
	*GormRepository[uuid.UUID, models.Project]
}

func NewProjectRepository(db *gorm.DB) shared.ProjectRepository {
	return &projectRepository{
		GormRepository: newGormRepository[uuid.UUID, models.Project](db),
	}
}
