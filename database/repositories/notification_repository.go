package repositories

import (
	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// notificationRepository implements shared.Notifier by inserting notification
// rows. The delivery collaborator drains the table out of process.
type notificationRepository struct {
	*GormRepository[uuid.UUID, models.Notification]
}

func NewNotificationRepository(db *gorm.DB) shared.Notifier {
	return &notificationRepository{
		GormRepository: newGormRepository[uuid.UUID, models.Notification](db),
	}
}

func (r *notificationRepository) Notify(payload dtos.NotificationPayload) error {
	notification := models.Notification{
		UserID:          payload.UserID,
		Title:           payload.Title,
		Message:         payload.Message,
		Type:            payload.Type,
		VulnerabilityID: payload.VulnerabilityID,
		ProjectID:       payload.ProjectID,
	}
	return r.Create(nil, &notification)
}
