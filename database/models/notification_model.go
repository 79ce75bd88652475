package models

import "github.com/google/uuid"

// Notification rows are consumed by the delivery collaborator (mail, chat).
// The core only writes them.
type Notification struct {
	Model
	UserID          string     `json:"userId" gorm:"type:text;not null;index"`
	Title           string     `json:"title" gorm:"type:text;not null"`
	Message         string     `json:"message" gorm:"type:text;not null"`
	Type            string     `json:"type" gorm:"type:text;not null"`
	VulnerabilityID *uuid.UUID `json:"vulnerabilityId" gorm:"type:uuid"`
	ProjectID       *uuid.UUID `json:"projectId" gorm:"type:uuid"`
}

func (n Notification) TableName() string {
	return "notifications"
}
