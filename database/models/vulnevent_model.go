package models

import (
	"github.com/cradle-sec/cradle/dtos"
	"github.com/google/uuid"
)

// VulnEvent is the append-only transition log of a vulnerability. Rows are
// never updated or deleted.
type VulnEvent struct {
	Model
	VulnID uuid.UUID          `json:"vulnId" gorm:"type:uuid;not null;index"`
	Type   dtos.VulnEventType `json:"type" gorm:"type:text;not null"`
	// UserID is "system" for automatic transitions.
	UserID        string  `json:"userId" gorm:"type:text;not null"`
	Justification *string `json:"justification" gorm:"type:text"`
}

func (event VulnEvent) TableName() string {
	return "vuln_events"
}

func NewVulnEvent(vulnID uuid.UUID, eventType dtos.VulnEventType, userID string, justification *string) VulnEvent {
	return VulnEvent{
		VulnID:        vulnID,
		Type:          eventType,
		UserID:        userID,
		Justification: justification,
	}
}
