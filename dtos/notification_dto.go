package dtos

import "github.com/google/uuid"

// NotificationPayload is handed to the notification collaborator. The core
// only decides when to emit one - delivery (mail, chat) happens elsewhere.
type NotificationPayload struct {
	UserID          string     `json:"userId"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	Type            string     `json:"type"`
	VulnerabilityID *uuid.UUID `json:"vulnerabilityId,omitempty"`
	ProjectID       *uuid.UUID `json:"projectId,omitempty"`
}
