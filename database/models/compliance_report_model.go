package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ComplianceReport records a report-generation event. The statistics visible
// at generation time are snapshotted into Stats so historical reports do not
// drift as the underlying vulnerability data changes.
type ComplianceReport struct {
	Model
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`

	ReportType           string         `json:"reportType" gorm:"type:text;not null"`
	SubmittedToRegulator bool           `json:"submittedToRegulator" gorm:"not null;default:false"`
	Stats                datatypes.JSON `json:"stats" gorm:"type:jsonb"`
}

func (r ComplianceReport) TableName() string {
	return "compliance_reports"
}
