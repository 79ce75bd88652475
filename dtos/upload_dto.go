package dtos

import "github.com/google/uuid"

type UploadRequest struct {
	ProjectID   uuid.UUID `json:"projectId" validate:"required"`
	FileContent string    `json:"fileContent" validate:"required"`
}

type UploadResult struct {
	Success                     bool   `json:"success"`
	Message                     string `json:"message"`
	SBOMVersion                 int    `json:"sbomVersion,omitempty"`
	ComponentsInserted          int    `json:"componentsInserted"`
	VulnerabilitiesInserted     int    `json:"vulnerabilitiesInserted"`
	ComponentsUpgraded          int    `json:"componentsUpgraded,omitempty"`
	VulnerabilitiesAutoResolved int    `json:"vulnerabilitiesAutoResolved,omitempty"`
}

type SweepStats struct {
	ProjectsScanned         int `json:"projectsScanned"`
	ComponentsScanned       int `json:"componentsScanned"`
	NewVulnerabilitiesFound int `json:"newVulnerabilitiesFound"`
}

type SweepResult struct {
	Success bool       `json:"success"`
	Stats   SweepStats `json:"stats"`
	Errors  []string   `json:"errors,omitempty"`
}

type ExpiryRequest struct {
	ProjectID uuid.UUID `json:"projectId" validate:"required"`
}

type ExpiryResult struct {
	Expired int `json:"expired"`
}
