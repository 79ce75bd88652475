// Copyright (C) 2025 cradle authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shared

import (
	"context"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/google/uuid"
)

type ProjectRepository interface {
	All() ([]models.Project, error)
	Read(id uuid.UUID) (models.Project, error)
	Create(tx DB, project *models.Project) error
}

type SBOMVersionRepository interface {
	Create(tx DB, version *models.SBOMVersion) error
	// LatestVersionNumber returns 0 when the project has no uploads yet.
	LatestVersionNumber(tx DB, projectID uuid.UUID) (int, error)
	FindByContentHash(tx DB, projectID uuid.UUID, hash string) (models.SBOMVersion, error)
	Transaction(fn func(tx DB) error) error
}

type ComponentRepository interface {
	CreateBatch(tx DB, components []models.Component) error
	// CurrentInventory returns the components of the latest SBOM version.
	CurrentInventory(tx DB, projectID uuid.UUID) ([]models.Component, error)
	// CurrentInventoryWithPurl narrows the current inventory to components
	// carrying a package URL - the only ones the scanner can query.
	CurrentInventoryWithPurl(tx DB, projectID uuid.UUID) ([]models.Component, error)
}

type DependencyVulnRepository interface {
	Read(id uuid.UUID) (models.DependencyVuln, error)
	Save(tx DB, vuln *models.DependencyVuln) error
	// CreateIfNotExists inserts the vulnerability unless a row with the same
	// (component_id, cve_id) already exists. Returns true when a row was
	// inserted.
	CreateIfNotExists(tx DB, vuln *models.DependencyVuln) (bool, error)
	FindNonTerminalByComponentIDs(tx DB, componentIDs []uuid.UUID) ([]models.DependencyVuln, error)
	FindNonTerminalOverdueByProject(tx DB, projectID uuid.UUID, now time.Time) ([]models.DependencyVuln, error)
	ListUnenriched(tx DB, limit int) ([]models.DependencyVuln, error)
	ListByProject(tx DB, projectID uuid.UUID) ([]models.DependencyVuln, error)
}

type VulnEventRepository interface {
	Create(tx DB, event *models.VulnEvent) error
	CreateBatch(tx DB, events []models.VulnEvent) error
}

type ComplianceReportRepository interface {
	Create(tx DB, report *models.ComplianceReport) error
	ListByProject(tx DB, projectID uuid.UUID) ([]models.ComplianceReport, error)
}

// Notifier is the trigger side of the notification collaborator. Delivery is
// out of process.
type Notifier interface {
	Notify(payload dtos.NotificationPayload) error
}

// VulnScanner queries an external vulnerability database in batch by purl.
type VulnScanner interface {
	QueryBatch(ctx context.Context, purls []string) (map[string][]dtos.OSVVulnerability, error)
}

// CVEDetailSource resolves a single CVE identifier to an authoritative score.
type CVEDetailSource interface {
	FetchCVE(ctx context.Context, cveID string) (dtos.CVEEnrichment, error)
	// HasAPIKey reports whether the source is credentialed. Enrichment paces
	// itself much more conservatively against an anonymous source.
	HasAPIKey() bool
}

type ScanService interface {
	ScanComponents(ctx context.Context, components []models.Component) (int, []models.DependencyVuln, error)
}

type VulnService interface {
	UpdateStatus(vulnID uuid.UUID, req dtos.TriageRequest, userID string) (models.DependencyVuln, error)
	AutoResolveForComponents(tx DB, componentIDs []uuid.UUID, userID string) (int, error)
	ExpireOverdue(projectID uuid.UUID, now time.Time) (int, error)
}

type UploadService interface {
	ProcessUpload(ctx context.Context, projectID uuid.UUID, fileContent string, userID string) (dtos.UploadResult, error)
}

type StatisticsService interface {
	ProjectStatistics(projectID uuid.UUID, now time.Time) (dtos.ProjectStatistics, error)
}

type EnrichmentService interface {
	// EnrichPending backfills authoritative scores for a bounded batch of
	// unenriched vulnerabilities. Returns the number enriched.
	EnrichPending(ctx context.Context) (int, error)
}

type ReportService interface {
	GenerateReport(projectID uuid.UUID, reportType string, submitted bool) (models.ComplianceReport, error)
	ListReports(projectID uuid.UUID) ([]models.ComplianceReport, error)
}
