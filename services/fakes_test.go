package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// in-memory fakes for the repository and collaborator interfaces. They keep
// insertion order so tests stay deterministic.

type fakeProjectRepository struct {
	projects map[uuid.UUID]models.Project
}

func newFakeProjectRepository() *fakeProjectRepository {
	return &fakeProjectRepository{projects: map[uuid.UUID]models.Project{}}
}

func (r *fakeProjectRepository) add(name string) models.Project {
	project := models.Project{Name: name}
	project.ID = uuid.New()
	r.projects[project.ID] = project
	return project
}

func (r *fakeProjectRepository) All() ([]models.Project, error) {
	projects := make([]models.Project, 0, len(r.projects))
	for _, project := range r.projects {
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

func (r *fakeProjectRepository) Read(id uuid.UUID) (models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (r *fakeProjectRepository) Create(tx shared.DB, project *models.Project) error {
	project.ID = uuid.New()
	r.projects[project.ID] = *project
	return nil
}

type fakeSBOMVersionRepository struct {
	versions []models.SBOMVersion
	findErr  error
}

func (r *fakeSBOMVersionRepository) Create(tx shared.DB, version *models.SBOMVersion) error {
	version.ID = uuid.New()
	r.versions = append(r.versions, *version)
	return nil
}

func (r *fakeSBOMVersionRepository) LatestVersionNumber(tx shared.DB, projectID uuid.UUID) (int, error) {
	latest := 0
	for _, version := range r.versions {
		if version.ProjectID == projectID && version.Version > latest {
			latest = version.Version
		}
	}
	return latest, nil
}

func (r *fakeSBOMVersionRepository) FindByContentHash(tx shared.DB, projectID uuid.UUID, hash string) (models.SBOMVersion, error) {
	if r.findErr != nil {
		return models.SBOMVersion{}, r.findErr
	}
	for i := len(r.versions) - 1; i >= 0; i-- {
		version := r.versions[i]
		if version.ProjectID == projectID && version.ContentHash != nil && *version.ContentHash == hash {
			return version, nil
		}
	}
	return models.SBOMVersion{}, gorm.ErrRecordNotFound
}

func (r *fakeSBOMVersionRepository) Transaction(fn func(tx shared.DB) error) error {
	return fn(nil)
}

type fakeComponentRepository struct {
	components []models.Component
	versions   *fakeSBOMVersionRepository
}

func (r *fakeComponentRepository) CreateBatch(tx shared.DB, components []models.Component) error {
	for i := range components {
		components[i].ID = uuid.New()
		r.components = append(r.components, components[i])
	}
	return nil
}

func (r *fakeComponentRepository) CurrentInventory(tx shared.DB, projectID uuid.UUID) ([]models.Component, error) {
	latest, _ := r.versions.LatestVersionNumber(nil, projectID)
	var latestID uuid.UUID
	for _, version := range r.versions.versions {
		if version.ProjectID == projectID && version.Version == latest {
			latestID = version.ID
		}
	}

	var current []models.Component
	for _, component := range r.components {
		if component.ProjectID == projectID && component.SBOMVersionID == latestID {
			current = append(current, component)
		}
	}
	return current, nil
}

func (r *fakeComponentRepository) CurrentInventoryWithPurl(tx shared.DB, projectID uuid.UUID) ([]models.Component, error) {
	current, err := r.CurrentInventory(tx, projectID)
	if err != nil {
		return nil, err
	}
	var withPurl []models.Component
	for _, component := range current {
		if component.Purl != nil {
			withPurl = append(withPurl, component)
		}
	}
	return withPurl, nil
}

type fakeVulnRepository struct {
	vulns []models.DependencyVuln
	// projectOf maps component ids onto projects, standing in for the join
	// through the components table.
	projectOf map[uuid.UUID]uuid.UUID
	saveErr   error
}

func newFakeVulnRepository() *fakeVulnRepository {
	return &fakeVulnRepository{projectOf: map[uuid.UUID]uuid.UUID{}}
}

func (r *fakeVulnRepository) add(vuln models.DependencyVuln, projectID uuid.UUID) models.DependencyVuln {
	if vuln.ID == uuid.Nil {
		vuln.ID = uuid.New()
	}
	r.vulns = append(r.vulns, vuln)
	r.projectOf[vuln.ComponentID] = projectID
	return vuln
}

func (r *fakeVulnRepository) Read(id uuid.UUID) (models.DependencyVuln, error) {
	for _, vuln := range r.vulns {
		if vuln.ID == id {
			return vuln, nil
		}
	}
	return models.DependencyVuln{}, gorm.ErrRecordNotFound
}

func (r *fakeVulnRepository) Save(tx shared.DB, vuln *models.DependencyVuln) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	for i := range r.vulns {
		if r.vulns[i].ID == vuln.ID {
			r.vulns[i] = *vuln
			return nil
		}
	}
	r.vulns = append(r.vulns, *vuln)
	return nil
}

func (r *fakeVulnRepository) CreateIfNotExists(tx shared.DB, vuln *models.DependencyVuln) (bool, error) {
	for _, existing := range r.vulns {
		if existing.ComponentID == vuln.ComponentID && existing.CVEID == vuln.CVEID {
			return false, nil
		}
	}
	vuln.ID = uuid.New()
	r.vulns = append(r.vulns, *vuln)
	return true, nil
}

func (r *fakeVulnRepository) FindNonTerminalByComponentIDs(tx shared.DB, componentIDs []uuid.UUID) ([]models.DependencyVuln, error) {
	ids := map[uuid.UUID]bool{}
	for _, id := range componentIDs {
		ids[id] = true
	}
	var matched []models.DependencyVuln
	for _, vuln := range r.vulns {
		if ids[vuln.ComponentID] && !vuln.State.IsTerminal() {
			matched = append(matched, vuln)
		}
	}
	return matched, nil
}

func (r *fakeVulnRepository) FindNonTerminalOverdueByProject(tx shared.DB, projectID uuid.UUID, now time.Time) ([]models.DependencyVuln, error) {
	var matched []models.DependencyVuln
	for _, vuln := range r.vulns {
		if r.projectOf[vuln.ComponentID] == projectID && !vuln.State.IsTerminal() && vuln.IsOverdue(now) {
			matched = append(matched, vuln)
		}
	}
	return matched, nil
}

func (r *fakeVulnRepository) ListUnenriched(tx shared.DB, limit int) ([]models.DependencyVuln, error) {
	var unenriched []models.DependencyVuln
	for _, vuln := range r.vulns {
		if vuln.Score == nil && strings.HasPrefix(vuln.CVEID, "CVE-") {
			unenriched = append(unenriched, vuln)
		}
	}
	sort.SliceStable(unenriched, func(i, j int) bool {
		return unenriched[i].DiscoveredAt.Before(unenriched[j].DiscoveredAt)
	})
	if len(unenriched) > limit {
		unenriched = unenriched[:limit]
	}
	return unenriched, nil
}

func (r *fakeVulnRepository) ListByProject(tx shared.DB, projectID uuid.UUID) ([]models.DependencyVuln, error) {
	var matched []models.DependencyVuln
	for _, vuln := range r.vulns {
		if r.projectOf[vuln.ComponentID] == projectID {
			matched = append(matched, vuln)
		}
	}
	return matched, nil
}

type fakeEventRepository struct {
	events []models.VulnEvent
}

func (r *fakeEventRepository) Create(tx shared.DB, event *models.VulnEvent) error {
	event.ID = uuid.New()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepository) CreateBatch(tx shared.DB, events []models.VulnEvent) error {
	for i := range events {
		events[i].ID = uuid.New()
		r.events = append(r.events, events[i])
	}
	return nil
}

func (r *fakeEventRepository) ofType(eventType dtos.VulnEventType) []models.VulnEvent {
	var matched []models.VulnEvent
	for _, event := range r.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type fakeScanner struct {
	findings map[string][]dtos.OSVVulnerability
	err      error
	queried  [][]string
}

func (s *fakeScanner) QueryBatch(ctx context.Context, purls []string) (map[string][]dtos.OSVVulnerability, error) {
	s.queried = append(s.queried, purls)
	if s.err != nil {
		return nil, s.err
	}
	return s.findings, nil
}

type fakeCVESource struct {
	enrichments map[string]dtos.CVEEnrichment
	hasKey      bool
	fetched     []string
}

func (s *fakeCVESource) FetchCVE(ctx context.Context, cveID string) (dtos.CVEEnrichment, error) {
	s.fetched = append(s.fetched, cveID)
	enrichment, ok := s.enrichments[cveID]
	if !ok {
		return dtos.CVEEnrichment{}, gorm.ErrRecordNotFound
	}
	return enrichment, nil
}

func (s *fakeCVESource) HasAPIKey() bool {
	return s.hasKey
}

type fakeReportRepository struct {
	reports []models.ComplianceReport
}

func (r *fakeReportRepository) Create(tx shared.DB, report *models.ComplianceReport) error {
	report.ID = uuid.New()
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeReportRepository) ListByProject(tx shared.DB, projectID uuid.UUID) ([]models.ComplianceReport, error) {
	var matched []models.ComplianceReport
	for _, report := range r.reports {
		if report.ProjectID == projectID {
			matched = append(matched, report)
		}
	}
	return matched, nil
}
