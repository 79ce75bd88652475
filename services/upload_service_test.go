package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/normalize"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lodashSBOM(version string) string {
	return fmt.Sprintf(`{
		"bomFormat": "CycloneDX",
		"components": [
			{"type": "library", "name": "lodash", "version": %q, "purl": "pkg:npm/lodash@%s"}
		]
	}`, version, version)
}

type uploadFixture struct {
	projects   *fakeProjectRepository
	versions   *fakeSBOMVersionRepository
	components *fakeComponentRepository
	vulns      *fakeVulnRepository
	events     *fakeEventRepository
	scanner    *fakeScanner

	service shared.UploadService
	project uuid.UUID
}

func newUploadFixture(t *testing.T, findings map[string][]dtos.OSVVulnerability) *uploadFixture {
	t.Helper()
	projects := newFakeProjectRepository()
	versions := &fakeSBOMVersionRepository{}
	components := &fakeComponentRepository{versions: versions}
	vulns := newFakeVulnRepository()
	events := &fakeEventRepository{}
	scanner := &fakeScanner{findings: findings}

	vulnService := NewVulnService(vulns, events)
	scanService := NewScanService(scanner, vulns, events)

	return &uploadFixture{
		projects:   projects,
		versions:   versions,
		components: components,
		vulns:      vulns,
		events:     events,
		scanner:    scanner,
		service:    NewUploadService(projects, versions, components, vulnService, scanService),
		project:    projects.add("shop-backend").ID,
	}
}

func TestProcessUpload(t *testing.T) {
	t.Run("should ingest a document and report the inserted findings", func(t *testing.T) {
		f := newUploadFixture(t, map[string][]dtos.OSVVulnerability{
			"pkg:npm/lodash@4.17.20": {{ID: "GHSA-xxxx", Aliases: []string{"CVE-2021-23337"}}},
		})

		result, err := f.service.ProcessUpload(context.Background(), f.project, lodashSBOM("4.17.20"), "alex")
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, 1, result.SBOMVersion)
		assert.Equal(t, 1, result.ComponentsInserted)
		assert.Equal(t, 1, result.VulnerabilitiesInserted)
		assert.Zero(t, result.ComponentsUpgraded)

		require.Len(t, f.versions.versions, 1)
		assert.Equal(t, "alex", f.versions.versions[0].UploadedBy)
		assert.Equal(t, 1, f.versions.versions[0].ComponentCount)
	})

	t.Run("should persist the document's embedded vulnerability count", func(t *testing.T) {
		f := newUploadFixture(t, nil)
		document := `{
			"bomFormat": "CycloneDX",
			"components": [
				{"bom-ref": "ref-lodash", "type": "library", "name": "lodash", "version": "4.17.20"}
			],
			"vulnerabilities": [
				{"id": "CVE-2021-23337", "affects": [{"ref": "ref-lodash"}]}
			]
		}`

		_, err := f.service.ProcessUpload(context.Background(), f.project, document, "alex")
		require.NoError(t, err)

		require.Len(t, f.components.components, 1)
		assert.Equal(t, 1, f.components.components[0].EmbeddedVulnCount)
	})

	t.Run("should auto-resolve findings on an upgraded component", func(t *testing.T) {
		f := newUploadFixture(t, map[string][]dtos.OSVVulnerability{
			"pkg:npm/lodash@4.17.20": {{ID: "GHSA-xxxx", Aliases: []string{"CVE-2021-23337"}}},
		})

		_, err := f.service.ProcessUpload(context.Background(), f.project, lodashSBOM("4.17.20"), "alex")
		require.NoError(t, err)

		// the second upload fixes lodash, the vuln on the old row resolves
		f.scanner.findings = map[string][]dtos.OSVVulnerability{}
		result, err := f.service.ProcessUpload(context.Background(), f.project, lodashSBOM("4.17.21"), "alex")
		require.NoError(t, err)

		assert.Equal(t, 2, result.SBOMVersion)
		assert.Equal(t, 1, result.ComponentsUpgraded)
		assert.Equal(t, 1, result.VulnerabilitiesAutoResolved)

		require.Len(t, f.vulns.vulns, 1)
		assert.Equal(t, dtos.VulnStatePatched, f.vulns.vulns[0].State)
	})

	t.Run("should short-circuit a byte-identical re-upload", func(t *testing.T) {
		f := newUploadFixture(t, nil)
		document := lodashSBOM("4.17.20")

		first, err := f.service.ProcessUpload(context.Background(), f.project, document, "alex")
		require.NoError(t, err)
		second, err := f.service.ProcessUpload(context.Background(), f.project, document, "alex")
		require.NoError(t, err)

		assert.True(t, second.Success)
		assert.Equal(t, first.SBOMVersion, second.SBOMVersion)
		assert.Zero(t, second.ComponentsInserted)
		assert.Len(t, f.versions.versions, 1)
	})

	t.Run("should surface a failing idempotency lookup instead of re-ingesting", func(t *testing.T) {
		f := newUploadFixture(t, nil)
		f.versions.findErr = assert.AnError

		_, err := f.service.ProcessUpload(context.Background(), f.project, lodashSBOM("4.17.20"), "alex")

		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, f.versions.versions)
	})

	t.Run("should degrade to zero findings when the scanner is down", func(t *testing.T) {
		f := newUploadFixture(t, nil)
		f.scanner.err = assert.AnError

		result, err := f.service.ProcessUpload(context.Background(), f.project, lodashSBOM("4.17.20"), "alex")
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, 1, result.ComponentsInserted)
		assert.Zero(t, result.VulnerabilitiesInserted)
	})

	t.Run("should reject an unrecognized document with a format error", func(t *testing.T) {
		f := newUploadFixture(t, nil)

		_, err := f.service.ProcessUpload(context.Background(), f.project, `{"hello": "world"}`, "alex")

		var formatErr *normalize.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Empty(t, f.versions.versions)
	})

	t.Run("should reject an unknown project", func(t *testing.T) {
		f := newUploadFixture(t, nil)

		_, err := f.service.ProcessUpload(context.Background(), uuid.New(), lodashSBOM("4.17.20"), "alex")

		var notFoundErr *shared.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("should accept an SPDX document", func(t *testing.T) {
		f := newUploadFixture(t, nil)
		document := `{
			"spdxVersion": "SPDX-2.3",
			"packages": [{"name": "requests", "versionInfo": "2.31.0"}]
		}`

		result, err := f.service.ProcessUpload(context.Background(), f.project, document, "alex")
		require.NoError(t, err)
		assert.Equal(t, 1, result.ComponentsInserted)
	})
}
