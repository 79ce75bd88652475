package services

import (
	"context"
	"testing"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/statemachine"
	"github.com/cradle-sec/cradle/utils"
	"github.com/cradle-sec/cradle/vulndb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTestComponent(purl string) models.Component {
	component := models.Component{
		Name:    "lodash",
		Version: "4.17.20",
		Purl:    utils.Ptr(purl),
	}
	component.ID = uuid.New()
	return component
}

func TestScanComponents(t *testing.T) {
	purl := "pkg:npm/lodash@4.17.20"

	t.Run("should insert a finding with state open and a 24h deadline", func(t *testing.T) {
		scanner := &fakeScanner{findings: map[string][]dtos.OSVVulnerability{
			purl: {{ID: "GHSA-xxxx", Aliases: []string{"CVE-2021-23337"}}},
		}}
		vulnRepository := newFakeVulnRepository()
		eventRepository := &fakeEventRepository{}
		service := NewScanService(scanner, vulnRepository, eventRepository)

		component := scanTestComponent(purl)
		inserted, newVulns, err := service.ScanComponents(context.Background(), []models.Component{component})
		require.NoError(t, err)

		assert.Equal(t, 1, inserted)
		require.Len(t, newVulns, 1)

		vuln := newVulns[0]
		assert.Equal(t, component.ID, vuln.ComponentID)
		assert.Equal(t, "CVE-2021-23337", vuln.CVEID)
		assert.Equal(t, dtos.VulnStateOpen, vuln.State)
		assert.Equal(t, vuln.DiscoveredAt.Add(statemachine.ReportingWindow), vuln.ReportingDeadline)
		assert.WithinDuration(t, time.Now(), vuln.DiscoveredAt, 5*time.Second)

		events := eventRepository.ofType(dtos.EventTypeDetected)
		require.Len(t, events, 1)
		assert.Equal(t, "system", events[0].UserID)
	})

	t.Run("should not insert the same finding twice across scans", func(t *testing.T) {
		scanner := &fakeScanner{findings: map[string][]dtos.OSVVulnerability{
			purl: {{ID: "GHSA-xxxx", Aliases: []string{"CVE-2021-23337"}}},
		}}
		vulnRepository := newFakeVulnRepository()
		service := NewScanService(scanner, vulnRepository, &fakeEventRepository{})

		component := scanTestComponent(purl)
		first, _, err := service.ScanComponents(context.Background(), []models.Component{component})
		require.NoError(t, err)
		second, _, err := service.ScanComponents(context.Background(), []models.Component{component})
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Equal(t, 0, second)
		assert.Len(t, vulnRepository.vulns, 1)
	})

	t.Run("should pass the scanner error through", func(t *testing.T) {
		scanner := &fakeScanner{err: &vulndb.ScanningError{Msg: "osv is down"}}
		service := NewScanService(scanner, newFakeVulnRepository(), &fakeEventRepository{})

		_, _, err := service.ScanComponents(context.Background(), []models.Component{scanTestComponent(purl)})

		var scanErr *vulndb.ScanningError
		require.ErrorAs(t, err, &scanErr)
	})

	t.Run("should skip components without a purl", func(t *testing.T) {
		scanner := &fakeScanner{findings: map[string][]dtos.OSVVulnerability{}}
		service := NewScanService(scanner, newFakeVulnRepository(), &fakeEventRepository{})

		component := models.Component{Name: "internal-tool", Version: "1.0.0"}
		component.ID = uuid.New()

		_, _, err := service.ScanComponents(context.Background(), []models.Component{component})
		require.NoError(t, err)

		require.Len(t, scanner.queried, 1)
		assert.Empty(t, scanner.queried[0])
	})

	t.Run("should map the severity from the finding", func(t *testing.T) {
		scanner := &fakeScanner{findings: map[string][]dtos.OSVVulnerability{
			purl: {{
				ID:               "GHSA-xxxx",
				DatabaseSpecific: &dtos.OSVDatabaseSpecific{Severity: "CRITICAL"},
			}},
		}}
		vulnRepository := newFakeVulnRepository()
		service := NewScanService(scanner, vulnRepository, &fakeEventRepository{})

		_, newVulns, err := service.ScanComponents(context.Background(), []models.Component{scanTestComponent(purl)})
		require.NoError(t, err)
		require.Len(t, newVulns, 1)
		assert.Equal(t, dtos.SeverityCritical, newVulns[0].Severity)
	})
}
