package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport(t *testing.T) {
	projectID := uuid.New()
	componentID := uuid.New()

	vulnRepository := newFakeVulnRepository()
	vulnRepository.add(models.DependencyVuln{
		ComponentID:       componentID,
		CVEID:             "CVE-2021-23337",
		Severity:          dtos.SeverityHigh,
		State:             dtos.VulnStateOpen,
		DiscoveredAt:      time.Now(),
		ReportingDeadline: time.Now().Add(24 * time.Hour),
	}, projectID)

	reportRepository := &fakeReportRepository{}
	service := NewReportService(reportRepository, NewStatisticsService(vulnRepository))

	report, err := service.GenerateReport(projectID, "early-warning", true)
	require.NoError(t, err)

	assert.Equal(t, projectID, report.ProjectID)
	assert.Equal(t, "early-warning", report.ReportType)
	assert.True(t, report.SubmittedToRegulator)

	var snapshot dtos.ProjectStatistics
	require.NoError(t, json.Unmarshal(report.Stats, &snapshot))
	assert.Equal(t, 1, snapshot.Total)
	assert.Equal(t, 1, snapshot.Open)

	t.Run("should keep the snapshot frozen as the data changes", func(t *testing.T) {
		vulnRepository.add(models.DependencyVuln{
			ComponentID:       uuid.New(),
			CVEID:             "CVE-2021-44228",
			Severity:          dtos.SeverityCritical,
			State:             dtos.VulnStateOpen,
			DiscoveredAt:      time.Now(),
			ReportingDeadline: time.Now().Add(24 * time.Hour),
		}, projectID)

		stored, err := service.ListReports(projectID)
		require.NoError(t, err)
		require.Len(t, stored, 1)

		var frozen dtos.ProjectStatistics
		require.NoError(t, json.Unmarshal(stored[0].Stats, &frozen))
		assert.Equal(t, 1, frozen.Total)
	})
}
