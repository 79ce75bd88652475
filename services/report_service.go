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

package services

import (
	"encoding/json"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

type reportService struct {
	reportRepository  shared.ComplianceReportRepository
	statisticsService shared.StatisticsService
}

func NewReportService(reportRepository shared.ComplianceReportRepository, statisticsService shared.StatisticsService) shared.ReportService {
	return &reportService{
		reportRepository:  reportRepository,
		statisticsService: statisticsService,
	}
}

// GenerateReport snapshots the project statistics at generation time. The
// stored numbers are what was reported, they do not drift with later
// remediation activity.
func (s *reportService) GenerateReport(projectID uuid.UUID, reportType string, submitted bool) (models.ComplianceReport, error) {
	stats, err := s.statisticsService.ProjectStatistics(projectID, time.Now())
	if err != nil {
		return models.ComplianceReport{}, err
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return models.ComplianceReport{}, errors.Wrap(err, "could not marshal statistics snapshot")
	}

	report := models.ComplianceReport{
		ProjectID:            projectID,
		ReportType:           reportType,
		SubmittedToRegulator: submitted,
		Stats:                datatypes.JSON(payload),
	}
	if err := s.reportRepository.Create(nil, &report); err != nil {
		return models.ComplianceReport{}, err
	}
	return report, nil
}

func (s *reportService) ListReports(projectID uuid.UUID) ([]models.ComplianceReport, error) {
	return s.reportRepository.ListByProject(nil, projectID)
}
