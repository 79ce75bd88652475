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
	"math"
	"time"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
)

// criticalWindow flags deadlines with less than this much budget left.
const criticalWindow = 6 * time.Hour

// CalculateDeadlineRemaining decomposes the time left until a reporting
// deadline. A passed deadline yields all-zero duration fields with the overdue
// flag set.
func CalculateDeadlineRemaining(now, deadline time.Time) dtos.DeadlineRemaining {
	if !deadline.After(now) {
		return dtos.DeadlineRemaining{IsOverdue: true, IsCritical: true}
	}
	remaining := deadline.Sub(now)
	return dtos.DeadlineRemaining{
		Hours:      int(remaining / time.Hour),
		Minutes:    int(remaining % time.Hour / time.Minute),
		Seconds:    int(remaining % time.Minute / time.Second),
		IsCritical: remaining < criticalWindow,
	}
}

// HealthScore is the dashboard ring score: the share of tracked
// vulnerabilities that are not past their reporting deadline. An empty project
// is healthy.
func HealthScore(total, overdue int) int {
	if total == 0 {
		return 100
	}
	return clampScore(math.Round(100 * float64(total-overdue) / float64(total)))
}

// WeightedComplianceScore is the report variant: the resolution rate with flat
// penalties for open critical findings and overdue findings.
func WeightedComplianceScore(total, resolved, critical, overdue int) int {
	if total == 0 {
		return 100
	}
	rate := math.Round(100 * float64(resolved) / float64(total))
	return clampScore(rate - 5*float64(critical) - 10*float64(overdue))
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

type statisticsService struct {
	vulnRepository shared.DependencyVulnRepository
}

func NewStatisticsService(vulnRepository shared.DependencyVulnRepository) shared.StatisticsService {
	return &statisticsService{
		vulnRepository: vulnRepository,
	}
}

// ProjectStatistics aggregates the remediation posture of one project.
// Overdue counts every finding past its deadline that was not patched - an
// auto-expired (ignored) finding stays overdue, expiry must not launder the
// score. Critical counts unresolved critical-severity findings.
func (s *statisticsService) ProjectStatistics(projectID uuid.UUID, now time.Time) (dtos.ProjectStatistics, error) {
	vulns, err := s.vulnRepository.ListByProject(nil, projectID)
	if err != nil {
		return dtos.ProjectStatistics{}, err
	}

	stats := dtos.ProjectStatistics{Total: len(vulns)}
	for _, vuln := range vulns {
		switch vuln.State {
		case dtos.VulnStateOpen:
			stats.Open++
		case dtos.VulnStateTriaged:
			stats.Triaged++
		case dtos.VulnStatePatched:
			stats.Patched++
		case dtos.VulnStateIgnored:
			stats.Ignored++
		}
		if vuln.State != dtos.VulnStatePatched && vuln.IsOverdue(now) {
			stats.Overdue++
		}
		if vuln.Severity == dtos.SeverityCritical && !vuln.State.IsTerminal() {
			stats.Critical++
		}
	}

	stats.HealthScore = HealthScore(stats.Total, stats.Overdue)
	stats.WeightedScore = WeightedComplianceScore(stats.Total, stats.Patched, stats.Critical, stats.Overdue)
	return stats, nil
}
