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

package daemons

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/monitoring"
	"github.com/cradle-sec/cradle/shared"
)

// ScanSweep rescans the current inventory of every project against the
// vulnerability database. One failing project is recorded as an error string
// and never aborts the sweep for the remaining projects.
func ScanSweep(ctx context.Context, projectRepository shared.ProjectRepository, componentRepository shared.ComponentRepository, scanService shared.ScanService, notifier shared.Notifier) dtos.SweepResult {
	start := time.Now()
	defer func() {
		monitoring.ScanSweepDuration.Observe(time.Since(start).Seconds())
	}()

	projects, err := projectRepository.All()
	if err != nil {
		slog.Error("scan sweep could not list projects", "err", err)
		return dtos.SweepResult{Success: false, Errors: []string{err.Error()}}
	}

	result := dtos.SweepResult{Success: true}
	for _, project := range projects {
		components, err := componentRepository.CurrentInventoryWithPurl(nil, project.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("project %s: %s", project.Name, err))
			continue
		}

		result.Stats.ProjectsScanned++
		result.Stats.ComponentsScanned += len(components)
		if len(components) == 0 {
			continue
		}
		monitoring.ComponentsScannedTotal.Add(float64(len(components)))

		inserted, newVulns, err := scanService.ScanComponents(ctx, components)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("project %s: %s", project.Name, err))
			continue
		}
		result.Stats.NewVulnerabilitiesFound += inserted
		monitoring.VulnerabilitiesDiscoveredTotal.Add(float64(inserted))

		for _, vuln := range newVulns {
			payload := dtos.NotificationPayload{
				UserID:          "system",
				Title:           "New vulnerability discovered",
				Message:         fmt.Sprintf("%s was discovered in project %s", vuln.CVEID, project.Name),
				Type:            "vulnerability_discovered",
				VulnerabilityID: &vuln.ID,
				ProjectID:       &project.ID,
			}
			if err := notifier.Notify(payload); err != nil {
				slog.Warn("could not emit discovery notification", "vulnID", vuln.ID, "err", err)
			}
		}
	}

	slog.Info("scan sweep finished",
		"projects", result.Stats.ProjectsScanned,
		"components", result.Stats.ComponentsScanned,
		"newVulnerabilities", result.Stats.NewVulnerabilitiesFound,
		"errors", len(result.Errors),
		"duration", time.Since(start))
	return result
}
