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
	"log/slog"
	"time"

	"github.com/cradle-sec/cradle/monitoring"
	"github.com/cradle-sec/cradle/shared"
)

// ExpireAll sweeps every project for findings past their reporting deadline.
// A failing project is logged and skipped.
func ExpireAll(projectRepository shared.ProjectRepository, vulnService shared.VulnService) (int, error) {
	projects, err := projectRepository.All()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	expired := 0
	for _, project := range projects {
		count, err := vulnService.ExpireOverdue(project.ID, now)
		if err != nil {
			slog.Error("could not expire overdue vulnerabilities", "projectID", project.ID, "err", err)
			continue
		}
		expired += count
	}

	if expired > 0 {
		monitoring.VulnerabilitiesExpiredTotal.Add(float64(expired))
		slog.Info("expiry sweep finished", "expired", expired)
	}
	return expired, nil
}
