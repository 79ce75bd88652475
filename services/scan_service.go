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
	"context"
	"log/slog"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/statemachine"
	"github.com/cradle-sec/cradle/vulndb"
)

type scanService struct {
	scanner         shared.VulnScanner
	vulnRepository  shared.DependencyVulnRepository
	eventRepository shared.VulnEventRepository
}

func NewScanService(scanner shared.VulnScanner, vulnRepository shared.DependencyVulnRepository, eventRepository shared.VulnEventRepository) shared.ScanService {
	return &scanService{
		scanner:         scanner,
		vulnRepository:  vulnRepository,
		eventRepository: eventRepository,
	}
}

// ScanComponents batch-queries the vulnerability database for all purl-bearing
// components and persists findings that are not yet tracked. Returns the
// number of newly inserted vulnerabilities and the inserted rows. A failed
// batch query is returned as a ScanningError - the caller decides whether the
// surrounding operation degrades or fails.
func (s *scanService) ScanComponents(ctx context.Context, components []models.Component) (int, []models.DependencyVuln, error) {
	purlToComponent := make(map[string]models.Component, len(components))
	purls := make([]string, 0, len(components))
	for _, component := range components {
		if component.Purl == nil {
			continue
		}
		if _, seen := purlToComponent[*component.Purl]; seen {
			continue
		}
		purlToComponent[*component.Purl] = component
		purls = append(purls, *component.Purl)
	}

	findings, err := s.scanner.QueryBatch(ctx, purls)
	if err != nil {
		return 0, nil, err
	}

	now := time.Now()
	inserted := 0
	var newVulns []models.DependencyVuln

	for purl, vulns := range findings {
		component := purlToComponent[purl]
		for _, finding := range vulns {
			vuln := models.DependencyVuln{
				ComponentID:       component.ID,
				CVEID:             finding.ExternalID(),
				Severity:          vulndb.SeverityForFinding(finding),
				State:             dtos.VulnStateOpen,
				DiscoveredAt:      now,
				ReportingDeadline: statemachine.ReportingDeadline(now),
			}

			created, err := s.vulnRepository.CreateIfNotExists(nil, &vuln)
			if err != nil {
				// keep going - one bad row must not sink the batch
				slog.Error("could not persist finding", "purl", purl, "externalID", vuln.CVEID, "err", err)
				continue
			}
			if !created {
				// already tracked, re-discovery is a no-op
				continue
			}

			event := models.NewVulnEvent(vuln.ID, dtos.EventTypeDetected, "system", nil)
			if err := s.eventRepository.Create(nil, &event); err != nil {
				slog.Warn("could not record detection event", "vulnID", vuln.ID, "err", err)
			}

			inserted++
			newVulns = append(newVulns, vuln)
		}
	}
	return inserted, newVulns, nil
}
