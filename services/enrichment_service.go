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
	"strings"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/utils"
)

// maxEnrichmentBatch bounds one invocation. Leftovers wait for the next tick.
const maxEnrichmentBatch = 50

const (
	keyedChunkSize = 5
	keyedDelay     = 100 * time.Millisecond
	anonymousDelay = 600 * time.Millisecond
)

type enrichmentService struct {
	vulnRepository  shared.DependencyVulnRepository
	eventRepository shared.VulnEventRepository
	source          shared.CVEDetailSource

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

func NewEnrichmentService(vulnRepository shared.DependencyVulnRepository, eventRepository shared.VulnEventRepository, source shared.CVEDetailSource) shared.EnrichmentService {
	return &enrichmentService{
		vulnRepository:  vulnRepository,
		eventRepository: eventRepository,
		source:          source,
		sleep:           time.Sleep,
	}
}

// EnrichPending backfills authoritative scores for up to maxEnrichmentBatch
// unenriched vulnerabilities, oldest first. Pacing follows the source's
// published rate limits: chunks of five with a short pause when credentialed,
// strictly serial with a long pause otherwise. A failed lookup is skipped and
// retried on a later invocation.
func (s *enrichmentService) EnrichPending(ctx context.Context) (int, error) {
	vulns, err := s.vulnRepository.ListUnenriched(nil, maxEnrichmentBatch)
	if err != nil {
		return 0, err
	}

	// only CVE identifiers resolve at the source, scanner-native ids
	// (GHSA-..., OSV-...) never leave the process
	candidates := utils.Filter(vulns, func(vuln models.DependencyVuln) bool {
		return strings.HasPrefix(vuln.CVEID, "CVE-")
	})
	if len(candidates) == 0 {
		return 0, nil
	}

	chunkSize, delay := 1, anonymousDelay
	if s.source.HasAPIKey() {
		chunkSize, delay = keyedChunkSize, keyedDelay
	}

	enriched := 0
	for i, chunk := range utils.Chunk(candidates, chunkSize) {
		if i > 0 {
			s.sleep(delay)
		}
		for j := range chunk {
			if err := ctx.Err(); err != nil {
				return enriched, err
			}
			if s.enrichOne(ctx, &chunk[j]) {
				enriched++
			}
		}
	}
	return enriched, nil
}

func (s *enrichmentService) enrichOne(ctx context.Context, vuln *models.DependencyVuln) bool {
	enrichment, err := s.source.FetchCVE(ctx, vuln.CVEID)
	if err != nil {
		slog.Warn("could not enrich vulnerability, will retry", "cveID", vuln.CVEID, "err", err)
		return false
	}

	vuln.Score = utils.Ptr(enrichment.Score)
	vuln.AuthoritativeSeverity = utils.Ptr(enrichment.Severity)
	vuln.DataSource = utils.Ptr(enrichment.Source)
	if err := s.vulnRepository.Save(nil, vuln); err != nil {
		slog.Error("could not save enrichment", "vulnID", vuln.ID, "err", err)
		return false
	}

	event := models.NewVulnEvent(vuln.ID, dtos.EventTypeEnriched, "system", nil)
	if err := s.eventRepository.Create(nil, &event); err != nil {
		slog.Warn("could not record enrichment event", "vulnID", vuln.ID, "err", err)
	}
	return true
}
