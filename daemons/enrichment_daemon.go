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
	"log/slog"

	"github.com/cradle-sec/cradle/monitoring"
	"github.com/cradle-sec/cradle/shared"
)

// EnrichSweep runs one bounded enrichment pass.
func EnrichSweep(ctx context.Context, enrichmentService shared.EnrichmentService) (int, error) {
	enriched, err := enrichmentService.EnrichPending(ctx)
	if err != nil {
		slog.Error("enrichment sweep failed", "enriched", enriched, "err", err)
		return enriched, err
	}
	if enriched > 0 {
		monitoring.VulnerabilitiesEnrichedTotal.Add(float64(enriched))
		slog.Info("enrichment sweep finished", "enriched", enriched)
	}
	return enriched, nil
}
