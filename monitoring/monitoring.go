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

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var SBOMUploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cradle_sbom_uploads_total",
	Help: "Number of successfully ingested SBOM uploads.",
})

var ScanSweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "cradle_scan_sweep_duration_seconds",
	Help:    "Duration of a full scan sweep across all projects.",
	Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
})

var ComponentsScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cradle_components_scanned_total",
	Help: "Number of components submitted to the vulnerability scanner.",
})

var VulnerabilitiesDiscoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cradle_vulnerabilities_discovered_total",
	Help: "Number of newly tracked vulnerabilities.",
})

var VulnerabilitiesEnrichedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cradle_vulnerabilities_enriched_total",
	Help: "Number of vulnerabilities backfilled with an authoritative score.",
})

var VulnerabilitiesExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cradle_vulnerabilities_expired_total",
	Help: "Number of vulnerabilities auto-expired past their reporting deadline.",
})
