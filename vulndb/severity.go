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

package vulndb

import (
	"strings"

	"github.com/cradle-sec/cradle/dtos"
	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss31 "github.com/pandatix/go-cvss/31"
)

// MapSeverity translates the external severity vocabulary to the internal
// scale. Unknown or absent labels default to high - better to over-report
// than to let an unrated finding slip below the triage fold.
func MapSeverity(label string) dtos.Severity {
	switch strings.ToUpper(label) {
	case "CRITICAL":
		return dtos.SeverityCritical
	case "HIGH":
		return dtos.SeverityHigh
	case "MODERATE", "MEDIUM":
		return dtos.SeverityMedium
	case "LOW":
		return dtos.SeverityLow
	default:
		return dtos.SeverityHigh
	}
}

// SeverityFromScore maps a CVSS base score to the internal scale using the
// standard v3 rating bands.
func SeverityFromScore(score float64) dtos.Severity {
	switch {
	case score >= 9.0:
		return dtos.SeverityCritical
	case score >= 7.0:
		return dtos.SeverityHigh
	case score >= 4.0:
		return dtos.SeverityMedium
	default:
		return dtos.SeverityLow
	}
}

// SeverityForFinding derives the internal severity of an OSV finding: the
// source's self-reported label wins, a parseable CVSS v3 vector is second
// choice, and high is the default when the source reports nothing.
func SeverityForFinding(vuln dtos.OSVVulnerability) dtos.Severity {
	if vuln.DatabaseSpecific != nil && vuln.DatabaseSpecific.Severity != "" {
		return MapSeverity(vuln.DatabaseSpecific.Severity)
	}
	if score, ok := scoreFromVectors(vuln.Severity); ok {
		return SeverityFromScore(score)
	}
	return dtos.SeverityHigh
}

func scoreFromVectors(severities []dtos.OSVSeverity) (float64, bool) {
	for _, severity := range severities {
		switch severity.Type {
		case "CVSS_V3":
			if cvss, err := gocvss31.ParseVector(severity.Score); err == nil {
				return cvss.BaseScore(), true
			}
		case "CVSS_V2":
			if cvss, err := gocvss20.ParseVector(severity.Score); err == nil {
				return cvss.BaseScore(), true
			}
		}
	}
	return 0, false
}
