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

package dtos

import "strings"

// Wire types for the OSV batch query API. The response list is positionally
// correlated to the request list - there is no correlation ID in the wire
// format, so order must be preserved on both sides.

type OSVPackageQuery struct {
	Purl string `json:"purl"`
}

type OSVQuery struct {
	Package OSVPackageQuery `json:"package"`
}

type OSVBatchRequest struct {
	Queries []OSVQuery `json:"queries"`
}

type OSVBatchResponse struct {
	Results []OSVQueryResult `json:"results"`
}

type OSVQueryResult struct {
	Vulns []OSVVulnerability `json:"vulns"`
}

type OSVSeverity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

type OSVDatabaseSpecific struct {
	Severity string `json:"severity"`
}

type OSVVulnerability struct {
	ID               string               `json:"id"`
	Summary          string               `json:"summary,omitempty"`
	Aliases          []string             `json:"aliases,omitempty"`
	Severity         []OSVSeverity        `json:"severity,omitempty"`
	DatabaseSpecific *OSVDatabaseSpecific `json:"database_specific,omitempty"`
}

// ExternalID returns the identifier used to track a finding: an alias starting
// with CVE if one exists, the scanner-native id otherwise.
func (v OSVVulnerability) ExternalID() string {
	for _, alias := range v.Aliases {
		if strings.HasPrefix(alias, "CVE") {
			return alias
		}
	}
	return v.ID
}
