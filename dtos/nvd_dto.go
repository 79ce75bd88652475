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

// Wire types for the NVD CVE API 2.0. Only the fields we read are declared.

type NVDResponse struct {
	ResultsPerPage  int                `json:"resultsPerPage"`
	TotalResults    int                `json:"totalResults"`
	Vulnerabilities []NVDVulnerability `json:"vulnerabilities"`
}

type NVDVulnerability struct {
	CVE NVDCve `json:"cve"`
}

type NVDCve struct {
	ID      string     `json:"id"`
	Metrics NVDMetrics `json:"metrics"`
}

type NVDMetrics struct {
	CVSSMetricV31 []NVDCvssMetricV3 `json:"cvssMetricV31"`
	CVSSMetricV2  []NVDCvssMetricV2 `json:"cvssMetricV2"`
}

type NVDCvssMetricV3 struct {
	CVSSData NVDCvssData `json:"cvssData"`
}

type NVDCvssMetricV2 struct {
	CVSSData NVDCvssData `json:"cvssData"`
	// v2 carries the qualitative label outside the cvssData object
	BaseSeverity string `json:"baseSeverity"`
}

type NVDCvssData struct {
	VectorString string  `json:"vectorString"`
	BaseScore    float64 `json:"baseScore"`
	BaseSeverity string  `json:"baseSeverity"`
}

// CVEEnrichment is the distilled result of an authoritative CVE lookup.
type CVEEnrichment struct {
	CVEID    string  `json:"cveId"`
	Score    float64 `json:"score"`
	Severity string  `json:"severity"`
	Source   string  `json:"source"`
}
