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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cradle-sec/cradle/dtos"
	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss31 "github.com/pandatix/go-cvss/31"
	"github.com/pkg/errors"
)

const defaultNVDBaseURL = "https://services.nvd.nist.gov/rest/json/cves/2.0"

type NVDService struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewNVDService(baseURL string, apiKey string) *NVDService {
	if baseURL == "" {
		baseURL = defaultNVDBaseURL
	}
	return &NVDService{
		httpClient: &http.Client{
			Transport: &http.Transport{
				// NVD throttles aggressively, keep the connection count low
				MaxIdleConnsPerHost: 3,
			},
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// HasAPIKey gates the enrichment pacing: authenticated callers get a much
// higher published rate limit.
func (s *NVDService) HasAPIKey() bool {
	return s.apiKey != ""
}

// FetchCVE resolves a CVE identifier to an authoritative score, preferring a
// v3.1 metric over a v2 one.
func (s *NVDService) FetchCVE(ctx context.Context, cveID string) (dtos.CVEEnrichment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?cveId="+url.QueryEscape(cveID), nil)
	if err != nil {
		return dtos.CVEEnrichment{}, errors.Wrap(err, "could not create request")
	}
	if s.apiKey != "" {
		req.Header.Set("apiKey", s.apiKey)
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return dtos.CVEEnrichment{}, errors.Wrap(err, "could not reach cve source")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return dtos.CVEEnrichment{}, fmt.Errorf("cve source returned status %d for %s", res.StatusCode, cveID)
	}

	var response dtos.NVDResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return dtos.CVEEnrichment{}, errors.Wrap(err, "could not decode cve response")
	}

	if len(response.Vulnerabilities) == 0 {
		return dtos.CVEEnrichment{}, fmt.Errorf("cve source has no record of %s", cveID)
	}

	return extractEnrichment(cveID, response.Vulnerabilities[0].CVE.Metrics)
}

func extractEnrichment(cveID string, metrics dtos.NVDMetrics) (dtos.CVEEnrichment, error) {
	if len(metrics.CVSSMetricV31) > 0 {
		data := metrics.CVSSMetricV31[0].CVSSData
		score, severity := scoreAndSeverity(data.BaseScore, data.BaseSeverity, data.VectorString, parseV31Vector)
		return dtos.CVEEnrichment{CVEID: cveID, Score: score, Severity: severity, Source: "nvd"}, nil
	}
	if len(metrics.CVSSMetricV2) > 0 {
		metric := metrics.CVSSMetricV2[0]
		label := metric.BaseSeverity
		if label == "" {
			label = metric.CVSSData.BaseSeverity
		}
		score, severity := scoreAndSeverity(metric.CVSSData.BaseScore, label, metric.CVSSData.VectorString, parseV2Vector)
		return dtos.CVEEnrichment{CVEID: cveID, Score: score, Severity: severity, Source: "nvd"}, nil
	}
	return dtos.CVEEnrichment{}, fmt.Errorf("no usable cvss metrics for %s", cveID)
}

func scoreAndSeverity(baseScore float64, label string, vector string, parse func(string) (float64, error)) (float64, string) {
	if baseScore == 0 && vector != "" {
		if score, err := parse(vector); err == nil {
			baseScore = score
		}
	}
	if label == "" {
		label = string(SeverityFromScore(baseScore))
	}
	return baseScore, label
}

func parseV31Vector(vector string) (float64, error) {
	cvss, err := gocvss31.ParseVector(vector)
	if err != nil {
		return 0, err
	}
	return cvss.BaseScore(), nil
}

func parseV2Vector(vector string) (float64, error) {
	cvss, err := gocvss20.ParseVector(vector)
	if err != nil {
		return 0, err
	}
	return cvss.BaseScore(), nil
}
