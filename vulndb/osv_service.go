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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/pkg/errors"
)

// ScanningError marks a failed external scan call. It is non-fatal to an
// upload: ingestion proceeds without scan results for the affected batch.
type ScanningError struct {
	Msg string
	Err error
}

func (e *ScanningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ScanningError) Unwrap() error {
	return e.Err
}

const defaultOSVBaseURL = "https://api.osv.dev"

type OSVService struct {
	httpClient *http.Client
	baseURL    string
}

func NewOSVService(baseURL string) *OSVService {
	if baseURL == "" {
		baseURL = defaultOSVBaseURL
	}
	return &OSVService{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// QueryBatch performs one batch query for all purls instead of N individual
// ones. The response list is positionally correlated to the request list. For
// every purl the batch reports findings for, a per-purl confirmation query
// fetches the full finding set - one extra round trip in exchange for not
// having to reconcile the abbreviated batch payload against tracked findings.
func (s *OSVService) QueryBatch(ctx context.Context, purls []string) (map[string][]dtos.OSVVulnerability, error) {
	findings := make(map[string][]dtos.OSVVulnerability, len(purls))
	if len(purls) == 0 {
		return findings, nil
	}

	request := dtos.OSVBatchRequest{
		Queries: make([]dtos.OSVQuery, len(purls)),
	}
	for i, purl := range purls {
		request.Queries[i] = dtos.OSVQuery{Package: dtos.OSVPackageQuery{Purl: purl}}
	}

	var response dtos.OSVBatchResponse
	if err := s.post(ctx, "/v1/querybatch", request, &response); err != nil {
		return nil, &ScanningError{Msg: "batch vulnerability query failed", Err: err}
	}

	if len(response.Results) != len(purls) {
		return nil, &ScanningError{Msg: fmt.Sprintf("batch response has %d results for %d queries", len(response.Results), len(purls))}
	}

	for i, result := range response.Results {
		if len(result.Vulns) == 0 {
			continue
		}
		confirmed, err := s.Query(ctx, purls[i])
		if err != nil {
			// one purl failing its confirmation does not degrade the rest
			slog.Warn("could not confirm findings for purl", "purl", purls[i], "err", err)
			continue
		}
		if len(confirmed) > 0 {
			findings[purls[i]] = confirmed
		}
	}
	return findings, nil
}

// Query fetches the full finding set for a single purl.
func (s *OSVService) Query(ctx context.Context, purl string) ([]dtos.OSVVulnerability, error) {
	request := dtos.OSVQuery{Package: dtos.OSVPackageQuery{Purl: purl}}
	var response dtos.OSVQueryResult
	if err := s.post(ctx, "/v1/query", request, &response); err != nil {
		return nil, err
	}
	return response.Vulns, nil
}

func (s *OSVService) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "could not marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "could not create request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not reach vulnerability database")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("vulnerability database returned status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, "could not decode response")
	}
	return nil
}
