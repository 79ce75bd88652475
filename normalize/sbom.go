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

package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/utils"
	"github.com/package-url/packageurl-go"
)

// FormatError marks a document that matches neither recognized SBOM schema.
// It is fatal to an upload and surfaced to the caller verbatim.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return e.Msg
}

func NewFormatError(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// formatProbe looks at the discriminating tags of both SBOM standards without
// committing to a full decode.
type formatProbe struct {
	BomFormat   string          `json:"bomFormat"`
	SpdxVersion string          `json:"spdxVersion"`
	Components  json.RawMessage `json:"components"`
	Packages    json.RawMessage `json:"packages"`
}

func nonEmptyArray(raw json.RawMessage) bool {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return false
	}
	return len(entries) > 0
}

// ParseSBOM converts a raw CycloneDX or SPDX JSON document into the canonical
// component model. Detection order: bomFormat tag, spdxVersion tag, then a
// lenient fallback on a non-empty components or packages array.
func ParseSBOM(raw []byte) (dtos.ParsedSBOM, error) {
	var probe formatProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return dtos.ParsedSBOM{}, NewFormatError("document is not valid JSON: %s", err)
	}

	switch {
	case probe.BomFormat != "":
		return parseCycloneDX(raw)
	case probe.SpdxVersion != "":
		return parseSPDX(raw)
	case nonEmptyArray(probe.Components):
		return parseCycloneDX(raw)
	case nonEmptyArray(probe.Packages):
		return parseSPDX(raw)
	}
	return dtos.ParsedSBOM{}, NewFormatError("document matches neither the CycloneDX nor the SPDX schema")
}

func parseCycloneDX(raw []byte) (dtos.ParsedSBOM, error) {
	var bom cdx.BOM
	decoder := cdx.NewBOMDecoder(bytes.NewReader(raw), cdx.BOMFileFormatJSON)
	if err := decoder.Decode(&bom); err != nil {
		return dtos.ParsedSBOM{}, NewFormatError("could not decode CycloneDX document: %s", err)
	}

	// the document's own embedded vulnerability claims, keyed by bom-ref.
	// display count only - the authoritative scan happens downstream.
	embeddedVulnCounts := map[string]int{}
	if bom.Vulnerabilities != nil {
		for _, vulnerability := range *bom.Vulnerabilities {
			if vulnerability.Affects == nil {
				continue
			}
			for _, affected := range *vulnerability.Affects {
				embeddedVulnCounts[affected.Ref]++
			}
		}
	}

	parsed := dtos.ParsedSBOM{
		Format:    dtos.SBOMFormatCycloneDX,
		Timestamp: time.Now(),
	}
	if bom.Metadata != nil {
		parsed.Timestamp = parseTimestamp(bom.Metadata.Timestamp)
	}

	if bom.Components == nil {
		return parsed, nil
	}

	parsed.Components = make([]dtos.ParsedComponent, 0, len(*bom.Components))
	for _, component := range *bom.Components {
		parsed.Components = append(parsed.Components, dtos.ParsedComponent{
			Name:              component.Name,
			Version:           component.Version,
			ComponentType:     mapComponentType(component.Type),
			Purl:              validPurl(component.PackageURL),
			License:           cdxLicense(component.Licenses),
			Author:            utils.EmptyThenNil(component.Author),
			EmbeddedVulnCount: embeddedVulnCounts[component.BOMRef],
		})
	}
	return parsed, nil
}

func cdxLicense(licenses *cdx.Licenses) *string {
	if licenses == nil {
		return nil
	}
	for _, choice := range *licenses {
		if choice.License != nil {
			if choice.License.Name != "" {
				return utils.Ptr(choice.License.Name)
			}
			if choice.License.ID != "" {
				return utils.Ptr(choice.License.ID)
			}
		}
		if choice.Expression != "" {
			return utils.Ptr(choice.Expression)
		}
	}
	return nil
}

func mapComponentType(t cdx.ComponentType) dtos.ComponentType {
	switch t {
	case cdx.ComponentTypeLibrary:
		return dtos.ComponentTypeLibrary
	case cdx.ComponentTypeApplication:
		return dtos.ComponentTypeApplication
	case cdx.ComponentTypeFramework:
		return dtos.ComponentTypeFramework
	case cdx.ComponentTypeOS:
		return dtos.ComponentTypeOS
	case cdx.ComponentTypeContainer:
		return dtos.ComponentTypeContainer
	case cdx.ComponentTypeFile:
		return dtos.ComponentTypeFile
	default:
		return dtos.ComponentTypeOther
	}
}

// SPDX documents are decoded with local structs - only the fields we read.

type spdxDocument struct {
	SpdxVersion  string            `json:"spdxVersion"`
	CreationInfo *spdxCreationInfo `json:"creationInfo"`
	Packages     []spdxPackage     `json:"packages"`
}

type spdxCreationInfo struct {
	Created string `json:"created"`
}

type spdxPackage struct {
	Name             string            `json:"name"`
	VersionInfo      string            `json:"versionInfo"`
	LicenseConcluded string            `json:"licenseConcluded"`
	LicenseDeclared  string            `json:"licenseDeclared"`
	Originator       string            `json:"originator"`
	Supplier         string            `json:"supplier"`
	ExternalRefs     []spdxExternalRef `json:"externalRefs"`
}

type spdxExternalRef struct {
	ReferenceCategory string `json:"referenceCategory"`
	ReferenceType     string `json:"referenceType"`
	ReferenceLocator  string `json:"referenceLocator"`
}

func parseSPDX(raw []byte) (dtos.ParsedSBOM, error) {
	var doc spdxDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dtos.ParsedSBOM{}, NewFormatError("could not decode SPDX document: %s", err)
	}

	parsed := dtos.ParsedSBOM{
		Format:    dtos.SBOMFormatSPDX,
		Timestamp: time.Now(),
	}
	if doc.CreationInfo != nil {
		parsed.Timestamp = parseTimestamp(doc.CreationInfo.Created)
	}

	parsed.Components = make([]dtos.ParsedComponent, 0, len(doc.Packages))
	for _, pkg := range doc.Packages {
		parsed.Components = append(parsed.Components, dtos.ParsedComponent{
			Name:          pkg.Name,
			Version:       pkg.VersionInfo,
			ComponentType: dtos.ComponentTypeLibrary,
			Purl:          spdxPurl(pkg.ExternalRefs),
			License:       spdxLicense(pkg),
			Author:        utils.EmptyThenNil(firstNonEmpty(pkg.Originator, pkg.Supplier)),
		})
	}
	return parsed, nil
}

func spdxLicense(pkg spdxPackage) *string {
	if pkg.LicenseConcluded != "" && pkg.LicenseConcluded != "NOASSERTION" {
		return utils.Ptr(pkg.LicenseConcluded)
	}
	if pkg.LicenseDeclared != "" && pkg.LicenseDeclared != "NOASSERTION" {
		return utils.Ptr(pkg.LicenseDeclared)
	}
	return nil
}

func spdxPurl(refs []spdxExternalRef) *string {
	for _, ref := range refs {
		refType := strings.ToLower(ref.ReferenceType)
		if refType == "purl" || refType == "package-url" {
			return validPurl(ref.ReferenceLocator)
		}
	}
	return nil
}

// validPurl keeps the original string when it parses as a package URL and
// drops it otherwise - an unparseable purl would poison the downstream batch
// query.
func validPurl(purl string) *string {
	if purl == "" {
		return nil
	}
	if _, err := packageurl.FromString(purl); err != nil {
		return nil
	}
	return utils.Ptr(purl)
}

// parseTimestamp never fails: a missing or malformed document timestamp
// degrades to parse time.
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Now()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
