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

import (
	"time"

	"github.com/google/uuid"
)

type SBOMFormat string

const (
	SBOMFormatCycloneDX SBOMFormat = "cyclonedx"
	SBOMFormatSPDX      SBOMFormat = "spdx"
)

type ComponentType string

const (
	ComponentTypeLibrary     ComponentType = "library"
	ComponentTypeApplication ComponentType = "application"
	ComponentTypeFramework   ComponentType = "framework"
	ComponentTypeOS          ComponentType = "operating-system"
	ComponentTypeContainer   ComponentType = "container"
	ComponentTypeFile        ComponentType = "file"
	ComponentTypeOther       ComponentType = "other"
)

// ParsedComponent is the canonical component representation produced by the
// SBOM parser, regardless of the input document format.
type ParsedComponent struct {
	Name          string        `json:"name"`
	Version       string        `json:"version"`
	ComponentType ComponentType `json:"componentType"`
	Purl          *string       `json:"purl"`
	License       *string       `json:"license"`
	Author        *string       `json:"author"`
	// EmbeddedVulnCount is the number of vulnerabilities the document itself
	// claims for this component. Display only - the authoritative scan happens
	// downstream.
	EmbeddedVulnCount int `json:"embeddedVulnCount"`
}

type ParsedSBOM struct {
	Format     SBOMFormat        `json:"format"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ParsedComponent `json:"components"`
}

type ChangeType string

const (
	ChangeTypeNew        ChangeType = "new"
	ChangeTypeUpgraded   ChangeType = "upgraded"
	ChangeTypeDowngraded ChangeType = "downgraded"
	ChangeTypeUnchanged  ChangeType = "unchanged"
)

// InventoryEntry is the slice of a stored component the differ needs.
type InventoryEntry struct {
	ID      uuid.UUID
	Version string
}

type ComponentDiff struct {
	Component       ParsedComponent `json:"component"`
	ChangeType      ChangeType      `json:"changeType"`
	PreviousID      *uuid.UUID      `json:"previousId,omitempty"`
	PreviousVersion string          `json:"previousVersion,omitempty"`
}
