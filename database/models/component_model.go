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

package models

import (
	"errors"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/google/uuid"
	"github.com/package-url/packageurl-go"
)

// Component rows are immutable: a new upload inserts new rows instead of
// mutating existing ones. The current inventory of a project is the set of
// components belonging to its latest SBOM version.
type Component struct {
	Model
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index:idx_components_project_name,priority:1"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`

	SBOMVersionID uuid.UUID   `json:"sbomVersionId" gorm:"type:uuid;not null;index"`
	SBOMVersion   SBOMVersion `json:"-" gorm:"foreignKey:SBOMVersionID;constraint:OnDelete:CASCADE;"`

	Name          string             `json:"name" gorm:"type:text;not null;index:idx_components_project_name,priority:2"`
	Version       string             `json:"version" gorm:"type:text;not null"`
	ComponentType dtos.ComponentType `json:"componentType" gorm:"type:text;not null;default:'other'"`
	Purl          *string            `json:"purl" gorm:"type:text"`
	License       *string            `json:"license" gorm:"type:text"`
	Author        *string            `json:"author" gorm:"type:text"`

	// EmbeddedVulnCount is what the uploaded document claimed for this
	// component. Display only, the authoritative findings live in
	// dependency_vulns.
	EmbeddedVulnCount int `json:"embeddedVulnCount" gorm:"not null;default:0"`
}

func (c Component) TableName() string {
	return "components"
}

func (c Component) PackageURL() (packageurl.PackageURL, error) {
	if c.Purl == nil {
		return packageurl.PackageURL{}, errors.New("component has no purl")
	}
	return packageurl.FromString(*c.Purl)
}
