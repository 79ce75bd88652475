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

import "github.com/google/uuid"

// SBOMVersion is a write-once record of one successful upload. The version
// number is monotonically increasing per project - the unique index on
// (project_id, version) makes concurrent uploads race on insert rather than
// silently interleave.
type SBOMVersion struct {
	Model
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_sbom_versions_project_version,priority:1"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`

	Version        int     `json:"version" gorm:"not null;uniqueIndex:idx_sbom_versions_project_version,priority:2"`
	UploadedBy     string  `json:"uploadedBy" gorm:"type:text"`
	ComponentCount int     `json:"componentCount" gorm:"not null;default:0"`
	ContentHash    *string `json:"contentHash" gorm:"type:text;index"`
}

func (s SBOMVersion) TableName() string {
	return "sbom_versions"
}
