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
	"time"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/google/uuid"
)

// DependencyVuln is a tracked finding against one component row. The unique
// index on (component_id, cve_id) makes re-discovery a no-op even across
// concurrent scan invocations - the scanner's check-then-insert is not atomic
// on its own.
type DependencyVuln struct {
	Model
	ComponentID uuid.UUID `json:"componentId" gorm:"type:uuid;not null;uniqueIndex:idx_dependency_vulns_component_cve,priority:1"`
	Component   Component `json:"-" gorm:"foreignKey:ComponentID;constraint:OnDelete:CASCADE;"`

	// CVEID is the external identifier: a CVE alias when the source reports
	// one, the scanner-native id otherwise.
	CVEID string `json:"cveId" gorm:"type:text;not null;uniqueIndex:idx_dependency_vulns_component_cve,priority:2"`

	Severity dtos.Severity  `json:"severity" gorm:"type:text;not null"`
	State    dtos.VulnState `json:"state" gorm:"type:text;not null;default:'open'"`

	AssignedTo       *string `json:"assignedTo" gorm:"type:text"`
	RemediationNotes *string `json:"remediationNotes" gorm:"type:text"`

	DiscoveredAt time.Time `json:"discoveredAt" gorm:"not null"`
	// ReportingDeadline is DiscoveredAt plus the fixed regulatory window.
	// Immutable once set.
	ReportingDeadline time.Time `json:"reportingDeadline" gorm:"not null"`

	// Enrichment fields, backfilled asynchronously from the authoritative
	// CVE source. Nil until enriched.
	Score                 *float64 `json:"score" gorm:"default:null"`
	AuthoritativeSeverity *string  `json:"authoritativeSeverity" gorm:"type:text;default:null"`
	DataSource            *string  `json:"dataSource" gorm:"type:text;default:null"`

	Events []VulnEvent `json:"events" gorm:"foreignKey:VulnID;constraint:OnDelete:CASCADE;"`
}

func (vuln DependencyVuln) TableName() string {
	return "dependency_vulns"
}

func (vuln *DependencyVuln) SetState(state dtos.VulnState) {
	vuln.State = state
	// downstream statistics read remediation latency from UpdatedAt, so a
	// state change must always stamp it
	vuln.UpdatedAt = time.Now()
}

func (vuln DependencyVuln) IsEnriched() bool {
	return vuln.Score != nil
}

func (vuln DependencyVuln) IsOverdue(now time.Time) bool {
	return !vuln.ReportingDeadline.After(now)
}
