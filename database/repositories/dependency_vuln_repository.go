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

package repositories

import (
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var nonTerminalStates = []dtos.VulnState{dtos.VulnStateOpen, dtos.VulnStateTriaged}

type dependencyVulnRepository struct {
	*GormRepository[uuid.UUID, models.DependencyVuln]
}

func NewDependencyVulnRepository(db *gorm.DB) shared.DependencyVulnRepository {
	return &dependencyVulnRepository{
		GormRepository: newGormRepository[uuid.UUID, models.DependencyVuln](db),
	}
}

// CreateIfNotExists relies on the (component_id, cve_id) unique index: the
// ON CONFLICT DO NOTHING clause makes concurrent scan invocations converge on
// exactly one row without an application-level lock.
func (r *dependencyVulnRepository) CreateIfNotExists(tx shared.DB, vuln *models.DependencyVuln) (bool, error) {
	res := r.GetDB(tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "component_id"}, {Name: "cve_id"}},
		DoNothing: true,
	}).Create(vuln)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *dependencyVulnRepository) FindNonTerminalByComponentIDs(tx shared.DB, componentIDs []uuid.UUID) ([]models.DependencyVuln, error) {
	if len(componentIDs) == 0 {
		return nil, nil
	}
	var vulns []models.DependencyVuln
	err := r.GetDB(tx).
		Where("component_id IN ? AND state IN ?", componentIDs, nonTerminalStates).
		Find(&vulns).Error
	return vulns, err
}

func (r *dependencyVulnRepository) FindNonTerminalOverdueByProject(tx shared.DB, projectID uuid.UUID, now time.Time) ([]models.DependencyVuln, error) {
	var vulns []models.DependencyVuln
	err := r.GetDB(tx).
		Joins("JOIN components ON components.id = dependency_vulns.component_id").
		Where("components.project_id = ? AND dependency_vulns.state IN ? AND dependency_vulns.reporting_deadline <= ?", projectID, nonTerminalStates, now).
		Find(&vulns).Error
	return vulns, err
}

// ListUnenriched only returns CVE identifiers. Scanner-native ids (GHSA-...,
// OSV-...) are unresolvable at the enrichment source and would otherwise pin
// the oldest-first window, starving newer CVE rows.
func (r *dependencyVulnRepository) ListUnenriched(tx shared.DB, limit int) ([]models.DependencyVuln, error) {
	var vulns []models.DependencyVuln
	err := r.GetDB(tx).
		Where("score IS NULL AND cve_id LIKE 'CVE-%'").
		Order("discovered_at ASC").
		Limit(limit).
		Find(&vulns).Error
	return vulns, err
}

func (r *dependencyVulnRepository) ListByProject(tx shared.DB, projectID uuid.UUID) ([]models.DependencyVuln, error) {
	var vulns []models.DependencyVuln
	err := r.GetDB(tx).
		Joins("JOIN components ON components.id = dependency_vulns.component_id").
		Where("components.project_id = ?", projectID).
		Order("dependency_vulns.discovered_at DESC").
		Find(&vulns).Error
	return vulns, err
}
