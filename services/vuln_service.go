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

package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/statemachine"
	"github.com/cradle-sec/cradle/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type vulnService struct {
	vulnRepository  shared.DependencyVulnRepository
	eventRepository shared.VulnEventRepository
}

func NewVulnService(vulnRepository shared.DependencyVulnRepository, eventRepository shared.VulnEventRepository) shared.VulnService {
	return &vulnService{
		vulnRepository:  vulnRepository,
		eventRepository: eventRepository,
	}
}

// UpdateStatus applies a manual triage action: an optional state transition,
// assignee and notes. Every change stamps updated_at through the model.
func (s *vulnService) UpdateStatus(vulnID uuid.UUID, req dtos.TriageRequest, userID string) (models.DependencyVuln, error) {
	vuln, err := s.vulnRepository.Read(vulnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DependencyVuln{}, shared.NewNotFoundError("vulnerability", vulnID.String())
		}
		return models.DependencyVuln{}, err
	}

	var events []models.VulnEvent

	if req.Status != nil {
		target, err := dtos.VulnStateFromWire(*req.Status)
		if err != nil {
			return models.DependencyVuln{}, shared.NewValidationError("%s", err)
		}
		event, err := statemachine.Transition(&vuln, target, statemachine.EventTypeForManualTransition(target), userID, req.Justification)
		if err != nil {
			return models.DependencyVuln{}, shared.NewValidationError("%s", err)
		}
		events = append(events, event)
	}

	if req.AssignedTo != nil {
		vuln.AssignedTo = utils.EmptyThenNil(*req.AssignedTo)
		vuln.UpdatedAt = time.Now()
		events = append(events, models.NewVulnEvent(vuln.ID, dtos.EventTypeAssigned, userID, req.AssignedTo))
	}

	if req.RemediationNotes != nil {
		vuln.RemediationNotes = req.RemediationNotes
		vuln.UpdatedAt = time.Now()
	}

	if err := s.vulnRepository.Save(nil, &vuln); err != nil {
		return models.DependencyVuln{}, err
	}
	if err := s.eventRepository.CreateBatch(nil, events); err != nil {
		// audit trail write, not worth failing the triage action over
		slog.Warn("could not record triage events", "vulnID", vuln.ID, "err", err)
	}
	return vuln, nil
}

// AutoResolveForComponents transitions all non-terminal vulnerabilities of
// the given (old, now superseded) component rows to patched. An upgraded
// dependency is presumed to carry the fix - a policy heuristic, not a
// verified fix.
func (s *vulnService) AutoResolveForComponents(tx shared.DB, componentIDs []uuid.UUID, userID string) (int, error) {
	vulns, err := s.vulnRepository.FindNonTerminalByComponentIDs(tx, componentIDs)
	if err != nil {
		return 0, err
	}

	justification := "component upgraded to a newer version"
	resolved := 0
	var events []models.VulnEvent

	for i := range vulns {
		event, err := statemachine.Transition(&vulns[i], dtos.VulnStatePatched, dtos.EventTypeAutoResolved, userID, &justification)
		if err != nil {
			slog.Warn("could not auto-resolve vulnerability", "vulnID", vulns[i].ID, "err", err)
			continue
		}
		if err := s.vulnRepository.Save(tx, &vulns[i]); err != nil {
			slog.Error("could not save auto-resolved vulnerability", "vulnID", vulns[i].ID, "err", err)
			continue
		}
		events = append(events, event)
		resolved++
	}

	if err := s.eventRepository.CreateBatch(tx, events); err != nil {
		slog.Warn("could not record auto-resolve events", "err", err)
	}
	return resolved, nil
}

// ExpireOverdue sweeps one project for non-terminal vulnerabilities whose
// reporting deadline has passed and transitions them to ignored. Ignored is
// not resolved - statistics keep the two apart. Running the sweep twice in a
// row is a no-op the second time.
func (s *vulnService) ExpireOverdue(projectID uuid.UUID, now time.Time) (int, error) {
	vulns, err := s.vulnRepository.FindNonTerminalOverdueByProject(nil, projectID, now)
	if err != nil {
		return 0, err
	}

	justification := "reporting deadline passed without remediation"
	expired := 0
	var events []models.VulnEvent

	for i := range vulns {
		event, err := statemachine.Transition(&vulns[i], dtos.VulnStateIgnored, dtos.EventTypeAutoExpired, "system", &justification)
		if err != nil {
			slog.Warn("could not expire vulnerability", "vulnID", vulns[i].ID, "err", err)
			continue
		}
		if err := s.vulnRepository.Save(nil, &vulns[i]); err != nil {
			slog.Error("could not save expired vulnerability", "vulnID", vulns[i].ID, "err", err)
			continue
		}
		events = append(events, event)
		expired++
	}

	if err := s.eventRepository.CreateBatch(nil, events); err != nil {
		slog.Warn("could not record expiry events", "err", err)
	}
	return expired, nil
}
