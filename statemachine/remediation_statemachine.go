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

// Package statemachine governs the vulnerability remediation lifecycle:
//
//	open -> triaged -> patched
//
// with ignored reachable from any non-terminal state. patched and ignored are
// terminal.
package statemachine

import (
	"fmt"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
)

// ReportingWindow is the fixed regulatory early-warning window. It is a
// constant of the regulation, not a per-project setting.
const ReportingWindow = 24 * time.Hour

// ReportingDeadline computes the immutable deadline stamped on a finding at
// discovery time.
func ReportingDeadline(discoveredAt time.Time) time.Time {
	return discoveredAt.Add(ReportingWindow)
}

var allowedTransitions = map[dtos.VulnState][]dtos.VulnState{
	dtos.VulnStateOpen:    {dtos.VulnStateTriaged, dtos.VulnStatePatched, dtos.VulnStateIgnored},
	dtos.VulnStateTriaged: {dtos.VulnStatePatched, dtos.VulnStateIgnored},
}

func CanTransition(from, to dtos.VulnState) bool {
	if from == to {
		return false
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves a vulnerability to the target state and returns the event
// recording the transition. The caller persists both.
func Transition(vuln *models.DependencyVuln, to dtos.VulnState, eventType dtos.VulnEventType, userID string, justification *string) (models.VulnEvent, error) {
	if !CanTransition(vuln.State, to) {
		return models.VulnEvent{}, fmt.Errorf("cannot transition vulnerability %s from %s to %s", vuln.ID, vuln.State, to)
	}
	vuln.SetState(to)
	return models.NewVulnEvent(vuln.ID, eventType, userID, justification), nil
}

// EventTypeForManualTransition maps a triage target state to its event type.
func EventTypeForManualTransition(to dtos.VulnState) dtos.VulnEventType {
	switch to {
	case dtos.VulnStateTriaged:
		return dtos.EventTypeTriaged
	case dtos.VulnStatePatched:
		return dtos.EventTypePatched
	case dtos.VulnStateIgnored:
		return dtos.EventTypeIgnored
	default:
		return dtos.EventTypeDetected
	}
}
