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

import "fmt"

type VulnState string

const (
	VulnStateOpen    VulnState = "open"
	VulnStateTriaged VulnState = "triaged"
	VulnStatePatched VulnState = "patched"
	VulnStateIgnored VulnState = "ignored"
)

// IsTerminal reports whether a state permits no further transitions.
func (s VulnState) IsTerminal() bool {
	return s == VulnStatePatched || s == VulnStateIgnored
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

type VulnEventType string

const (
	EventTypeDetected     VulnEventType = "detected"
	EventTypeTriaged      VulnEventType = "triaged"
	EventTypePatched      VulnEventType = "patched"
	EventTypeIgnored      VulnEventType = "ignored"
	EventTypeAutoResolved VulnEventType = "autoResolved"
	EventTypeAutoExpired  VulnEventType = "autoExpired"
	EventTypeAssigned     VulnEventType = "assigned"
	EventTypeEnriched     VulnEventType = "enriched"
)

// wireStates maps the dashboard vocabulary onto the internal state enum. Both
// vocabularies are accepted at the API boundary since older dashboard builds
// still send the legacy names. The mapping lives here and nowhere else - the
// state machine only ever sees VulnState values.
var wireStates = map[string]VulnState{
	"discovered":     VulnStateOpen,
	"in-remediation": VulnStateTriaged,
	"resolved":       VulnStatePatched,

	string(VulnStateOpen):    VulnStateOpen,
	string(VulnStateTriaged): VulnStateTriaged,
	string(VulnStatePatched): VulnStatePatched,
	string(VulnStateIgnored): VulnStateIgnored,
}

var stateToWire = map[VulnState]string{
	VulnStateOpen:    "discovered",
	VulnStateTriaged: "in-remediation",
	VulnStatePatched: "resolved",
	VulnStateIgnored: "ignored",
}

func VulnStateFromWire(s string) (VulnState, error) {
	state, ok := wireStates[s]
	if !ok {
		return "", fmt.Errorf("unknown vulnerability status %q", s)
	}
	return state, nil
}

func (s VulnState) ToWire() string {
	return stateToWire[s]
}

type TriageRequest struct {
	Status           *string `json:"status"`
	AssignedTo       *string `json:"assignedTo"`
	RemediationNotes *string `json:"remediationNotes"`
	Justification    *string `json:"justification"`
}
