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

package controllers

import (
	"net/http"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/services"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/utils"
	"github.com/labstack/echo/v4"
)

type VulnController struct {
	vulnService    shared.VulnService
	vulnRepository shared.DependencyVulnRepository
}

func NewVulnController(vulnService shared.VulnService, vulnRepository shared.DependencyVulnRepository) *VulnController {
	return &VulnController{
		vulnService:    vulnService,
		vulnRepository: vulnRepository,
	}
}

// vulnResponse decorates a vulnerability row with the dashboard status
// vocabulary and the live countdown toward its reporting deadline. The
// internal state enum never crosses the API boundary unmapped.
type vulnResponse struct {
	models.DependencyVuln
	Status            string                 `json:"status"`
	DeadlineRemaining dtos.DeadlineRemaining `json:"deadlineRemaining"`
}

func toVulnResponse(vuln models.DependencyVuln, now time.Time) vulnResponse {
	return vulnResponse{
		DependencyVuln:    vuln,
		Status:            vuln.State.ToWire(),
		DeadlineRemaining: services.CalculateDeadlineRemaining(now, vuln.ReportingDeadline),
	}
}

func (c *VulnController) ListByProject(ctx shared.Context) error {
	projectID, err := uuidParam(ctx, "projectID")
	if err != nil {
		return err
	}

	vulns, err := c.vulnRepository.ListByProject(nil, projectID)
	if err != nil {
		return httpError(err)
	}

	now := time.Now()
	return ctx.JSON(http.StatusOK, utils.Map(vulns, func(vuln models.DependencyVuln) vulnResponse {
		return toVulnResponse(vuln, now)
	}))
}

// Triage applies a manual status change, assignment or notes update. The
// status field accepts both the dashboard vocabulary (discovered,
// in-remediation, resolved) and the internal names.
func (c *VulnController) Triage(ctx shared.Context) error {
	vulnID, err := uuidParam(ctx, "vulnID")
	if err != nil {
		return err
	}

	var req dtos.TriageRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse request body").WithInternal(err)
	}
	if req.Status == nil && req.AssignedTo == nil && req.RemediationNotes == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	vuln, err := c.vulnService.UpdateStatus(vulnID, req, callerID(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toVulnResponse(vuln, time.Now()))
}
