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
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/cradle-sec/cradle/daemons"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/labstack/echo/v4"
)

// DaemonController exposes the periodic sweeps as HTTP triggers for external
// schedulers. The shared secret is optional: when configured, every trigger
// must present it.
type DaemonController struct {
	cronSecret string

	projectRepository   shared.ProjectRepository
	componentRepository shared.ComponentRepository
	scanService         shared.ScanService
	vulnService         shared.VulnService
	enrichmentService   shared.EnrichmentService
	notifier            shared.Notifier
}

func NewDaemonController(cronSecret string, projectRepository shared.ProjectRepository, componentRepository shared.ComponentRepository, scanService shared.ScanService, vulnService shared.VulnService, enrichmentService shared.EnrichmentService, notifier shared.Notifier) *DaemonController {
	return &DaemonController{
		cronSecret:          cronSecret,
		projectRepository:   projectRepository,
		componentRepository: componentRepository,
		scanService:         scanService,
		vulnService:         vulnService,
		enrichmentService:   enrichmentService,
		notifier:            notifier,
	}
}

func (c *DaemonController) authorize(ctx shared.Context) error {
	if c.cronSecret == "" {
		return nil
	}
	provided := ctx.Request().Header.Get("X-Cron-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(c.cronSecret)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid cron secret")
	}
	return nil
}

func (c *DaemonController) TriggerScan(ctx shared.Context) error {
	if err := c.authorize(ctx); err != nil {
		return err
	}
	result := daemons.ScanSweep(ctx.Request().Context(), c.projectRepository, c.componentRepository, c.scanService, c.notifier)
	return ctx.JSON(http.StatusOK, result)
}

func (c *DaemonController) TriggerEnrichment(ctx shared.Context) error {
	if err := c.authorize(ctx); err != nil {
		return err
	}
	enriched, err := daemons.EnrichSweep(ctx.Request().Context(), c.enrichmentService)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, map[string]int{"enriched": enriched})
}

// TriggerExpiry expires overdue findings for one project. Running it twice is
// safe, the second run finds nothing left to expire.
func (c *DaemonController) TriggerExpiry(ctx shared.Context) error {
	if err := c.authorize(ctx); err != nil {
		return err
	}

	var req dtos.ExpiryRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse request body").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId is required").WithInternal(err)
	}

	expired, err := c.vulnService.ExpireOverdue(req.ProjectID, time.Now())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, dtos.ExpiryResult{Expired: expired})
}
