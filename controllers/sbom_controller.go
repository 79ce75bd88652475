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
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/monitoring"
	"github.com/cradle-sec/cradle/normalize"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/utils"
	"github.com/labstack/echo/v4"
)

type SBOMController struct {
	uploadService     shared.UploadService
	enrichmentService shared.EnrichmentService
	synchronizer      utils.FireAndForgetSynchronizer
}

func NewSBOMController(uploadService shared.UploadService, enrichmentService shared.EnrichmentService, synchronizer utils.FireAndForgetSynchronizer) *SBOMController {
	return &SBOMController{
		uploadService:     uploadService,
		enrichmentService: enrichmentService,
		synchronizer:      synchronizer,
	}
}

// Upload ingests one SBOM document. A malformed document is a 400 with a
// structured failure payload, an unreachable scanner is NOT an error - the
// response then reports zero findings. Enrichment is kicked off
// fire-and-forget, the response never waits for it.
func (c *SBOMController) Upload(ctx shared.Context) error {
	var req dtos.UploadRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse request body").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId and fileContent are required").WithInternal(err)
	}

	result, err := c.uploadService.ProcessUpload(ctx.Request().Context(), req.ProjectID, req.FileContent, callerID(ctx))
	if err != nil {
		var formatErr *normalize.FormatError
		if errors.As(err, &formatErr) {
			return ctx.JSON(http.StatusBadRequest, dtos.UploadResult{
				Success: false,
				Message: formatErr.Error(),
			})
		}
		return httpError(err)
	}

	monitoring.SBOMUploadsTotal.Inc()

	c.synchronizer.FireAndForget(func() {
		if _, err := c.enrichmentService.EnrichPending(context.Background()); err != nil {
			slog.Warn("post-upload enrichment failed", "err", err)
		}
	})

	return ctx.JSON(http.StatusOK, result)
}
