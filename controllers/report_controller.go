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

	"github.com/cradle-sec/cradle/shared"
	"github.com/labstack/echo/v4"
)

type ReportController struct {
	reportService shared.ReportService
}

func NewReportController(reportService shared.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

type generateReportRequest struct {
	ReportType           string `json:"reportType" validate:"required,oneof=early-warning periodic ad-hoc"`
	SubmittedToRegulator bool   `json:"submittedToRegulator"`
}

func (c *ReportController) Generate(ctx shared.Context) error {
	projectID, err := uuidParam(ctx, "projectID")
	if err != nil {
		return err
	}

	var req generateReportRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse request body").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "reportType must be one of early-warning, periodic, ad-hoc").WithInternal(err)
	}

	report, err := c.reportService.GenerateReport(projectID, req.ReportType, req.SubmittedToRegulator)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, report)
}

func (c *ReportController) List(ctx shared.Context) error {
	projectID, err := uuidParam(ctx, "projectID")
	if err != nil {
		return err
	}
	reports, err := c.reportService.ListReports(projectID)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, reports)
}
