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
	"errors"
	"net/http"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/shared"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ProjectController struct {
	projectRepository shared.ProjectRepository
	statisticsService shared.StatisticsService
}

func NewProjectController(projectRepository shared.ProjectRepository, statisticsService shared.StatisticsService) *ProjectController {
	return &ProjectController{
		projectRepository: projectRepository,
		statisticsService: statisticsService,
	}
}

type createProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (c *ProjectController) Create(ctx shared.Context) error {
	var req createProjectRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse request body").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required").WithInternal(err)
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := c.projectRepository.Create(nil, &project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "a project with this name already exists").WithInternal(err)
		}
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, project)
}

func (c *ProjectController) List(ctx shared.Context) error {
	projects, err := c.projectRepository.All()
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (c *ProjectController) Read(ctx shared.Context) error {
	projectID, err := uuidParam(ctx, "projectID")
	if err != nil {
		return err
	}
	project, err := c.projectRepository.Read(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "project not found").WithInternal(err)
		}
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, project)
}

// Statistics powers the dashboard ring chart and the overdue banner.
func (c *ProjectController) Statistics(ctx shared.Context) error {
	projectID, err := uuidParam(ctx, "projectID")
	if err != nil {
		return err
	}
	stats, err := c.statisticsService.ProjectStatistics(projectID, time.Now())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, stats)
}
