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

package router

import (
	"log/slog"
	"net/http"

	"github.com/cradle-sec/cradle/controllers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				slog.Error("request", "method", v.Method, "uri", v.URI, "status", v.Status, "err", v.Error)
			} else {
				slog.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			}
			return nil
		},
	}))
	return e
}

func RegisterRoutes(e *echo.Echo, project *controllers.ProjectController, sbom *controllers.SBOMController, vuln *controllers.VulnController, report *controllers.ReportController, daemon *controllers.DaemonController) {
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.POST("/projects", project.Create)
	api.GET("/projects", project.List)
	api.GET("/projects/:projectID", project.Read)
	api.GET("/projects/:projectID/stats", project.Statistics)
	api.GET("/projects/:projectID/vulns", vuln.ListByProject)
	api.POST("/projects/:projectID/reports", report.Generate)
	api.GET("/projects/:projectID/reports", report.List)

	api.POST("/sbom/upload", sbom.Upload)
	api.PATCH("/vulns/:vulnID", vuln.Triage)

	// external scheduler hooks, secret-gated when a cron secret is configured
	api.POST("/daemons/scan", daemon.TriggerScan)
	api.POST("/daemons/enrich", daemon.TriggerEnrichment)
	api.POST("/daemons/expire", daemon.TriggerExpiry)
}
