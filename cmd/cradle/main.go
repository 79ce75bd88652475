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

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cradle-sec/cradle/config"
	"github.com/cradle-sec/cradle/controllers"
	"github.com/cradle-sec/cradle/daemons"
	"github.com/cradle-sec/cradle/database"
	"github.com/cradle-sec/cradle/database/repositories"
	"github.com/cradle-sec/cradle/router"
	"github.com/cradle-sec/cradle/services"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/utils"
	"github.com/cradle-sec/cradle/vulndb"
	"github.com/spf13/cobra"
)

// app holds the wired object graph. Wiring is explicit and happens once at
// startup.
type app struct {
	cfg config.Config

	projectRepository   shared.ProjectRepository
	componentRepository shared.ComponentRepository
	vulnRepository      shared.DependencyVulnRepository
	notifier            shared.Notifier

	uploadService     shared.UploadService
	scanService       shared.ScanService
	vulnService       shared.VulnService
	enrichmentService shared.EnrichmentService
	statisticsService shared.StatisticsService
	reportService     shared.ReportService
}

func buildApp(cfg config.Config) (*app, error) {
	db, err := database.NewConnection(cfg.PostgresHost, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresPort)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		return nil, err
	}

	projectRepository := repositories.NewProjectRepository(db)
	sbomVersionRepository := repositories.NewSBOMVersionRepository(db)
	componentRepository := repositories.NewComponentRepository(db)
	vulnRepository := repositories.NewDependencyVulnRepository(db)
	eventRepository := repositories.NewVulnEventRepository(db)
	reportRepository := repositories.NewComplianceReportRepository(db)
	notifier := repositories.NewNotificationRepository(db)

	osvService := vulndb.NewOSVService(cfg.OSVBaseURL)
	nvdService := vulndb.NewNVDService(cfg.NVDBaseURL, cfg.NVDAPIKey)

	scanService := services.NewScanService(osvService, vulnRepository, eventRepository)
	vulnService := services.NewVulnService(vulnRepository, eventRepository)
	enrichmentService := services.NewEnrichmentService(vulnRepository, eventRepository, nvdService)
	statisticsService := services.NewStatisticsService(vulnRepository)
	reportService := services.NewReportService(reportRepository, statisticsService)
	uploadService := services.NewUploadService(projectRepository, sbomVersionRepository, componentRepository, vulnService, scanService)

	return &app{
		cfg:                 cfg,
		projectRepository:   projectRepository,
		componentRepository: componentRepository,
		vulnRepository:      vulnRepository,
		notifier:            notifier,
		uploadService:       uploadService,
		scanService:         scanService,
		vulnService:         vulnService,
		enrichmentService:   enrichmentService,
		statisticsService:   statisticsService,
		reportService:       reportService,
	}, nil
}

func (a *app) serve(ctx context.Context) error {
	go daemons.Schedule(ctx, "scan", a.cfg.ScanInterval, func(ctx context.Context) {
		daemons.ScanSweep(ctx, a.projectRepository, a.componentRepository, a.scanService, a.notifier)
	})
	go daemons.Schedule(ctx, "enrichment", a.cfg.EnrichmentInterval, func(ctx context.Context) {
		daemons.EnrichSweep(ctx, a.enrichmentService) // nolint:errcheck
	})
	go daemons.Schedule(ctx, "expiry", a.cfg.ExpiryInterval, func(ctx context.Context) {
		daemons.ExpireAll(a.projectRepository, a.vulnService) // nolint:errcheck
	})

	e := router.New()
	router.RegisterRoutes(e,
		controllers.NewProjectController(a.projectRepository, a.statisticsService),
		controllers.NewSBOMController(a.uploadService, a.enrichmentService, utils.NewFireAndForgetSynchronizer()),
		controllers.NewVulnController(a.vulnService, a.vulnRepository),
		controllers.NewReportController(a.reportService),
		controllers.NewDaemonController(a.cfg.CronSecret, a.projectRepository, a.componentRepository, a.scanService, a.vulnService, a.enrichmentService, a.notifier),
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("could not shut down server gracefully", "err", err)
		}
	}()

	slog.Info("starting server", "port", a.cfg.Port)
	return e.Start(":" + a.cfg.Port)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cradle",
		Short: "SBOM ingestion and vulnerability remediation tracking",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the API server with background daemons",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(config.Load())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Run a single scan sweep across all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(config.Load())
			if err != nil {
				return err
			}
			result := daemons.ScanSweep(cmd.Context(), a.projectRepository, a.componentRepository, a.scanService, a.notifier)
			slog.Info("sweep done", "newVulnerabilities", result.Stats.NewVulnerabilitiesFound, "errors", len(result.Errors))
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "enrich",
		Short: "Run a single enrichment pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(config.Load())
			if err != nil {
				return err
			}
			_, err = daemons.EnrichSweep(cmd.Context(), a.enrichmentService)
			return err
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "expire",
		Short: "Expire overdue vulnerabilities across all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(config.Load())
			if err != nil {
				return err
			}
			_, err = daemons.ExpireAll(a.projectRepository, a.vulnService)
			return err
		},
	})

	return rootCmd
}

func main() {
	shared.InitLogger()
	if err := shared.LoadConfig(); err != nil {
		slog.Debug("no .env file found, relying on the environment")
	}

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
