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
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/normalize"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type uploadService struct {
	projectRepository     shared.ProjectRepository
	sbomVersionRepository shared.SBOMVersionRepository
	componentRepository   shared.ComponentRepository
	vulnService           shared.VulnService
	scanService           shared.ScanService
}

func NewUploadService(projectRepository shared.ProjectRepository, sbomVersionRepository shared.SBOMVersionRepository, componentRepository shared.ComponentRepository, vulnService shared.VulnService, scanService shared.ScanService) shared.UploadService {
	return &uploadService{
		projectRepository:     projectRepository,
		sbomVersionRepository: sbomVersionRepository,
		componentRepository:   componentRepository,
		vulnService:           vulnService,
		scanService:           scanService,
	}
}

// ProcessUpload runs the full ingestion pipeline for one SBOM document:
// parse, diff against the current inventory, persist the new snapshot,
// auto-resolve findings on upgraded components and scan the new rows.
// A scanner outage degrades the result to zero findings, it never fails the
// ingestion itself.
func (s *uploadService) ProcessUpload(ctx context.Context, projectID uuid.UUID, fileContent string, userID string) (dtos.UploadResult, error) {
	if _, err := s.projectRepository.Read(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.UploadResult{}, shared.NewNotFoundError("project", projectID.String())
		}
		return dtos.UploadResult{}, err
	}

	parsed, err := normalize.ParseSBOM([]byte(fileContent))
	if err != nil {
		return dtos.UploadResult{}, err
	}

	sum := sha256.Sum256([]byte(fileContent))
	contentHash := hex.EncodeToString(sum[:])

	// byte-identical re-upload short-circuits to the version it created
	existing, err := s.sbomVersionRepository.FindByContentHash(nil, projectID, contentHash)
	if err == nil {
		return dtos.UploadResult{
			Success:     true,
			Message:     fmt.Sprintf("identical sbom already ingested as version %d", existing.Version),
			SBOMVersion: existing.Version,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dtos.UploadResult{}, err
	}

	previousInventory, err := s.componentRepository.CurrentInventory(nil, projectID)
	if err != nil {
		return dtos.UploadResult{}, err
	}

	diffs := normalize.DiffInventory(parsed.Components, normalize.InventoryByName(previousInventory))
	upgraded := utils.Filter(diffs, func(diff dtos.ComponentDiff) bool {
		return diff.ChangeType == dtos.ChangeTypeUpgraded && diff.PreviousID != nil
	})
	upgradedIDs := utils.Map(upgraded, func(diff dtos.ComponentDiff) uuid.UUID {
		return *diff.PreviousID
	})

	var version models.SBOMVersion
	var components []models.Component
	err = s.sbomVersionRepository.Transaction(func(tx shared.DB) error {
		latest, err := s.sbomVersionRepository.LatestVersionNumber(tx, projectID)
		if err != nil {
			return err
		}
		version = models.SBOMVersion{
			ProjectID:      projectID,
			Version:        latest + 1,
			UploadedBy:     userID,
			ComponentCount: len(parsed.Components),
			ContentHash:    &contentHash,
		}
		if err := s.sbomVersionRepository.Create(tx, &version); err != nil {
			return err
		}

		components = make([]models.Component, len(parsed.Components))
		for i, component := range parsed.Components {
			components[i] = models.Component{
				ProjectID:         projectID,
				SBOMVersionID:     version.ID,
				Name:              component.Name,
				Version:           component.Version,
				ComponentType:     component.ComponentType,
				Purl:              component.Purl,
				License:           component.License,
				Author:            component.Author,
				EmbeddedVulnCount: component.EmbeddedVulnCount,
			}
		}
		return s.componentRepository.CreateBatch(tx, components)
	})
	if err != nil {
		return dtos.UploadResult{}, err
	}

	autoResolved := 0
	if len(upgradedIDs) > 0 {
		autoResolved, err = s.vulnService.AutoResolveForComponents(nil, upgradedIDs, userID)
		if err != nil {
			// the snapshot is already committed, do not fail the upload
			slog.Error("could not auto-resolve vulnerabilities for upgraded components", "projectID", projectID, "err", err)
		}
	}

	vulnsInserted := 0
	if inserted, _, err := s.scanService.ScanComponents(ctx, components); err != nil {
		slog.Warn("scan unavailable, sbom ingested without findings", "projectID", projectID, "err", err)
	} else {
		vulnsInserted = inserted
	}

	return dtos.UploadResult{
		Success:                     true,
		Message:                     "sbom ingested",
		SBOMVersion:                 version.Version,
		ComponentsInserted:          len(components),
		VulnerabilitiesInserted:     vulnsInserted,
		ComponentsUpgraded:          len(upgraded),
		VulnerabilitiesAutoResolved: autoResolved,
	}, nil
}
