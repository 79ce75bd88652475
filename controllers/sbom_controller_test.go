package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/normalize"
	"github.com/cradle-sec/cradle/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploadService struct {
	result dtos.UploadResult
	err    error
	userID string
}

func (s *stubUploadService) ProcessUpload(ctx context.Context, projectID uuid.UUID, fileContent string, userID string) (dtos.UploadResult, error) {
	s.userID = userID
	return s.result, s.err
}

type stubEnrichmentService struct {
	calls int
}

func (s *stubEnrichmentService) EnrichPending(ctx context.Context) (int, error) {
	s.calls++
	return 0, nil
}

func uploadRequest(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sbom/upload", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUpload(t *testing.T) {
	validBody := `{"projectId": "` + uuid.NewString() + `", "fileContent": "{}"}`

	t.Run("should return the upload result and kick off enrichment", func(t *testing.T) {
		uploadService := &stubUploadService{result: dtos.UploadResult{
			Success:                 true,
			SBOMVersion:             1,
			ComponentsInserted:      3,
			VulnerabilitiesInserted: 2,
		}}
		enrichmentService := &stubEnrichmentService{}
		controller := NewSBOMController(uploadService, enrichmentService, utils.NewSyncFireAndForgetSynchronizer())

		ctx, rec := uploadRequest(t, validBody)
		ctx.Request().Header.Set("X-User-ID", "alex")
		require.NoError(t, controller.Upload(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alex", uploadService.userID)
		assert.Equal(t, 1, enrichmentService.calls)

		var result dtos.UploadResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, 3, result.ComponentsInserted)
	})

	t.Run("should translate a format error into a structured 400", func(t *testing.T) {
		uploadService := &stubUploadService{err: normalize.NewFormatError("document matches neither the CycloneDX nor the SPDX schema")}
		enrichmentService := &stubEnrichmentService{}
		controller := NewSBOMController(uploadService, enrichmentService, utils.NewSyncFireAndForgetSynchronizer())

		ctx, rec := uploadRequest(t, validBody)
		require.NoError(t, controller.Upload(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var result dtos.UploadResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "neither")

		// a rejected document never triggers enrichment
		assert.Zero(t, enrichmentService.calls)
	})

	t.Run("should reject a body without fileContent", func(t *testing.T) {
		controller := NewSBOMController(&stubUploadService{}, &stubEnrichmentService{}, utils.NewSyncFireAndForgetSynchronizer())

		ctx, _ := uploadRequest(t, `{"projectId": "`+uuid.NewString()+`"}`)
		err := controller.Upload(ctx)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("should default the caller to anonymous", func(t *testing.T) {
		uploadService := &stubUploadService{result: dtos.UploadResult{Success: true}}
		controller := NewSBOMController(uploadService, &stubEnrichmentService{}, utils.NewSyncFireAndForgetSynchronizer())

		ctx, _ := uploadRequest(t, validBody)
		require.NoError(t, controller.Upload(ctx))
		assert.Equal(t, "anonymous", uploadService.userID)
	})
}
