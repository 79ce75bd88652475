package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cradle-sec/cradle/database/models"
	"github.com/cradle-sec/cradle/dtos"
	"github.com/cradle-sec/cradle/shared"
	"github.com/cradle-sec/cradle/statemachine"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTriageService struct {
	vuln models.DependencyVuln
	err  error
	req  dtos.TriageRequest
}

func (s *stubTriageService) UpdateStatus(vulnID uuid.UUID, req dtos.TriageRequest, userID string) (models.DependencyVuln, error) {
	s.req = req
	if s.err != nil {
		return models.DependencyVuln{}, s.err
	}
	vuln := s.vuln
	if req.Status != nil {
		state, err := dtos.VulnStateFromWire(*req.Status)
		if err != nil {
			return models.DependencyVuln{}, shared.NewValidationError("%s", err)
		}
		vuln.State = state
	}
	return vuln, nil
}

func (s *stubTriageService) AutoResolveForComponents(tx shared.DB, componentIDs []uuid.UUID, userID string) (int, error) {
	return 0, nil
}

func (s *stubTriageService) ExpireOverdue(projectID uuid.UUID, now time.Time) (int, error) {
	return 0, nil
}

type stubVulnRepository struct {
	shared.DependencyVulnRepository
	vulns []models.DependencyVuln
}

func (r *stubVulnRepository) ListByProject(tx shared.DB, projectID uuid.UUID) ([]models.DependencyVuln, error) {
	return r.vulns, nil
}

func triageContext(t *testing.T, vulnID uuid.UUID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("vulnID")
	ctx.SetParamValues(vulnID.String())
	return ctx, rec
}

func TestTriage(t *testing.T) {
	vuln := models.DependencyVuln{
		CVEID:             "CVE-2021-23337",
		State:             dtos.VulnStateOpen,
		ReportingDeadline: time.Now().Add(12 * time.Hour),
	}
	vuln.ID = uuid.New()

	t.Run("should map the internal state back to the dashboard vocabulary", func(t *testing.T) {
		service := &stubTriageService{vuln: vuln}
		controller := NewVulnController(service, &stubVulnRepository{})

		ctx, rec := triageContext(t, vuln.ID, `{"status": "in-remediation"}`)
		require.NoError(t, controller.Triage(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "in-remediation", response["status"])
	})

	t.Run("should return 400 for an invalid transition", func(t *testing.T) {
		service := &stubTriageService{err: shared.NewValidationError("cannot transition")}
		controller := NewVulnController(service, &stubVulnRepository{})

		ctx, _ := triageContext(t, vuln.ID, `{"status": "resolved"}`)
		err := controller.Triage(ctx)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("should return 404 for an unknown vulnerability", func(t *testing.T) {
		service := &stubTriageService{err: shared.NewNotFoundError("vulnerability", vuln.ID.String())}
		controller := NewVulnController(service, &stubVulnRepository{})

		ctx, _ := triageContext(t, vuln.ID, `{"status": "resolved"}`)
		err := controller.Triage(ctx)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("should reject an empty triage request", func(t *testing.T) {
		controller := NewVulnController(&stubTriageService{}, &stubVulnRepository{})

		ctx, _ := triageContext(t, vuln.ID, `{}`)
		err := controller.Triage(ctx)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("should reject a malformed vulnerability id", func(t *testing.T) {
		controller := NewVulnController(&stubTriageService{}, &stubVulnRepository{})

		e := echo.New()
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status": "resolved"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		ctx := e.NewContext(req, httptest.NewRecorder())
		ctx.SetParamNames("vulnID")
		ctx.SetParamValues("not-a-uuid")

		err := controller.Triage(ctx)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestListByProject(t *testing.T) {
	now := time.Now()
	open := models.DependencyVuln{
		CVEID:             "CVE-2021-23337",
		State:             dtos.VulnStateOpen,
		DiscoveredAt:      now,
		ReportingDeadline: statemachine.ReportingDeadline(now),
	}
	open.ID = uuid.New()

	controller := NewVulnController(&stubTriageService{}, &stubVulnRepository{vulns: []models.DependencyVuln{open}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("projectID")
	ctx.SetParamValues(uuid.NewString())

	require.NoError(t, controller.ListByProject(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "discovered", response[0]["status"])

	remaining, ok := response[0]["deadlineRemaining"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, remaining["isOverdue"])
}
