package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/handler"
)

type stubDashboardService struct {
	response dto.DashboardResponse
	refreshs int
	updates  chan dto.DashboardResponse
}

func (s *stubDashboardService) Dashboard() dto.DashboardResponse {
	return s.response
}

func (s *stubDashboardService) Refresh(_ context.Context, manual bool) dto.DashboardResponse {
	s.refreshs++
	response := s.response
	response.Manual = manual
	return response
}

func (s *stubDashboardService) Watch() (<-chan dto.DashboardResponse, func()) {
	if s.updates == nil {
		s.updates = make(chan dto.DashboardResponse, 4)
	}
	return s.updates, func() {}
}

func dashboardApp(svc *stubDashboardService) *fiber.App {
	app := fiber.New()
	handler.NewDashboardHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1"))
	return app
}

func TestDashboardHandlerReturnsSnapshot(t *testing.T) {
	svc := &stubDashboardService{response: dto.DashboardResponse{
		Summary: dto.CheckSummary{Total: 3, Pending: 1, Processing: 1, Completed: 1},
		Pending: []dto.CheckView{{CheckID: "p", Status: "pending"}},
	}}
	app := dashboardApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                  `json:"success"`
		Message string                `json:"message"`
		Data    dto.DashboardResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()

	require.True(t, payload.Success)
	require.Equal(t, 3, payload.Data.Summary.Total)
	require.Equal(t, "p", payload.Data.Pending[0].CheckID)
}

func TestDashboardHandlerSignalsNotAuthenticated(t *testing.T) {
	svc := &stubDashboardService{response: dto.DashboardResponse{NotAuthenticated: true}}
	app := dashboardApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDashboardHandlerManualRefresh(t *testing.T) {
	svc := &stubDashboardService{response: dto.DashboardResponse{
		Summary: dto.CheckSummary{Total: 1, Completed: 1},
	}}
	app := dashboardApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.refreshs)

	var payload struct {
		Data dto.DashboardResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.True(t, payload.Data.Manual, "manual refreshes must be distinguishable from background ticks")
}

func TestLiveEndpointRequiresUpgrade(t *testing.T) {
	app := dashboardApp(&stubDashboardService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/live", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
