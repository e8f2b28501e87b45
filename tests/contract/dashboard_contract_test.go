package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/draftguard/draftguard-agent/internal/dto"
	"github.com/draftguard/draftguard-agent/internal/handler"
)

type stubDashboardService struct {
	response dto.DashboardResponse
}

func (s stubDashboardService) Dashboard() dto.DashboardResponse {
	return s.response
}

func (s stubDashboardService) Refresh(context.Context, bool) dto.DashboardResponse {
	return s.response
}

func (s stubDashboardService) Watch() (<-chan dto.DashboardResponse, func()) {
	ch := make(chan dto.DashboardResponse)
	close(ch)
	return ch, func() {}
}

func TestDashboardContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "dashboard.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	aiScore := 4.5
	plagScore := 12.0
	response := dto.DashboardResponse{
		Summary: dto.CheckSummary{
			Total:      3,
			Pending:    1,
			Processing: 1,
			Completed:  1,
			Overdue:    1,
		},
		Pending: []dto.CheckView{
			{
				CheckID:      "chk-101",
				Status:       "pending",
				RawStatus:    "pending",
				Priority:     "high",
				FileName:     "thesis.pdf",
				FileSize:     245_120,
				WordCount:    8200,
				SubmittedAt:  now.Add(-time.Hour),
				DeliveryTime: now.Add(23 * time.Hour),
			},
		},
		Processing: []dto.CheckView{
			{
				CheckID:         "chk-102",
				Status:          "processing",
				RawStatus:       "checking",
				FileName:        "essay.docx",
				SubmittedAt:     now.Add(-25 * time.Hour),
				DeliveryTime:    now.Add(-time.Hour),
				ProgressPercent: 100,
				RemainingMs:     -time.Hour.Milliseconds(),
				HoursLeft:       1,
				Overdue:         true,
			},
		},
		Completed: []dto.CheckView{
			{
				CheckID:         "chk-103",
				Status:          "completed",
				RawStatus:       "completed",
				FileName:        "paper.odt",
				SubmittedAt:     now.Add(-30 * time.Hour),
				DeliveryTime:    now.Add(-6 * time.Hour),
				ProgressPercent: 100,
				ReportID:        "rep-77",
				AIScore:         &aiScore,
				PlagiarismScore: &plagScore,
				ReportAvailable: true,
			},
		},
		FetchedAt: now,
	}

	h := handler.NewDashboardHandler(stubDashboardService{response: response}, zerolog.Nop())

	app := fiber.New()
	h.Register(app.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestDashboardContractHoldsWhenNotAuthenticated(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "dashboard.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	response := dto.DashboardResponse{
		FetchedAt:        time.Now().UTC(),
		Stale:            true,
		NotAuthenticated: true,
		LastError:        "session expired",
		ErrorKind:        "session_expired",
	}

	h := handler.NewDashboardHandler(stubDashboardService{response: response}, zerolog.Nop())

	app := fiber.New()
	h.Register(app.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
