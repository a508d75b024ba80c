package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/carepledge/internal/app"
	"github.com/templui/carepledge/internal/config"
	"github.com/templui/carepledge/internal/routes"
)

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newServer(t *testing.T, writesPerWindow int) http.Handler {
	t.Helper()

	cfg := &config.Config{
		AppName:             "CarePledge",
		AppEnv:              "development",
		AppURL:              "http://localhost:8090",
		StoreBackend:        config.StoreMemory,
		SeedDemoData:        true,
		DemoFallbackEnabled: true,
		SweepInterval:       time.Minute,
		CORSOrigins:         []string{"*"},
		RateLimitWrites:     writesPerWindow,
		RateLimitWindow:     time.Minute,
	}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return routes.SetupRoutes(a)
}

func call(t *testing.T, h http.Handler, procedure, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/rpc/"+procedure, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type pledgeView struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	Status    string `json:"status"`
	Accepted  bool   `json:"accepted"`
	Duration  string `json:"duration"`
}

func TestHealth(t *testing.T) {
	h := newServer(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestPledgeFlow(t *testing.T) {
	h := newServer(t, 0)

	code, env := call(t, h, "provider.createPledge",
		`{"patientId":"83921","amount":500,"goal":"BP Stabilization","duration":"7","providerName":"Dr. Emily Chen"}`)
	require.Equal(t, http.StatusOK, code)
	created := decode[pledgeView](t, env.Result)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "pt-83921", created.PatientID)
	assert.Equal(t, "7", created.Duration)

	code, env = call(t, h, "provider.acceptPledge", `{"pledgeId":"`+created.ID+`"}`)
	require.Equal(t, http.StatusOK, code)
	accepted := decode[pledgeView](t, env.Result)
	assert.Equal(t, "active", accepted.Status)
	assert.True(t, accepted.Accepted)

	code, env = call(t, h, "provider.getMyPledges", `{"userId":"#83921"}`)
	require.Equal(t, http.StatusOK, code)
	mine := decode[[]pledgeView](t, env.Result)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
}

func TestCreatePledge_Errors(t *testing.T) {
	h := newServer(t, 0)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing goal", `{"patientId":"83921","amount":500}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad duration", `{"patientId":"83921","amount":500,"goal":"Walk","duration":"soon"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed body", `{"patientId":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown patient", `{"patientId":"00000","amount":500,"goal":"Walk"}`, http.StatusNotFound, "PATIENT_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call(t, h, "provider.createPledge", tt.body)
			assert.Equal(t, tt.status, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestGoals_UnknownID(t *testing.T) {
	h := newServer(t, 0)

	code, env := call(t, h, "goals.complete", `{"id":"goal-missing"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"success":false,"error":"Goal not found"}`, string(env.Result))

	code, env = call(t, h, "goals.update", `{"id":"goal-missing","updates":{"current":"1"}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", string(env.Result))
}

func TestGoals_CreateAndComplete(t *testing.T) {
	h := newServer(t, 0)

	code, env := call(t, h, "goals.create",
		`{"title":"Steps","category":"activity","target":"10000 steps","current":"5000 steps","reward":200}`)
	require.Equal(t, http.StatusOK, code)
	goal := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, env.Result)
	assert.Equal(t, "active", goal.Status)

	code, env = call(t, h, "goals.complete", `{"id":"`+goal.ID+`"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"success":true}`, string(env.Result))

	code, env = call(t, h, "goals.update", `{"id":"`+goal.ID+`","updates":{"status":"active"}}`)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	code, env = call(t, h, "goals.getHistory", `{"limit":10}`)
	require.Equal(t, http.StatusOK, code)
	history := decode[[]struct {
		ID       string  `json:"id"`
		Progress float64 `json:"progress"`
	}](t, env.Result)
	require.Len(t, history, 1)
	assert.Equal(t, goal.ID, history[0].ID)
	assert.Equal(t, float64(100), history[0].Progress)
}

func TestUnknownProcedure(t *testing.T) {
	h := newServer(t, 0)

	code, env := call(t, h, "goals.delete", `{}`)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Contains(t, env.Error.Message, "goals.delete")
}

func TestProcedure_RequiresPost(t *testing.T) {
	h := newServer(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rpc/goals.list", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExportSnapshot_NoStorage(t *testing.T) {
	h := newServer(t, 0)

	code, env := call(t, h, "dashboard.exportSnapshot", `{"adminId":"admin-1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STORAGE_UNAVAILABLE", env.Error.Code)
}

func TestWrites_RateLimited(t *testing.T) {
	h := newServer(t, 1)

	code, _ := call(t, h, "goals.create", `{"title":"Water","category":"hydration"}`)
	require.Equal(t, http.StatusOK, code)

	code, env := call(t, h, "goals.create", `{"title":"Sleep","category":"sleep"}`)
	assert.Equal(t, http.StatusTooManyRequests, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)

	// Reads are not counted against the write budget
	code, _ = call(t, h, "goals.list", `{}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestCORS(t *testing.T) {
	h := newServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDashboards(t *testing.T) {
	h := newServer(t, 0)

	code, env := call(t, h, "dashboard.leaderboard", `{}`)
	require.Equal(t, http.StatusOK, code)
	board := decode[[]struct {
		StaffID string `json:"staffId"`
	}](t, env.Result)
	assert.Len(t, board, 3)

	code, _ = call(t, h, "dashboard.commandCenter", `{"adminId":"admin-1"}`)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, h, "dashboard.tokenEconomy", `{}`)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, h, "provider.getDashboard", `{"providerId":"dr-chen"}`)
	assert.Equal(t, http.StatusOK, code)
}
