package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuspulse/config"
	"statuspulse/internals/modules/incident"
	"statuspulse/internals/modules/monitor"
	"statuspulse/internals/modules/result"
)

type fixture struct {
	router    http.Handler
	checks    *result.MemoryRepository
	incidents *incident.MemoryRepository
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	registry, err := monitor.NewRegistry([]config.MonitorConfig{
		{ID: 1, Name: "Website", Visible: true, Type: "http", URL: "https://example.com", CheckIntervalMs: 60000},
		{ID: 2, Name: "Backups", Visible: true, Type: "api", UUID: "5b0d9c4e-3c55-4f0a-9f40-0d6e5f3a1b2c", CheckIntervalMs: 60000, UptimeWording: "success rate"},
		{ID: 3, Name: "Internal", Visible: false, Type: "http", URL: "https://internal.example.com", CheckIntervalMs: 60000},
		{ID: 4, Name: "Ungrouped", Visible: true, Type: "http", URL: "https://other.example.com", CheckIntervalMs: 60000},
	}, []config.GroupConfig{
		{Name: "Public", Monitors: []int{1, 2, 3}},
		{Name: "Empty"},
	})
	require.NoError(t, err)

	logger := zerolog.Nop()
	checks := result.NewMemoryRepository()
	incidents := incident.NewMemoryRepository()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	svc := NewService(
		registry,
		result.NewLatestReader(checks, nil, 2*time.Hour, &logger),
		result.NewAggregator(checks, 90),
		incidents,
		config.PublicConfig{CompanyName: "Acme", BaseDomain: "https://status.acme.test"},
		90,
	)
	svc.now = func() time.Time { return now }

	r := chi.NewRouter()
	Routes(r, NewHandler(svc))

	return &fixture{router: r, checks: checks, incidents: incidents, now: now}
}

func (f *fixture) get(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.checks.Append(ctx, result.Observation{MonitorID: 1, Status: monitor.StatusDegraded, Created: f.now.Add(-time.Minute)}))
	require.NoError(t, f.checks.Append(ctx, result.Observation{MonitorID: 2, Status: monitor.StatusUp, Created: f.now.Add(-3 * time.Hour)}))

	rec, body := f.get(t, "/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Acme", data["public"].(map[string]any)["companyName"])

	groups := data["groups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, "Public", groups[0].(map[string]any)["name"])

	monitors := data["monitors"].([]any)
	require.Len(t, monitors, 2)

	first := monitors[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "degraded", first["status"])
	assert.Equal(t, "uptime", first["uptimeWording"])
	assert.Equal(t, float64(f.now.UnixMilli()), first["ts"])

	second := monitors[1].(map[string]any)
	assert.Equal(t, "unknown", second["status"], "observation outside the lookback window")
	assert.Equal(t, "success rate", second["uptimeWording"])
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, f.checks.Append(ctx, result.Observation{MonitorID: 1, Status: monitor.StatusUp, Created: f.now.Add(-time.Duration(i) * time.Minute)}))
	}

	rec, body := f.get(t, "/monitor?id=1")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	days := data["days"].([]any)
	require.Len(t, days, 91)

	today := days[90].(map[string]any)
	assert.Equal(t, "2026-03-10", today["date"])
	assert.Equal(t, float64(100), today["uptime"])
	assert.Equal(t, "up", today["status"])
	assert.Equal(t, "unknown", days[0].(map[string]any)["status"])

	rec, _ = f.get(t, "/monitors/1/history")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHistory_Errors(t *testing.T) {
	f := newFixture(t)

	cases := map[string]int{
		"/monitor":       http.StatusBadRequest,
		"/monitor?id=x":  http.StatusBadRequest,
		"/monitor?id=99": http.StatusNotFound,
		"/monitor?id=3":  http.StatusNotFound,
	}
	for path, want := range cases {
		rec, body := f.get(t, path)
		assert.Equal(t, want, rec.Code, path)
		assert.Equal(t, false, body["success"], path)
	}
}

func TestIncidents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, created, err := f.incidents.CreateActive(ctx, 1, monitor.CategoryDown, "outage")
	require.NoError(t, err)
	require.True(t, created)

	rec, body := f.get(t, "/incidents")
	require.Equal(t, http.StatusOK, rec.Code)

	list := body["data"].([]any)
	require.Len(t, list, 1)
	inc := list[0].(map[string]any)
	assert.Equal(t, "Website", inc["monitor_name"])
	assert.Equal(t, "down", inc["type"])
	assert.Equal(t, "active", inc["status"])
	assert.Equal(t, "outage", inc["message"])
}
