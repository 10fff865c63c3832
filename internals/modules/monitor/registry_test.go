package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuspulse/config"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry([]config.MonitorConfig{
		{
			ID: 1, Name: "Website", Type: "http", URL: "https://example.com", Visible: true,
			CheckIntervalMs: 30000, TimeoutDownMs: 5000, TimeoutDegradedMs: 800,
			Regexp: "ok", ValidStatusCodes: []int{200, 204},
			Incidents: &config.IncidentsConfig{
				Down: &config.IncidentPolicyConfig{CreateAfter: 3, ResolveAfter: 2},
			},
		},
		{ID: 2, Name: "Cron", Type: "api", UUID: "tok", CheckIntervalMs: 60000, Retries: 5},
	}, []config.GroupConfig{{Name: "Core", Monitors: []int{1, 2}}})
	require.NoError(t, err)

	m, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, m.CheckInterval)
	assert.Equal(t, 800*time.Millisecond, m.TimeoutDegraded)
	assert.Equal(t, "uptime", m.UptimeWording)
	assert.True(t, m.BodyPattern.MatchString("all ok"))

	p, ok := m.Policy(CategoryDown)
	require.True(t, ok)
	assert.True(t, p.Enabled())
	assert.Equal(t, DefaultDownMessage, p.MessageFor(CategoryDown))
	_, ok = m.Policy(CategoryDegraded)
	assert.False(t, ok)

	api, ok := r.ByToken("tok")
	require.True(t, ok)
	assert.Equal(t, 2, api.ID)
	assert.Equal(t, 5*time.Minute, api.StalenessWindow())
	assert.Equal(t, time.Minute, api.ProbeTimeout(), "no down timeout falls back to the interval")
	assert.Equal(t, 5*time.Second, m.ProbeTimeout())

	assert.True(t, r.Published(1))
	assert.False(t, r.Published(2), "invisible monitors are not published")
	assert.Equal(t, "Cron", r.Name(2))
	assert.Equal(t, "", r.Name(99))
}

func TestStalenessWindow_ClampsRetries(t *testing.T) {
	m := &Monitor{Retries: 0, CheckInterval: time.Minute}
	assert.Equal(t, time.Minute, m.StalenessWindow())
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry([]config.MonitorConfig{
		{ID: 1, Name: "a", Type: "http"},
		{ID: 1, Name: "b", Type: "http"},
	}, nil)
	assert.Error(t, err)

	_, err = NewRegistry([]config.MonitorConfig{{ID: 1, Name: "a", Type: "http", Regexp: "("}}, nil)
	assert.Error(t, err)
}

func TestParseStatusAndCategory(t *testing.T) {
	for _, s := range []string{"up", "degraded", "down"} {
		got, ok := ParseStatus(s)
		assert.True(t, ok)
		assert.Equal(t, Status(s), got)
	}
	_, ok := ParseStatus("unknown")
	assert.False(t, ok, "unknown is never a reportable status")

	c, err := ParseCategory("degraded")
	require.NoError(t, err)
	assert.Equal(t, CategoryDegraded, c)
	assert.Equal(t, "degraded", c.String())
	_, err = ParseCategory("maintenance")
	assert.Error(t, err)

	assert.False(t, IncidentPolicy{CreateAfter: 3}.Enabled())
	assert.Equal(t, "custom", IncidentPolicy{Message: "custom"}.MessageFor(CategoryDegraded))
	assert.Equal(t, DefaultDegradedMessage, IncidentPolicy{}.MessageFor(CategoryDegraded))
}
