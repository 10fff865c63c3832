package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/apperror"
	"statuspulse/pkg/httpclient"
	"statuspulse/pkg/telemetry"
)

type reported struct {
	MonitorID int
	Status    monitor.Status
	Value     int64
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []reported
}

func (r *recordingReporter) Process(_ context.Context, m *monitor.Monitor, status monitor.Status, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reported{MonitorID: m.ID, Status: status, Value: value})
}

func (r *recordingReporter) all() []reported {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reported(nil), r.reports...)
}

type scriptedProber struct {
	results []ProbeResult
	calls   int
}

func (p *scriptedProber) Probe(context.Context, *monitor.Monitor) ProbeResult {
	r := p.results[p.calls%len(p.results)]
	p.calls++
	return r
}

func TestHTTPProber_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("all systems go"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	prober := NewHTTPProber(httpclient.NewHttpClient())

	res := prober.Probe(context.Background(), &monitor.Monitor{URL: srv.URL + "/ok", TimeoutDown: time.Second})
	require.NoError(t, res.Err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "all systems go", res.Body)

	res = prober.Probe(context.Background(), &monitor.Monitor{URL: srv.URL + "/boom", TimeoutDown: time.Second})
	assert.Equal(t, 500, res.StatusCode)

	res = prober.Probe(context.Background(), &monitor.Monitor{URL: srv.URL + "/slow", TimeoutDown: 50 * time.Millisecond})
	assert.Error(t, res.Err)
	assert.Equal(t, 0, res.StatusCode)
	assert.Equal(t, "TIMEOUT", res.Reason)
}

func TestHTTPProber_UnsetDownTimeoutIsBoundedByInterval(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	m := &monitor.Monitor{URL: srv.URL, CheckInterval: 100 * time.Millisecond}
	start := time.Now()
	res := NewHTTPProber(httpclient.NewHttpClient()).Probe(context.Background(), m)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 0, res.StatusCode)
	assert.Equal(t, "TIMEOUT", res.Reason)
	assert.Equal(t, monitor.StatusDown, Classify(res, m))
}

func TestHTTPPoller_DebouncesBeforeReporting(t *testing.T) {
	logger := zerolog.Nop()
	m := &monitor.Monitor{ID: 7, Retries: 3, TimeoutDegraded: time.Second}
	prober := &scriptedProber{results: []ProbeResult{
		{StatusCode: 200, Elapsed: 20 * time.Millisecond},
		{StatusCode: 503},
		{StatusCode: 503},
		{StatusCode: 503},
		{StatusCode: 503},
	}}
	rep := &recordingReporter{}
	p := NewHTTPPoller(m, prober, rep, telemetry.NoopMetrics(), &logger)

	for range 5 {
		p.Tick(context.Background())
	}

	got := rep.all()
	require.Len(t, got, 3)
	assert.Equal(t, reported{MonitorID: 7, Status: monitor.StatusUp, Value: 20}, got[0])
	assert.Equal(t, monitor.StatusDown, got[1].Status, "third consecutive failure is reported")
	assert.Equal(t, monitor.StatusDown, got[2].Status)
}

func TestHTTPPoller_EndToEndWithServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("healthy"))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	m := &monitor.Monitor{ID: 1, URL: srv.URL, TimeoutDown: time.Second, TimeoutDegraded: time.Second}
	rep := &recordingReporter{}
	p := NewHTTPPoller(m, NewHTTPProber(srv.Client()), rep, telemetry.NoopMetrics(), &logger)

	p.Tick(context.Background())

	got := rep.all()
	require.Len(t, got, 1)
	assert.Equal(t, monitor.StatusUp, got[0].Status)
}

func TestParsePush(t *testing.T) {
	at := time.Now()

	p, err := ParsePush("degraded", "12.9", at)
	require.NoError(t, err)
	assert.Equal(t, Push{Status: monitor.StatusDegraded, Value: 12, ReceivedAt: at}, p)

	p, err = ParsePush("up", "", at)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Value)

	_, err = ParsePush("unknown", "1", at)
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))

	_, err = ParsePush("", "", at)
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))

	_, err = ParsePush("up", "abc", at)
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))
}

func TestAPIPoller_ReportsPushesAndStaleness(t *testing.T) {
	logger := zerolog.Nop()
	m := &monitor.Monitor{ID: 3, Type: monitor.TypeAPI, Retries: 1, CheckInterval: time.Minute}
	rep := &recordingReporter{}
	p := NewAPIPoller(m, rep, &logger)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	p.Receive(Push{Status: monitor.StatusUp, Value: 5, ReceivedAt: now.Add(-10 * time.Second)})
	p.Tick(context.Background())

	// stale: re-reported once for the single retry, then forced down
	now = now.Add(2 * time.Minute)
	p.Tick(context.Background())
	now = now.Add(time.Minute)
	p.Tick(context.Background())

	got := rep.all()
	require.Len(t, got, 3)
	assert.Equal(t, reported{MonitorID: 3, Status: monitor.StatusUp, Value: 5}, got[0])
	assert.Equal(t, reported{MonitorID: 3, Status: monitor.StatusUp, Value: 5}, got[1])
	assert.Equal(t, reported{MonitorID: 3, Status: monitor.StatusDown, Value: 0}, got[2])
}
