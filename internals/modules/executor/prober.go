package executor

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"statuspulse/internals/modules/monitor"
)

// maxBodyBytes caps how much of a response body is read for pattern matching.
const maxBodyBytes = 1 << 20

// fallbackProbeTimeout applies only to monitors built without an interval.
const fallbackProbeTimeout = 30 * time.Second

type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber(client *http.Client) *HTTPProber {
	return &HTTPProber{client: client}
}

// Probe issues a GET bounded by the monitor's probe timeout. Transport errors
// are returned inside the result, never as a separate error.
func (p *HTTPProber) Probe(ctx context.Context, m *monitor.Monitor) ProbeResult {
	timeout := m.ProbeTimeout()
	if timeout <= 0 {
		timeout = fallbackProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL, nil)
	if err != nil {
		return ProbeResult{Err: err, Reason: "INVALID_REQUEST"}
	}
	req.Header.Set("User-Agent", "statuspulse/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return ProbeResult{Err: err, Reason: classifyError(err), Elapsed: time.Since(start)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	if err != nil {
		// a body cut off by the deadline counts as no response
		return ProbeResult{Err: err, Reason: classifyError(err), Elapsed: elapsed}
	}

	return ProbeResult{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Elapsed:    elapsed,
	}
}

func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS_FAILURE"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "NETWORK_TIMEOUT"
		}
		return "NETWORK_ERROR"
	}

	return "UNKNOWN_ERROR"
}
