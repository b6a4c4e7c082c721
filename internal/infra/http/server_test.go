//go:build !integration

package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rec.Body)
	return rec.Code, string(body)
}

func TestHealth(t *testing.T) {
	s := NewServer(0, prometheus.NewRegistry(), nil, nil)
	code, body := get(t, s.Router(), "/health")
	if code != http.StatusOK || body != "OK" {
		t.Fatalf("health = %d %q", code, body)
	}
}

func TestReady(t *testing.T) {
	ok := NewServer(0, prometheus.NewRegistry(), fakePinger{}, nil)
	if code, _ := get(t, ok.Router(), "/ready"); code != http.StatusOK {
		t.Errorf("ready with healthy store = %d", code)
	}

	down := NewServer(0, prometheus.NewRegistry(), fakePinger{err: errors.New("dial tcp: refused")}, nil)
	if code, _ := get(t, down.Router(), "/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("ready with failing store = %d", code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "quote_bot_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	code, body := get(t, NewServer(0, reg, nil, nil).Router(), "/metrics")
	if code != http.StatusOK || !strings.Contains(body, "quote_bot_test_total 1") {
		t.Fatalf("metrics = %d %q", code, body)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	if err := NewServer(0, nil, nil, nil).Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
