// Package metric provides Prometheus metrics for respkv.
package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.ConnectionsActive == nil {
		t.Error("ConnectionsActive is nil")
	}
	if r.CommandsTotal == nil {
		t.Error("CommandsTotal is nil")
	}
	if r.CommandDuration == nil {
		t.Error("CommandDuration is nil")
	}
	if r.KeysExpired == nil {
		t.Error("KeysExpired is nil")
	}
}

func TestGlobal(t *testing.T) {
	r1 := Global()
	r2 := Global()
	if r1 != r2 {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler(t *testing.T) {
	h := Handler()
	if h == nil {
		t.Fatal("Handler() returned nil")
	}

	body := scrape(t, h)

	// Check for Go runtime metrics (from GoCollector)
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
}

func TestConnectionMetrics(t *testing.T) {
	r := NewRegistry()

	r.IncConnections()
	r.IncConnections()
	r.DecConnections()
	r.IncAcceptErrors()

	body := scrape(t, r.Handler())

	if !strings.Contains(body, "respkv_connections_active 1") {
		t.Error("expected respkv_connections_active 1")
	}
	if !strings.Contains(body, "respkv_connections_accepted_total 2") {
		t.Error("expected respkv_connections_accepted_total 2")
	}
	if !strings.Contains(body, "respkv_accept_errors_total 1") {
		t.Error("expected respkv_accept_errors_total 1")
	}
}

func TestCommandMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordCommand("GET", "ok")
	r.RecordCommand("GET", "ok")
	r.RecordCommand("SET", "error")
	r.ObserveCommandDuration("GET", 0.0002)
	r.RecordProtocolError("invalid")

	body := scrape(t, r.Handler())

	if !strings.Contains(body, `respkv_commands_total{command="GET",result="ok"} 2`) {
		t.Error(`expected respkv_commands_total{command="GET",result="ok"} 2`)
	}
	if !strings.Contains(body, `respkv_commands_total{command="SET",result="error"} 1`) {
		t.Error(`expected respkv_commands_total{command="SET",result="error"} 1`)
	}
	if !strings.Contains(body, `respkv_command_duration_seconds_count{command="GET"} 1`) {
		t.Error("expected respkv_command_duration_seconds_count for GET")
	}
	if !strings.Contains(body, `respkv_protocol_errors_total{kind="invalid"} 1`) {
		t.Error(`expected respkv_protocol_errors_total{kind="invalid"} 1`)
	}
}

func TestKeysExpired(t *testing.T) {
	r := NewRegistry()

	r.AddKeysExpired(3)
	r.AddKeysExpired(0)
	r.AddKeysExpired(2)

	body := scrape(t, r.Handler())
	if !strings.Contains(body, "respkv_keys_expired_total 5") {
		t.Error("expected respkv_keys_expired_total 5")
	}
}

type fakeStats struct {
	keys, pending int
}

func (f fakeStats) Len() int                { return f.keys }
func (f fakeStats) PendingExpirations() int { return f.pending }

func TestStoreCollector(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(NewStoreCollector(fakeStats{keys: 7, pending: 2}))

	body := scrape(t, r.Handler())
	if !strings.Contains(body, "respkv_store_keys 7") {
		t.Error("expected respkv_store_keys 7")
	}
	if !strings.Contains(body, "respkv_store_pending_expirations 2") {
		t.Error("expected respkv_store_pending_expirations 2")
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry

	// Should not panic
	r.IncConnections()
	r.DecConnections()
	r.IncAcceptErrors()
	r.RecordCommand("PING", "ok")
	r.ObserveCommandDuration("PING", 0.1)
	r.RecordProtocolError("invalid")
	r.AddKeysExpired(1)
	r.MustRegister(NewStoreCollector(fakeStats{}))
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.IncConnections()
				r.RecordCommand("GET", "ok")
				r.ObserveCommandDuration("GET", 0.001)
				r.DecConnections()
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	body := scrape(t, r.Handler())
	if !strings.Contains(body, `respkv_commands_total{command="GET",result="ok"} 1000`) {
		t.Error("expected 1000 GET commands after concurrent updates")
	}
}
