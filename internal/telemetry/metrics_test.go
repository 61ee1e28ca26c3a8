package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerHealthz(t *testing.T) {
	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
}

func TestHandlerMetrics(t *testing.T) {
	RecordFleet(3, 5)
	RecordSpawnFailure()
	RecordVanished()

	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)

	// Gauges are set, so their values are exact.
	for _, want := range []string{
		"ldes_orchestrator_containers_running 3",
		"ldes_orchestrator_containers_tracked 5",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output is missing %q", want)
		}
	}

	// Counters accumulate across tests; only presence is checked.
	for _, name := range []string{
		"ldes_orchestrator_spawn_failures_total",
		"ldes_orchestrator_containers_vanished_total",
	} {
		if !strings.Contains(text, name) {
			t.Errorf("metrics output is missing %s", name)
		}
	}
}
