package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	containersRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ldes_orchestrator_containers_running",
		Help: "Consumer containers observed running at the last poll.",
	})

	containersTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ldes_orchestrator_containers_tracked",
		Help: "Consumer containers tracked by this run.",
	})

	spawnFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ldes_orchestrator_spawn_failures_total",
		Help: "Feed spawn attempts that failed.",
	})

	containersVanishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ldes_orchestrator_containers_vanished_total",
		Help: "Tracked containers that disappeared from the runtime.",
	})
)

// RecordFleet updates the running and tracked gauges after a poll pass.
func RecordFleet(running, tracked int) {
	containersRunning.Set(float64(running))
	containersTracked.Set(float64(tracked))
}

// RecordSpawnFailure counts one failed feed spawn.
func RecordSpawnFailure() {
	spawnFailuresTotal.Inc()
}

// RecordVanished counts one container that disappeared from the runtime.
func RecordVanished() {
	containersVanishedTotal.Inc()
}

// Handler returns the HTTP handler serving /healthz and /metrics.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
