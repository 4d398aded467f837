package api

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fableforge/fableengine/internal/events"
	"github.com/fableforge/fableengine/internal/version"
)

// Metrics state
var (
	metricsState = &MetricsState{}
)

// MetricsState holds runtime metrics for the /metrics endpoint.
type MetricsState struct {
	mu            sync.RWMutex
	startTime     time.Time
	worldName     string
	scriptsLoaded int
}

// InitMetrics initializes the metrics system. Must be called at startup.
func InitMetrics() {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.startTime = time.Now()
}

// SetWorldName sets the world name for metrics labels.
func SetWorldName(name string) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.worldName = name
}

// GetWorldName returns the current world name.
func GetWorldName() string {
	metricsState.mu.RLock()
	defer metricsState.mu.RUnlock()
	return metricsState.worldName
}

// SetScriptsLoaded records how many scripts the world definition carries.
func SetScriptsLoaded(n int) {
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.scriptsLoaded = n
}

// metricsHandler returns Prometheus-compatible metrics in text format.
func metricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Gather metrics
	metricsState.mu.RLock()
	startTime := metricsState.startTime
	worldName := metricsState.worldName
	scriptsLoaded := metricsState.scriptsLoaded
	metricsState.mu.RUnlock()

	uptime := time.Since(startTime).Seconds()
	eventsTotal := events.TotalCount()

	readiness.mu.RLock()
	engineReady := readiness.engineReady
	mqttConnected := readiness.mqttConnected
	postgresConnected := readiness.postgresConnected
	readiness.mu.RUnlock()

	wsClients := events.SubscriberCount()

	activeSessions := 0
	if sessionCounter != nil {
		activeSessions = sessionCounter.Count()
	}
	pendingContinuations := 0
	if pendingCounter != nil {
		pendingContinuations = pendingCounter.Pending()
	}

	engineReadyVal := 0
	if engineReady {
		engineReadyVal = 1
	}

	mqttConnectedVal := 0
	if mqttConnected {
		mqttConnectedVal = 1
	}

	postgresConnectedVal := 0
	if postgresConnected {
		postgresConnectedVal = 1
	}

	// Get hostname for instance label
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	// Build Prometheus text format response
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Helper to write metric with optional labels
	writeMetric := func(name, mtype, help string, value interface{}, labels string) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		if labels != "" {
			fmt.Fprintf(w, "%s{%s} %v\n", name, labels, value)
		} else {
			fmt.Fprintf(w, "%s %v\n", name, value)
		}
	}

	// Common labels
	labels := fmt.Sprintf(`world="%s",instance="%s",version="%s"`, worldName, hostname, version.Version)

	// Uptime
	writeMetric("fable_uptime_seconds", "gauge",
		"Number of seconds since the engine started", uptime, labels)

	// Engine ready
	writeMetric("fable_engine_ready", "gauge",
		"Whether the engine is loaded and dispatching (1) or not (0)", engineReadyVal, labels)

	// Events total
	writeMetric("fable_events_total", "counter",
		"Total number of events emitted since startup", eventsTotal, labels)

	// MQTT connected
	writeMetric("fable_mqtt_connected", "gauge",
		"Whether MQTT broker is connected (1) or not (0)", mqttConnectedVal, labels)

	// Postgres connected
	writeMetric("fable_postgres_connected", "gauge",
		"Whether PostgreSQL is connected (1) or not (0)", postgresConnectedVal, labels)

	// WebSocket clients
	writeMetric("fable_ws_clients", "gauge",
		"Number of active WebSocket client connections", wsClients, labels)

	// Active sessions
	writeMetric("fable_active_sessions", "gauge",
		"Number of active game sessions", activeSessions, labels)

	// Pending continuations
	writeMetric("fable_pending_continuations", "gauge",
		"Number of delayed script continuations waiting to resume", pendingContinuations, labels)

	// Scripts loaded
	writeMetric("fable_scripts_loaded", "gauge",
		"Number of scripts in the loaded world definition", scriptsLoaded, labels)
}
