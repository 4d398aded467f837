// Package api exposes the engine over HTTP: health and readiness probes,
// the event feed, the node type catalog, and the script console endpoints
// editors use to validate and test-run graphs.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/events"
	"github.com/fableforge/fableengine/internal/runtime"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

// engine wiring, set once at startup before the server starts.
var (
	engineCat   *catalog.Catalog
	engineWorld *world.World
	engineState *world.State
	engine      *runtime.Engine
	dispatcher  *runtime.Dispatcher
)

// Counter reports a current count; used for sessions and pending delays.
type Counter interface {
	Count() int
}

// PendingCounter reports pending continuations.
type PendingCounter interface {
	Pending() int
}

var (
	sessionCounter Counter
	pendingCounter PendingCounter
)

// SetEngine wires the API to the engine. Must be called before Start.
func SetEngine(cat *catalog.Catalog, w *world.World, st *world.State, eng *runtime.Engine, d *runtime.Dispatcher) {
	engineCat = cat
	engineWorld = w
	engineState = st
	engine = eng
	dispatcher = d
}

// SetSessionCounter wires the active-session gauge.
func SetSessionCounter(c Counter) { sessionCounter = c }

// SetPendingCounter wires the pending-continuation gauge.
func SetPendingCounter(c PendingCounter) { pendingCounter = c }

// readiness tracks the state of the engine's collaborators for /readyz.
var readiness = struct {
	mu                sync.RWMutex
	engineReady       bool
	mqttConnected     bool
	mqttOptional      bool
	postgresConnected bool
	postgresOptional  bool
}{}

// SetEngineReady marks the engine as loaded and dispatching.
func SetEngineReady(ready bool) {
	readiness.mu.Lock()
	readiness.engineReady = ready
	readiness.mu.Unlock()
}

// SetMQTTState records broker connectivity. Optional brokers don't gate
// readiness.
func SetMQTTState(connected, optional bool) {
	readiness.mu.Lock()
	readiness.mqttConnected = connected
	readiness.mqttOptional = optional
	readiness.mu.Unlock()
}

// SetPostgresState records event store connectivity.
func SetPostgresState(connected, optional bool) {
	readiness.mu.Lock()
	readiness.postgresConnected = connected
	readiness.postgresOptional = optional
	readiness.mu.Unlock()
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	resp := HealthResponse{
		Status:    "ok",
		Service:   "fableengine",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type ReadyResponse struct {
	Ready    bool `json:"ready"`
	Engine   bool `json:"engine"`
	MQTT     bool `json:"mqtt"`
	Postgres bool `json:"postgres"`
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	readiness.mu.RLock()
	resp := ReadyResponse{
		Engine:   readiness.engineReady,
		MQTT:     readiness.mqttConnected || readiness.mqttOptional,
		Postgres: readiness.postgresConnected || readiness.postgresOptional,
	}
	readiness.mu.RUnlock()

	resp.Ready = resp.Engine && resp.MQTT && resp.Postgres

	w.Header().Set("Content-Type", "application/json")
	if !resp.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// eventsHandler serves the in-memory buffer by default; ?source=db reads
// from Postgres when persistence is configured.
func eventsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Query().Get("source") == "db" {
		client := events.GetPostgresClient()
		if client == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "event persistence not configured"})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rows, err := client.Query(limit)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(rows)
		return
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err == nil && limit > 0 {
			_ = json.NewEncoder(w).Encode(events.RecentEvents(limit))
			return
		}
	}
	_ = json.NewEncoder(w).Encode(events.Snapshot())
}

// catalogHandler serves the node type table for palette building.
func catalogHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(engineCat.All())
}

type ValidateResponse struct {
	Report *script.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// validateHandler validates a posted script definition and returns the
// diagnostic report.
func validateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(ValidateResponse{Error: "method not allowed"})
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ValidateResponse{Error: "invalid JSON"})
		return
	}

	g, err := script.Unmarshal(raw)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ValidateResponse{Error: err.Error()})
		return
	}

	report := script.Validate(g, engineCat)
	events.Emit("info", "operator.validate", "", map[string]interface{}{
		"script": g.ID, "valid": report.IsValid(),
	})
	_ = json.NewEncoder(w).Encode(ValidateResponse{Report: &report})
}

type RunRequest struct {
	Session  string `json:"session"`
	ScriptID string `json:"script_id"`
	Event    string `json:"event"`
	NodeID   string `json:"node_id"`
}

type RunResponse struct {
	Result *runtime.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func decodeRunRequest(w http.ResponseWriter, r *http.Request) (*RunRequest, bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(RunResponse{Error: "method not allowed"})
		return nil, false
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(RunResponse{Error: "invalid JSON"})
		return nil, false
	}
	if req.ScriptID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(RunResponse{Error: "script_id required"})
		return nil, false
	}
	if req.Session == "" {
		req.Session = "console"
	}
	return &req, true
}

func findScript(id string) *script.Graph {
	for _, g := range engineWorld.Scripts {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// runHandler executes a whole script against the live state, as if the
// given event had fired.
func runHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req, ok := decodeRunRequest(w, r)
	if !ok {
		return
	}
	if req.Event == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(RunResponse{Error: "event required"})
		return
	}

	g := findScript(req.ScriptID)
	if g == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(RunResponse{Error: "script not found"})
		return
	}

	events.Emit("info", "operator.runEvent", "", map[string]interface{}{
		"script": req.ScriptID, "event_kind": req.Event, "session": req.Session,
	})
	mu := engine.ExecLock()
	mu.Lock()
	res := engine.ExecuteScript(req.Session, g, engineState, req.Event)
	mu.Unlock()
	_ = json.NewEncoder(w).Encode(RunResponse{Result: &res})
}

// runNodeHandler executes a single action node out of band.
func runNodeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req, ok := decodeRunRequest(w, r)
	if !ok {
		return
	}
	if req.NodeID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(RunResponse{Error: "node_id required"})
		return
	}

	events.Emit("info", "operator.runNode", "", map[string]interface{}{
		"script": req.ScriptID, "node": req.NodeID, "session": req.Session,
	})
	mu := engine.ExecLock()
	mu.Lock()
	res := dispatcher.RunSingleNode(req.Session, req.ScriptID, req.NodeID, engineState)
	mu.Unlock()
	if !res.Success && res.ErrorMessage == "script not found: "+req.ScriptID {
		w.WriteHeader(http.StatusNotFound)
	}
	_ = json.NewEncoder(w).Encode(RunResponse{Result: &res})
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.HandleFunc("/readyz", readyHandler)
	mux.HandleFunc("/events", eventsHandler)
	mux.HandleFunc("/catalog", catalogHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/ws/events", wsEventsHandler)
	mux.HandleFunc("/scripts/validate", RequireAnyRole(validateHandler))
	mux.HandleFunc("/scripts/run", RequireAnyRole(runHandler))
	mux.HandleFunc("/scripts/run-node", RequireAnyRole(runNodeHandler))
	return mux
}

// ListenAndServe starts the API server on the given port, with TLS when
// configured. It blocks until the server exits.
func ListenAndServe(port int) error {
	mux := newMux()
	addr := fmt.Sprintf(":%d", port)

	server := &http.Server{
		Addr:      addr,
		Handler:   mux,
		TLSConfig: LoadTLSConfig(),
	}

	if IsTLSEnabled() && server.TLSConfig != nil {
		log.Printf("API listening on %s (TLS)\n", addr)
		return server.ListenAndServeTLS("", "")
	}
	log.Printf("API listening on %s\n", addr)
	return server.ListenAndServe()
}

// Start starts the API server in a goroutine.
// Errors are logged but do not stop the caller.
func Start(port int) {
	go func() {
		if err := ListenAndServe(port); err != nil {
			log.Printf("api server error: %v", err)
		}
	}()
}
