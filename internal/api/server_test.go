package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/events"
	"github.com/fableforge/fableengine/internal/runtime"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

func setupTestEngine(t *testing.T) {
	t.Helper()
	events.Clear()
	auth = nil

	cat := catalog.New()
	w := &world.World{Defs: world.Definitions{
		Title:     "Test World",
		StartRoom: "hall",
		Rooms: map[string]world.Room{
			"hall": {ID: "hall", Name: "Great Hall"},
		},
		Objects: map[string]world.Object{},
		Npcs:    map[string]world.Npc{},
		Doors:   map[string]world.Door{},
		Quests:  map[string]world.Quest{},
		Fx:      map[string]world.Fx{},
	}}

	g := script.NewGraph("s1", "greeting", script.OwnerGame, "game")
	evt, err := g.AddNode(cat, "game.onStart", nil)
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	act, err := g.AddNode(cat, "action.showMessage", map[string]catalog.Value{
		"text": catalog.TextValue("welcome"),
	})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := g.AddConnection(cat, evt, catalog.PortExec, act, catalog.PortExec); err != nil {
		t.Fatalf("AddConnection failed: %v", err)
	}
	w.AttachScript(g)

	st := world.NewState(&w.Defs)
	eng := runtime.NewEngine(cat, runtime.NewRng(1), nil, 64)
	SetEngine(cat, w, st, eng, runtime.NewDispatcher(eng, w))
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "fableengine" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestReadyHandler(t *testing.T) {
	SetEngineReady(false)
	SetMQTTState(false, false)
	SetPostgresState(false, false)

	rec := httptest.NewRecorder()
	readyHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("not-ready status = %d, want 503", rec.Code)
	}

	SetEngineReady(true)
	SetMQTTState(true, false)
	SetPostgresState(false, true) // optional postgres doesn't gate readiness

	rec = httptest.NewRecorder()
	readyHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d, want 200", rec.Code)
	}
	var resp ReadyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if !resp.Ready {
		t.Error("expected ready=true")
	}
}

func TestCatalogHandler(t *testing.T) {
	setupTestEngine(t)

	rec := httptest.NewRecorder()
	catalogHandler(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var types []catalog.NodeType
	if err := json.Unmarshal(rec.Body.Bytes(), &types); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(types) < 50 {
		t.Errorf("catalog suspiciously small: %d types", len(types))
	}
}

func TestEventsHandlerLimit(t *testing.T) {
	setupTestEngine(t)
	for i := 0; i < 5; i++ {
		events.Emit("info", "system.startup", "", nil)
	}

	rec := httptest.NewRecorder()
	eventsHandler(rec, httptest.NewRequest(http.MethodGet, "/events?limit=2", nil))

	var got []events.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d events, want 2", len(got))
	}
}

func TestValidateHandler(t *testing.T) {
	setupTestEngine(t)

	body := `{
		"version": 1,
		"id": "v1",
		"name": "validate me",
		"owner_kind": "game",
		"owner_id": "game",
		"nodes": [],
		"connections": []
	}`
	req := httptest.NewRequest(http.MethodPost, "/scripts/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	validateHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	var resp ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Report == nil {
		t.Fatal("missing report")
	}
	if resp.Report.IsValid() {
		t.Error("empty graph should not validate")
	}
}

func TestValidateHandlerRejectsBadJSON(t *testing.T) {
	setupTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/scripts/validate", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	validateHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
}

func TestRunHandler(t *testing.T) {
	setupTestEngine(t)

	body := `{"script_id": "s1", "event": "game.onStart", "session": "test"}`
	req := httptest.NewRequest(http.MethodPost, "/scripts/run", strings.NewReader(body))
	rec := httptest.NewRecorder()

	runHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	var resp RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Result == nil || !resp.Result.Success {
		t.Fatalf("run failed: %+v", resp)
	}
	if len(resp.Result.Messages) != 1 || resp.Result.Messages[0] != "welcome" {
		t.Errorf("got messages %v", resp.Result.Messages)
	}
}

func TestRunHandlerUnknownScript(t *testing.T) {
	setupTestEngine(t)

	body := `{"script_id": "nope", "event": "game.onStart"}`
	req := httptest.NewRequest(http.MethodPost, "/scripts/run", strings.NewReader(body))
	rec := httptest.NewRecorder()
	runHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestRunHandlerRequiresPost(t *testing.T) {
	setupTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/scripts/run", nil)
	rec := httptest.NewRecorder()
	runHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want 405", rec.Code)
	}
}

func TestConcurrentRunsSerializeStateMutation(t *testing.T) {
	setupTestEngine(t)

	cat := engineCat
	g := script.NewGraph("s2", "counting", script.OwnerGame, "game")
	evt, err := g.AddNode(cat, "game.onStart", nil)
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	inc, err := g.AddNode(cat, "action.incCounter", map[string]catalog.Value{
		"counter": catalog.TextValue("hits"),
		"amount":  catalog.IntValue(1),
	})
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := g.AddConnection(cat, evt, catalog.PortExec, inc, catalog.PortExec); err != nil {
		t.Fatalf("AddConnection failed: %v", err)
	}
	engineWorld.AttachScript(g)

	const runs = 16
	body := `{"script_id": "s2", "event": "game.onStart", "session": "race"}`

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/scripts/run", strings.NewReader(body))
			rec := httptest.NewRecorder()
			runHandler(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("got status %d", rec.Code)
			}
		}()
	}
	wg.Wait()

	if got := engineState.Counter("hits"); got != runs {
		t.Errorf("counter = %d after %d serialized runs, want %d", got, runs, runs)
	}
}

func TestRunNodeHandler(t *testing.T) {
	setupTestEngine(t)

	var actID string
	for _, n := range engineWorld.Scripts[0].Nodes {
		if n.Type == "action.showMessage" {
			actID = n.ID
		}
	}
	if actID == "" {
		t.Fatal("fixture missing action node")
	}

	body := `{"script_id": "s1", "node_id": "` + actID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/scripts/run-node", strings.NewReader(body))
	rec := httptest.NewRecorder()
	runNodeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	var resp RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Result == nil || !resp.Result.Success {
		t.Fatalf("run-node failed: %+v", resp)
	}
}
