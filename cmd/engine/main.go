// The engine binary loads a world definition and runs it: scripts dispatch
// off broker events, delayed continuations resume on the tick loop, and the
// HTTP API serves operators and editors.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fableforge/fableengine/internal/api"
	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/config"
	"github.com/fableforge/fableengine/internal/events"
	"github.com/fableforge/fableengine/internal/mqtt"
	"github.com/fableforge/fableengine/internal/runtime"
	"github.com/fableforge/fableengine/internal/sched"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/storage/postgres"
	"github.com/fableforge/fableengine/internal/world"
)

func main() {
	configPath := flag.String("config", "engine.yaml", "path to engine config")
	flag.Parse()

	cfg, err := config.LoadEngineConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load engine config: %v", err)
	}

	hostname, _ := os.Hostname()
	events.Emit("info", "system.startup", "engine starting", map[string]interface{}{
		"world":    cfg.World.ID,
		"hostname": hostname,
		"pid":      os.Getpid(),
	})

	// Optional event persistence. The engine runs without it.
	if pg, err := postgres.New(cfg.World.ID); err != nil {
		log.Printf("postgres unavailable, events stay in memory: %v", err)
		api.SetPostgresState(false, true)
	} else {
		events.SetPostgresClient(pg)
		api.SetPostgresState(true, false)
		defer pg.Close()
	}

	w, err := world.Load(cfg.World.File)
	if err != nil {
		log.Fatalf("failed to load world %s: %v", cfg.World.File, err)
	}
	events.Emit("info", "world.loaded", "", map[string]interface{}{
		"world": cfg.World.ID, "scripts": len(w.Scripts),
	})

	cat := catalog.New()
	st := world.NewState(&w.Defs)
	scheduler := sched.New(nil)
	eng := runtime.NewEngine(cat, runtime.NewRng(cfg.Engine.RngSeed), scheduler, cfg.MaxVisits())
	disp := runtime.NewDispatcher(eng, w)

	sessions := mqtt.NewSessionRegistry()
	monitor := mqtt.NewMonitor(sessions, 2.0, func(sessionID string) {
		scheduler.CancelSession(sessionID)
	})

	if cfg.Network.MQTTURL != "" && os.Getenv("FABLE_MQTT_URL") == "" {
		os.Setenv("FABLE_MQTT_URL", cfg.Network.MQTTURL)
	}
	client := mqtt.NewClient("fableengine-" + cfg.World.ID)
	bridge := mqtt.NewBridge(client, sessions, disp, st, eng.ExecLock(), func(sessionID string) {
		scheduler.CancelSession(sessionID)
	})

	// Resumed continuations finish after the dispatch that scheduled them
	// returned, so their output goes straight out on the broker.
	eng.SetResumeHandler(func(session string, res runtime.Result) {
		bridge.PublishResult(session, res)
	})

	if bridge.Start() {
		api.SetMQTTState(true, false)
	} else {
		log.Printf("running without broker; use the API to drive scripts")
		api.SetMQTTState(false, true)
	}

	api.InitAuth()
	api.InitTLS()
	api.InitMetrics()
	api.SetWorldName(cfg.World.Name)
	api.SetScriptsLoaded(len(w.Scripts))
	api.SetEngine(cat, w, st, eng, disp)
	api.SetSessionCounter(sessions)
	api.SetPendingCounter(scheduler)
	api.Start(cfg.APIPort())

	api.SetEngineReady(true)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Continuation resumes and tick dispatches mutate state, so they
			// hold the execution lock like every other entry point. Publishes
			// wait until the lock is released.
			type tickOut struct {
				session string
				res     runtime.Result
			}
			var out []tickOut

			execMu := eng.ExecLock()
			execMu.Lock()
			scheduler.Tick()
			for _, s := range sessions.All() {
				res := disp.RunScriptsFor(s.ID, st, script.OwnerGame, "game", "game.onTick")
				out = append(out, tickOut{session: s.ID, res: res})
			}
			execMu.Unlock()

			for _, o := range out {
				bridge.PublishResult(o.session, o.res)
			}
			monitor.CheckExpiry()
		case sig := <-stop:
			events.Emit("info", "system.shutdown", "engine stopping", map[string]interface{}{
				"signal": sig.String(), "cancelled": scheduler.CancelAll(),
			})
			api.SetEngineReady(false)
			if client.IsConnected() {
				client.Disconnect()
			}
			return
		}
	}
}
