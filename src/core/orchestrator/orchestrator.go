// Package orchestrator implements C10, the top-level owner of the
// startup and heartbeat pipelines, the registry client, the HTTP
// server, and the debounce coordinator (spec §4.10), grounded on
// original_source/.../pipeline/orchestrator.py's MeshOrchestrator.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"mcp-mesh-agent/src/core/config"
	"mcp-mesh-agent/src/core/debounce"
	"mcp-mesh-agent/src/core/decorator"
	"mcp-mesh-agent/src/core/heartbeat"
	"mcp-mesh-agent/src/core/httpserver"
	"mcp-mesh-agent/src/core/injector"
	"mcp-mesh-agent/src/core/logger"
	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/registryclient"
	"mcp-mesh-agent/src/core/startup"
)

// Orchestrator owns every long-lived piece of one agent process (spec
// §4.10). There is exactly one per process, matching the single
// process-wide agent identity of spec §3.
type Orchestrator struct {
	Name string

	Store    *decorator.Store
	Injector *injector.Injector
	Debounce *debounce.Coordinator

	log *logger.Logger

	mu                  sync.Mutex
	server              *httpserver.Server
	consecutiveFailures int
	degraded            bool
}

// New builds an orchestrator with its own decorator store and
// injector, wiring the debounce coordinator's trigger into the store so
// every registration schedules a (debounced) startup run (spec §4.1
// "Side effect", §4.9).
func New(name string, debounceDelay time.Duration) *Orchestrator {
	o := &Orchestrator{
		Name:     name,
		Injector: injector.New(),
		log:      logger.New("orchestrator"),
	}
	o.Store = decorator.New(nil)
	o.Debounce = debounce.New(debounceDelay, func() {
		if _, err := o.ProcessOnce(context.Background()); err != nil {
			o.log.Error("startup pipeline run failed: %v", err)
		}
	})
	o.Store.SetTrigger(o.Debounce.Trigger)
	return o
}

// ProcessOnce runs the startup pipeline exactly once (spec §4.10
// "process_once()"), returning the final pipeline.Result for callers
// (tests, debug tooling) that want to inspect it.
func (o *Orchestrator) ProcessOnce(ctx context.Context) (pipeline.Result, error) {
	o.log.Info("running startup pipeline")

	p := startup.New(o.Store, o.Injector)
	pc := pipeline.NewContext()
	result := p.Run(ctx, pc)

	if result.Status == pipeline.StatusFailed {
		o.log.Error("startup pipeline failed: %s", result.Message)
		return result, nil
	}

	if srvRaw, ok := pc.Get(startup.KeyHTTPServer); ok {
		if srv, ok := srvRaw.(*httpserver.Server); ok {
			o.mu.Lock()
			o.server = srv
			o.mu.Unlock()
			o.startHeartbeatLoop(srv, pc)
		}
	}

	return result, nil
}

// startHeartbeatLoop launches the background heartbeat task on the
// server's lifespan (spec §4.7 step 6, §4.8 cadence/cancellation).
func (o *Orchestrator) startHeartbeatLoop(srv *httpserver.Server, pc *pipeline.Context) {
	hbCfgRaw, ok := pc.Get(startup.KeyHeartbeatConfig)
	if !ok {
		return
	}
	hbCfg, ok := hbCfgRaw.(*startup.HeartbeatConfig)
	if !ok || hbCfg.Client == nil {
		o.log.Info("no registry client; heartbeat loop not started, agent runs standalone")
		return
	}

	payloadRaw, _ := pc.Get(startup.KeyHeartbeatPayload)
	payload, _ := payloadRaw.(registryclient.RequestMetadata)

	interval := hbCfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	srv.StartBackgroundLoop(func(ctx context.Context) {
		o.runHeartbeatLoop(ctx, hbCfg.Client, hbCfg.AgentID, payload, interval)
	})
}

// runHeartbeatLoop runs the heartbeat pipeline immediately on entry —
// this is the agent's only channel for registering with the mesh and
// resolving initial dependencies, so it cannot wait out a full interval
// before its first cycle — then ticks at a fixed interval with no
// overlap between cycles (spec §4.8 "Cadence"): the next cycle is
// scheduled interval after the current one *finishes*, not on a fixed
// wall-clock grid.
func (o *Orchestrator) runHeartbeatLoop(ctx context.Context, client *registryclient.Client, agentID string, payload registryclient.RequestMetadata, interval time.Duration) {
	for {
		p := heartbeat.New(client, agentID, payload, o.statusString, o.Injector)
		pc := pipeline.NewContext()
		result := p.Run(ctx, pc)

		o.recordCycleResult(result)

		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// recordCycleResult applies the three-consecutive-failures degraded
// rule (spec §4.8 "Resilience").
func (o *Orchestrator) recordCycleResult(result pipeline.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if result.Status == pipeline.StatusFailed || len(result.Errors) > 0 {
		o.consecutiveFailures++
		if o.consecutiveFailures >= 3 {
			o.degraded = true
		}
		return
	}
	o.consecutiveFailures = 0
	o.degraded = false
}

func (o *Orchestrator) statusString() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.degraded {
		return "degraded"
	}
	return "healthy"
}

// StartService runs the startup pipeline once and, if the HTTP server
// came up, serves until ctx is cancelled (spec §4.10 "start_service").
func (o *Orchestrator) StartService(ctx context.Context, cfg *config.AgentConfig) error {
	if _, err := o.ProcessOnce(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	srv := o.server
	o.mu.Unlock()
	if srv == nil {
		o.log.Info("no HTTP server started; process_once completed, nothing further to serve")
		return nil
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serveErr:
		return err
	}
}
