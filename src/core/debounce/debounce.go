// Package debounce implements C9, the debounce coordinator that
// collapses a burst of decorator registrations at import/init time into
// a single startup pipeline run (spec §4.9), grounded on
// original_source/.../pipeline/orchestrator.py's DebounceCoordinator.
package debounce

import (
	"sync"
	"time"

	"mcp-mesh-agent/src/core/logger"
)

// RunFunc executes the debounced work (the orchestrator's startup
// pipeline run).
type RunFunc func()

// Coordinator cancels any pending scheduled run and schedules a new one
// delay in the future every time Trigger is called (spec §4.9).
// Implemented with time.AfterFunc rather than a goroutine+channel pair,
// matching the source's choice of a plain timer so debouncing works
// whether or not anything resembling an event loop is already running.
type Coordinator struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	run     RunFunc
	debugOn bool
	log     *logger.Logger
}

// New creates a coordinator with the given debounce window and the
// function to run once the window elapses without a new Trigger.
func New(delay time.Duration, run RunFunc) *Coordinator {
	return &Coordinator{delay: delay, run: run, log: logger.New("debounce")}
}

// SetDebugExit records the exit-after-first-run debug switch. The
// coordinator only stores the flag: fire does not read it, and the
// coordinator never exits the process.
func (c *Coordinator) SetDebugExit(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debugOn = on
}

// Trigger cancels any pending timer and schedules a new one delay in
// the future (spec §4.9).
func (c *Coordinator) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, c.fire)
	c.log.Debug("scheduled pipeline run in %s", c.delay)
}

func (c *Coordinator) fire() {
	c.log.Info("debounce window elapsed, running pipeline")
	c.run()
}

// Stop cancels any pending scheduled run, used during shutdown/tests.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
}
