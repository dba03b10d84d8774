// Package injector implements C4, the dependency injector: owns the
// capability -> proxy mapping and keeps every wrapped function's view
// of its dependencies consistent with it (spec §4.4), grounded on
// original_source/.../runtime/dependency_injector.py's DependencyInjector.
package injector

import (
	"context"
	"sync"

	"mcp-mesh-agent/src/core/logger"
	"mcp-mesh-agent/src/core/proxy"
)

// CallFunc is the shape of a tool's underlying implementation: declared
// dependency values arrive pre-populated in args under their capability
// name, or as nil if currently unbound (spec §4.4 "Wrapper semantics").
type CallFunc func(ctx context.Context, args map[string]any) (any, error)

// wrapper is the call-site produced by Wrap. It is not tracked by a
// true weak reference (Go's ecosystem equivalent, the `weak` package,
// is newer than this module's language version floor); instead the
// injector's dependents index is pruned on Unwrap, which every caller
// that stops using a wrapped function is expected to call — documented
// in DESIGN.md as a deliberate simplification of spec §4.4's weak-ref
// note.
type wrapper struct {
	funcID       string
	fn           CallFunc
	dependencies []string
}

// Injector owns capability -> proxy bindings and notifies dependent
// wrappers when bindings change (spec §4.4).
type Injector struct {
	mu           sync.Mutex
	dependencies map[string]proxy.Proxy      // capability -> proxy
	dependents   map[string]map[string]bool  // capability -> set of func ids
	wrappers     map[string]*wrapper         // func id -> wrapper
	originals    map[string]CallFunc         // function_name -> original, for self-proxies
	fingerprint  string
	log          *logger.Logger
}

// New creates an empty injector.
func New() *Injector {
	return &Injector{
		dependencies: make(map[string]proxy.Proxy),
		dependents:   make(map[string]map[string]bool),
		wrappers:     make(map[string]*wrapper),
		originals:    make(map[string]CallFunc),
		log:          logger.New("injector"),
	}
}

// RegisterOriginal caches a tool's unwrapped implementation so that a
// future self-dependency resolution can proxy to it without HTTP (spec
// §4.4 "find_original").
func (inj *Injector) RegisterOriginal(functionName string, fn CallFunc) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	inj.originals[functionName] = fn
}

// FindOriginal looks up a cached original by function name.
func (inj *Injector) FindOriginal(functionName string) (CallFunc, bool) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	fn, ok := inj.originals[functionName]
	return fn, ok
}

// Register inserts or replaces the proxy bound to capability, notifying
// every dependent wrapper (spec §4.4 "register").
func (inj *Injector) Register(capability string, p proxy.Proxy) {
	inj.mu.Lock()
	old := inj.dependencies[capability]
	inj.dependencies[capability] = p
	inj.mu.Unlock()

	if old != nil && old != p {
		_ = old.Close()
	}
	inj.log.Info("registered dependency: %s", capability)
}

// Unregister removes capability, notifying dependents with a nil
// binding (spec §4.4 "unregister").
func (inj *Injector) Unregister(capability string) {
	inj.mu.Lock()
	old, existed := inj.dependencies[capability]
	delete(inj.dependencies, capability)
	inj.mu.Unlock()

	if existed {
		if old != nil {
			_ = old.Close()
		}
		inj.log.Info("unregistered dependency: %s", capability)
	}
}

// Get returns the current proxy for capability, or nil if unbound
// (spec §4.4 "get").
func (inj *Injector) Get(capability string) proxy.Proxy {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return inj.dependencies[capability]
}

// Count returns the number of currently-registered capabilities (spec
// §8 "the injector's |dependencies| equals ...").
func (inj *Injector) Count() int {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return len(inj.dependencies)
}

// Capabilities returns a snapshot of currently-registered capability
// names.
func (inj *Injector) Capabilities() map[string]bool {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	out := make(map[string]bool, len(inj.dependencies))
	for k := range inj.dependencies {
		out[k] = true
	}
	return out
}

// Wrap produces the call-site wrapper for fn, declaring dependencies by
// capability name (spec §4.4 "wrap"). At invocation time, the wrapper
// injects the current binding for each declared dependency that the
// caller didn't supply explicitly; an unbound dependency is passed as
// nil, and fn owns the policy for handling that (spec §3 invariants).
func (inj *Injector) Wrap(functionName string, fn CallFunc, dependencies []string) CallFunc {
	w := &wrapper{funcID: functionName, fn: fn, dependencies: dependencies}

	inj.mu.Lock()
	inj.wrappers[functionName] = w
	for _, dep := range dependencies {
		if inj.dependents[dep] == nil {
			inj.dependents[dep] = make(map[string]bool)
		}
		inj.dependents[dep][functionName] = true
	}
	inj.mu.Unlock()

	return func(ctx context.Context, args map[string]any) (any, error) {
		merged := make(map[string]any, len(args)+len(dependencies))
		for k, v := range args {
			merged[k] = v
		}
		for _, dep := range dependencies {
			if existing, ok := merged[dep]; ok && existing != nil {
				continue
			}
			merged[dep] = inj.Get(dep)
		}
		return fn(ctx, merged)
	}
}

// Unwrap removes functionName's dependents-index entries, the Go
// stand-in for the Python runtime's garbage-collected weak reference
// (see the wrapper doc comment above).
func (inj *Injector) Unwrap(functionName string) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	w, ok := inj.wrappers[functionName]
	if !ok {
		return
	}
	for _, dep := range w.dependencies {
		delete(inj.dependents[dep], functionName)
	}
	delete(inj.wrappers, functionName)
}
