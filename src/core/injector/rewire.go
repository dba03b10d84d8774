package injector

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sort"

	"mcp-mesh-agent/src/core/proxy"
	"mcp-mesh-agent/src/core/registryclient"
)

// Resolution is the function_name -> capability -> DepInfo mapping
// produced by a heartbeat cycle's DependencyResolution step (spec §3
// "Dependency resolution state").
type Resolution map[string]map[string]registryclient.DepInfo

// Fingerprint hashes Resolution into a stable digest (spec §3): a
// rewire is skipped unless the fingerprint changes (spec §8 "Idempotence
// of rewire"). FNV-1a over a deterministically-sorted JSON encoding
// avoids introducing a hashing dependency the pack doesn't otherwise
// use.
func Fingerprint(r Resolution) string {
	type sortedDep struct {
		Capability string                   `json:"capability"`
		Info       registryclient.DepInfo   `json:"info"`
	}
	type sortedFunc struct {
		FunctionName string      `json:"function_name"`
		Deps         []sortedDep `json:"deps"`
	}

	functions := make([]string, 0, len(r))
	for fn := range r {
		functions = append(functions, fn)
	}
	sort.Strings(functions)

	ordered := make([]sortedFunc, 0, len(functions))
	for _, fn := range functions {
		caps := make([]string, 0, len(r[fn]))
		for cap := range r[fn] {
			caps = append(caps, cap)
		}
		sort.Strings(caps)

		deps := make([]sortedDep, 0, len(caps))
		for _, cap := range caps {
			deps = append(deps, sortedDep{Capability: cap, Info: r[fn][cap]})
		}
		ordered = append(ordered, sortedFunc{FunctionName: fn, Deps: deps})
	}

	encoded, _ := json.Marshal(ordered)
	h := fnv.New64a()
	_, _ = h.Write(encoded)
	return string(h.Sum(nil))
}

// RemoteBuilder and SelfBuilder let Rewire construct proxies without the
// injector package importing the HTTP/self proxy constructors directly,
// keeping this package's only dependency on proxy.Proxy the interface.
type RemoteBuilder func(endpoint, functionName string) proxy.Proxy
type SelfBuilder func(functionName string, original CallFunc) proxy.Proxy

// Rewire applies the rewire protocol of spec §4.4: unregister
// capabilities no longer present, then (re)register every available
// capability in the new resolution, building a self-dependency proxy
// when the provider is this agent and a remote proxy otherwise.
//
// currentAgentID identifies "this agent" for self-dependency detection
// (spec §4.4 step 4). An empty Resolution unwires everything (spec §4.4
// "Special rule": a successful empty response means unwire all).
func (inj *Injector) Rewire(ctx context.Context, resolution Resolution, currentAgentID string, buildRemote RemoteBuilder, buildSelf SelfBuilder) {
	target := make(map[string]bool)
	for _, deps := range resolution {
		for cap := range deps {
			target[cap] = true
		}
	}

	current := inj.Capabilities()
	removed := 0
	for cap := range current {
		if !target[cap] {
			inj.Unregister(cap)
			removed++
		}
	}

	registered, skipped := 0, 0
	for _, deps := range resolution {
		for cap, info := range deps {
			if info.Status != "available" && info.Status != "resolved" {
				skipped++
				continue
			}

			var p proxy.Proxy
			if info.AgentID != "" && info.AgentID == currentAgentID {
				original, ok := inj.FindOriginal(info.FunctionName)
				if !ok {
					skipped++
					continue
				}
				p = buildSelf(info.FunctionName, original)
			} else {
				p = buildRemote(info.Endpoint, info.FunctionName)
			}
			inj.Register(cap, p)
			registered++
		}
	}

	inj.log.Info("rewire complete: %d registered, %d skipped, %d removed", registered, skipped, removed)
}

// LastFingerprint and SetLastFingerprint let the heartbeat pipeline's
// DependencyResolution step short-circuit unchanged resolutions (spec
// §4.8 step 3 "if unchanged, return SUCCESS with message 'unchanged'").
func (inj *Injector) LastFingerprint() string {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	return inj.fingerprint
}

func (inj *Injector) SetLastFingerprint(fp string) {
	inj.mu.Lock()
	defer inj.mu.Unlock()
	inj.fingerprint = fp
}
