package startup

import (
	"context"

	"mcp-mesh-agent/src/core/decorator"
	"mcp-mesh-agent/src/core/httpserver"
	"mcp-mesh-agent/src/core/injector"
	"mcp-mesh-agent/src/core/pipeline"
)

// ToolServerDiscoveryStep locates the embedded tool-server objects to
// mount under /mcp (spec §4.7 step 4). The Go runtime has no import-time
// module scanning equivalent to the Python original's FastMCP instance
// discovery (original_source/.../fastmcpserver_discovery.py); tools are
// already explicit Go values in the decorator store by the time this
// step runs, so discovery here means building the routable table and
// wrapping each tool through the injector for dependency injection.
type ToolServerDiscoveryStep struct {
	Injector *injector.Injector
}

func (s *ToolServerDiscoveryStep) Name() string       { return "tool-server-discovery" }
func (s *ToolServerDiscoveryStep) Required() bool      { return false }
func (s *ToolServerDiscoveryStep) Description() string { return "build the routable tool table from decorated tools" }

func (s *ToolServerDiscoveryStep) Execute(_ context.Context, pc *pipeline.Context) pipeline.Result {
	result := pipeline.NewResult("tool server discovered")

	raw, ok := pc.Get(KeyDecoratedTools)
	if !ok {
		result.Status = pipeline.StatusSkipped
		result.Message = "no decorated tools in context"
		return result
	}
	tools, ok := raw.(map[string]*decorator.Entry)
	if !ok || len(tools) == 0 {
		result.Status = pipeline.StatusSkipped
		result.Message = "no tools registered"
		return result
	}

	table := make(httpserver.ToolTable, len(tools))
	for name, entry := range tools {
		if entry.Tool == nil || entry.ToolMeta == nil {
			continue
		}
		s.Injector.RegisterOriginal(name, injector.CallFunc(entry.Tool))

		deps := make([]string, 0, len(entry.ToolMeta.Dependencies))
		for _, d := range entry.ToolMeta.Dependencies {
			deps = append(deps, d.Capability)
		}
		table[name] = s.Injector.Wrap(name, injector.CallFunc(entry.Tool), deps)
	}

	result.AddContext(KeyToolServer, table)
	return result
}
