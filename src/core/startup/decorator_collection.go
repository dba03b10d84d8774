package startup

import (
	"context"

	"mcp-mesh-agent/src/core/decorator"
	"mcp-mesh-agent/src/core/pipeline"
)

// DecoratorCollectionStep snapshots the decorator store into the
// pipeline context (spec §4.7 step 1), grounded on
// original_source/.../pipeline/startup_pipeline.py's ordering (always
// first: every later step needs to know what tools/agents exist).
type DecoratorCollectionStep struct {
	Store *decorator.Store
}

func (s *DecoratorCollectionStep) Name() string        { return "decorator-collection" }
func (s *DecoratorCollectionStep) Required() bool       { return true }
func (s *DecoratorCollectionStep) Description() string  { return "snapshot the decorator registry into context" }

func (s *DecoratorCollectionStep) Execute(_ context.Context, _ *pipeline.Context) pipeline.Result {
	tools := s.Store.GetTools()
	agents := s.Store.GetAgents()

	result := pipeline.NewResult("collected decorator entries")
	result.AddContext(KeyDecoratedTools, tools)
	result.AddContext("decorated_agents", agents)

	if len(agents) == 0 {
		result.Message = "no agent declared; tool entries collected but no agent metadata present"
	}
	return result
}
