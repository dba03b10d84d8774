package httpserver

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/getkin/kin-openapi/openapi3"
)

// buildOpenAPI describes the operational endpoints and /mcp (spec §4.6
// "/docs, /redoc ... optional"), using github.com/getkin/kin-openapi —
// a direct teacher dependency (entgo/oapi-codegen toolchain) — to model
// the document rather than hand-writing JSON.
func (s *Server) buildOpenAPI() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "mcp-mesh-agent",
			Version: "1.0.0",
		},
		Paths: &openapi3.Paths{},
	}

	doc.Paths.Set("/health", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Summary:   "Liveness check",
			Responses: okResponses("Healthy"),
		},
	})
	doc.Paths.Set("/ready", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Summary:   "Readiness check",
			Responses: okResponses("Ready state"),
		},
	})
	doc.Paths.Set("/mcp", &openapi3.PathItem{
		Post: &openapi3.Operation{
			Summary:     "Invoke a registered tool",
			Description: "JSON-RPC-style tool invocation: {method, params:{name, arguments}}",
			Responses:   okResponses("Tool invocation result"),
		},
	})

	s.mu.RLock()
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	return doc
}

func okResponses(desc string) *openapi3.Responses {
	responses := openapi3.NewResponses()
	responses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(desc),
	})
	return responses
}

func (s *Server) handleOpenAPI(c *gin.Context) {
	doc := s.buildOpenAPI()
	c.JSON(http.StatusOK, doc)
}
